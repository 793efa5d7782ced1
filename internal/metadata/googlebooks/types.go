package googlebooks

// volumesResponse is the raw response from the volumes endpoint.
type volumesResponse struct {
	Items      []volume `json:"items"`
	TotalItems int      `json:"totalItems"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Description         string               `json:"description"`
	PublishedDate       string               `json:"publishedDate"`
	PageCount           int                  `json:"pageCount"`
	ImageLinks          imageLinks           `json:"imageLinks"`
	IndustryIdentifiers []industryIdentifier `json:"industryIdentifiers"`
}

type imageLinks struct {
	Thumbnail      string `json:"thumbnail"`
	SmallThumbnail string `json:"smallThumbnail"`
}

type industryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}
