package domain

import "time"

// Annotation is a note a reader leaves on a book: a quote, a thought, or a
// discussion point. Annotations posted with a club ID are visible to that
// club; otherwise they are personal.
type Annotation struct {
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	BookID     string    `json:"book_id"`
	ClubID     string    `json:"club_id,omitempty"`
	Content    string    `json:"content"`
	Chapter    string    `json:"chapter,omitempty"`
	PageNumber int       `json:"page_number,omitempty"`
	IsSpoiler  bool      `json:"is_spoiler"`
	// Denormalized for feed rendering.
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// AllowedReactions is the closed set of reaction emoji.
var AllowedReactions = []string{"❤️", "💡", "😂", "🤔"}

// ValidReaction reports whether emoji is in the allowed set.
func ValidReaction(emoji string) bool {
	for _, r := range AllowedReactions {
		if r == emoji {
			return true
		}
	}
	return false
}

// Reaction is a single emoji reaction on an annotation. A user may react
// with each emoji at most once per annotation.
type Reaction struct {
	CreatedAt    time.Time `json:"created_at"`
	AnnotationID string    `json:"annotation_id"`
	UserID       string    `json:"user_id"`
	Emoji        string    `json:"emoji"`
}

// Reply is a threaded reply to an annotation.
type Reply struct {
	CreatedAt    time.Time `json:"created_at"`
	ID           string    `json:"id"`
	AnnotationID string    `json:"annotation_id"`
	UserID       string    `json:"user_id"`
	Content      string    `json:"content"`
	Username     string    `json:"username,omitempty"`
	DisplayName  string    `json:"display_name,omitempty"`
}
