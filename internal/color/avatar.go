// Package color assigns avatar colors to user accounts.
package color

import "hash/fnv"

// palette holds the avatar colors. All entries keep enough contrast
// against white text for initials rendered on top.
var palette = []string{
	"#C0392B", // brick
	"#D35400", // pumpkin
	"#B7950B", // mustard
	"#1E8449", // forest
	"#148F77", // teal
	"#2471A3", // steel blue
	"#6C3483", // plum
	"#A93226", // crimson
	"#7D6608", // olive
	"#117A65", // pine
	"#2E86C1", // sky
	"#884EA0", // violet
}

// ForUser picks a palette color for a user. The choice is stable: the
// same ID always maps to the same color, across restarts and devices.
func ForUser(userID string) string {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return palette[h.Sum32()%uint32(len(palette))]
}
