package models

type Tag struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
}

type MediaTag struct {
	MediaID int `db:"media_id"`
	TagID   int `db:"tag_id"`
}

// ValidateTagName reports whether a tag name fits the tags table. Tag names
// are case-sensitive and stored exactly as entered.
func ValidateTagName(name string) bool {
	return name != "" && len(name) <= 30
}
