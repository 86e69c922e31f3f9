package models

// Category is a type of play within a tournament (e.g. men's doubles),
// distinct from a division, which buckets teams of similar strength.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
