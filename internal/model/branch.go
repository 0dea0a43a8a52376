package model

// Branch is a physical shop location. It scopes receipt numbering and user
// accounts and is immutable after creation.
type Branch struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"` // short code, prefixes receipt numbers
}
