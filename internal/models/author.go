package models

// Author is the session identity denormalized onto messages and reactions.
// It comes from the validated JWT claims, never from the database.
type Author struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}
