// Package model defines the data structures used throughout the application.
package model

// User represents a registered user account.
//
// The document id is the hex form of the store's ObjectID; the repository
// layer owns id generation. PasswordHash is persisted but never serialized
// to JSON — the `json:"-"` tag keeps it out of every API response.
type User struct {
	ID           string `json:"_id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	About        string `json:"about"`
	Avatar       string `json:"avatar"`
}

// PublicUser is the registration response view: id and email only.
// The password (even hashed) must never appear here.
type PublicUser struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}

// Public returns the registration view of the user.
func (u *User) Public() *PublicUser {
	return &PublicUser{ID: u.ID, Email: u.Email}
}
