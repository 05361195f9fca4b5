package model

import "time"

// Card represents a photo card: a name, an image link, the owner, and the
// set of users who liked it.
//
// Owner is the hex id of the creating user and is immutable after creation.
// Likes holds user ids with set semantics — the store deduplicates, so a
// user liking twice leaves a single entry.
type Card struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	Owner     string    `json:"owner"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}
