// Package models holds the server-side records persisted in PostgreSQL.
package models

import "time"

// Book is the remote metadata record of one book, keyed by (OwnerID, ID).
// Locator is the blob store key of its content.
type Book struct {
	OwnerID    string
	ID         string
	Title      string
	Author     string
	Locator    string
	UploadedAt time.Time
}
