// Package models defines client-side data models used by the MyShelf CLI.
package models

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/myshelf/internal/common"
)

// GuestOwnerID owns the books added without an account. Such books never
// leave the device until a real user signs in and the sync worker pushes
// them under that user.
const GuestOwnerID = "offline_user"

// HasRemote reports whether ownerID belongs to a server account.
func HasRemote(ownerID string) bool {
	return ownerID != "" && ownerID != GuestOwnerID
}

// Book is one entry of the local library.
//
// Location is a local file path while Synced is false and a remote blob
// locator once the upload path has completed.
type Book struct {
	ID       string
	Title    string
	Author   string
	Location string
	Synced   bool
}

// IsLocal reports whether Location still points at a file on this device.
func (b Book) IsLocal() bool { return !b.Synced }

// TitleFromFileName derives a display title from an imported file name by
// dropping directories and a trailing ".pdf" (any case).
func TitleFromFileName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	if strings.EqualFold(filepath.Ext(base), common.BookExtension) {
		base = base[:len(base)-len(common.BookExtension)]
	}
	return base
}

// RemoteBook is the metadata record kept by the server for one synced book.
type RemoteBook struct {
	ID         string
	Title      string
	Author     string
	Locator    string
	UploadedAt time.Time
}

// AsSynced converts the remote record into a cache row.
func (r RemoteBook) AsSynced() Book {
	return Book{ID: r.ID, Title: r.Title, Author: r.Author, Location: r.Locator, Synced: true}
}
