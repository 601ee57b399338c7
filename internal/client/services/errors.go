package services

import "errors"

var (
	// ErrNoOwner means no user is signed in on this device.
	ErrNoOwner = errors.New("no signed-in user")
	// ErrLocalCopy marks failures of the local file or cache.
	ErrLocalCopy = errors.New("local storage failure")
	// ErrRemote marks failures of the remote metadata or blob store.
	ErrRemote = errors.New("remote storage failure")
	// ErrUndoUnavailable means the deleted book's content can no longer be
	// brought back.
	ErrUndoUnavailable = errors.New("undo unavailable")
	// ErrUnsyncedBooks means some books exist only on this device.
	ErrUnsyncedBooks = errors.New("books not synced yet")
	// ErrUndoExpired means the undo window has already closed.
	ErrUndoExpired = errors.New("undo window has passed")
)
