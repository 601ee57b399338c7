// Package common contains shared constants and sentinel errors used across
// MyShelf components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// DefaultAuthor is assigned to books whose author cannot be derived from
// the imported file.
const DefaultAuthor = "Unknown"

// BookExtension is the file extension stored books are saved with.
const BookExtension = ".pdf"
