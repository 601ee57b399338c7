// Package metadata is a small key/value table in the local cache database
// holding the session and user preferences.
package metadata

import "context"

type Repository interface {
	// Get returns common.ErrorNotFound for absent keys.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
