// Package client contains the client-side building blocks that talk to the
// outside world: the gRPC BookService client and the bootstrap of the local
// SQLite cache.
//
// # Error Handling
//
// Transport failures are mapped to sentinel errors that callers match with
// errors.Is: ErrUnavailable, ErrUnauthorized and ErrNotFound. Anything else
// is wrapped as "rpc error: ...".
//
// # Concurrency
//
// GRPCClient is safe for concurrent use; the access token is guarded by a
// mutex and every call honours its context.
package client
