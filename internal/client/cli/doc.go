// Package cli provides the interactive MyShelf command-line client.
//
// It wires configuration, the local library database, the server API, the
// connectivity watcher and the background sync scheduler, then runs a REPL
// until the user exits. Every command works offline; anything that needs the
// server is retried in the background once it is reachable again.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// ctx is cancelled. See runREPL for the command list.
package cli
