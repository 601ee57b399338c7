package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	hasLibrary(ctx context.Context) bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	ContinueOffline(ctx context.Context) error
	Logout(ctx context.Context) error
	Add(ctx context.Context, path string) error
	List(ctx context.Context) error
	Open(ctx context.Context, n string) error
	Delete(ctx context.Context, n string) error
	Undo(ctx context.Context) error
	Refresh(ctx context.Context) error
	Sync(ctx context.Context) error
	Offline(ctx context.Context, arg string) error
	Status(ctx context.Context) error
}

// runREPL reads commands from reader until EOF, "exit" or "quit".
//
//	Not logged in:
//	  help, register, login, status, exit | quit
//	  continue offline  use the library without an account
//
//	Logged in (the guest gets the same commands; refresh and sync
//	need an account):
//	  add <path>        import a PDF into the library
//	  list | l          list books with their sync state
//	  open <n>          print a readable local path for book n
//	  delete <n>        delete book n (can be undone for a few seconds)
//	  undo              restore the last deleted book
//	  refresh           reload the library from the server
//	  sync              push unsynced books in the background
//	  offline on|off    force offline mode
//	  status, logout, help, exit | quit
//
// Command errors are printed and the loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("shelf%s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, arg := parts[0], strings.TrimSpace(strings.TrimPrefix(line, parts[0]))

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if err := dispatch(ctx, a, cmd, arg); err != nil {
			printlnFn("Error:", err)
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd, arg string) error {
	switch cmd {
	case "help":
		switch {
		case a.isLoggedIn(ctx):
			printlnFn("Available commands: add <path>, (l)ist, open <n>, delete <n>, undo, refresh, sync, offline on|off, status, logout, exit")
		case a.hasLibrary(ctx):
			printlnFn("Available commands: add <path>, (l)ist, open <n>, delete <n>, undo, offline on|off, register, login, status, logout, exit")
		default:
			printlnFn("Available commands: register, login, continue offline, status, exit")
		}
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "status":
		return a.Status(ctx)
	case "continue":
		if arg != "offline" {
			printlnFn("Usage: continue offline")
			return nil
		}
		return a.ContinueOffline(ctx)
	}

	if !a.hasLibrary(ctx) {
		printlnFn("Please login first or type 'continue offline' (type 'help' for commands)")
		return nil
	}

	switch cmd {
	case "add":
		if arg == "" {
			printlnFn("Usage: add <path>")
			return nil
		}
		return a.Add(ctx, arg)
	case "l", "list":
		return a.List(ctx)
	case "open":
		if arg == "" {
			printlnFn("Usage: open <n>")
			return nil
		}
		return a.Open(ctx, arg)
	case "delete":
		if arg == "" {
			printlnFn("Usage: delete <n>")
			return nil
		}
		return a.Delete(ctx, arg)
	case "undo":
		return a.Undo(ctx)
	case "refresh":
		return a.Refresh(ctx)
	case "sync":
		return a.Sync(ctx)
	case "offline":
		return a.Offline(ctx, arg)
	case "logout":
		return a.Logout(ctx)
	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}
