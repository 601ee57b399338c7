package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/myshelf/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Interval flags are whole seconds.
//
// Only the flags listed in doc.go are looked at; everything else in
// os.Args is filtered out with flagx.FilterArgs.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-d", "-l", "-f", "-v", "-b", "-u"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.LibraryDir, "l", cfg.LibraryDir, "library directory")
	fs.StringVar(&cfg.LogFile, "f", cfg.LogFile, "log file")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")
	fs.IntVar(&cfg.SyncBatchSize, "b", cfg.SyncBatchSize, "sync batch size")
	undoWindow := fs.Int("u", int(cfg.UndoWindow.Seconds()), "undo window (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only explicit flags, so sub-second values from JSON or env survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		case "u":
			cfg.UndoWindow = time.Duration(*undoWindow) * time.Second
		}
	})
}
