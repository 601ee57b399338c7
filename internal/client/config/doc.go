// Package config loads runtime configuration for the MyShelf CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables (see parseEnv), optionally read from a dotenv
//     file given with -env.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-i int      online status check interval (seconds)
//	-d string   path of the local SQLite database
//	-l string   library directory for imported and downloaded books
//	-f string   log file
//	-v string   log level (debug, info, warn, error)
//	-b int      background sync batch size
//	-u int      undo window for deletes (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "database_path": "myshelf.db",
//	  "library_dir": "library",
//	  "sync_batch_size": 5,
//	  "undo_window": "5s"
//	}
//
// Environment variables carry the MYSHELF_ prefix, e.g.
// MYSHELF_SERVER_ENDPOINT_ADDR or MYSHELF_UNDO_WINDOW=10s.
package config
