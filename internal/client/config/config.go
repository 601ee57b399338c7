package config

import "time"

// Config holds runtime settings for the MyShelf CLI.
//
// Units: all intervals are time.Duration values (e.g., 3*time.Second).
type Config struct {
	ServerEndpointAddr  string        `env:"MYSHELF_SERVER_ENDPOINT_ADDR"`
	OnlineCheckInterval time.Duration `env:"MYSHELF_ONLINE_CHECK_INTERVAL"`
	RequestTimeout      time.Duration `env:"MYSHELF_REQUEST_TIMEOUT"`
	DatabasePath        string        `env:"MYSHELF_DATABASE_PATH"`
	LibraryDir          string        `env:"MYSHELF_LIBRARY_DIR"`
	LogFile             string        `env:"MYSHELF_LOG_FILE"`
	LogLevel            string        `env:"MYSHELF_LOG_LEVEL"`
	SyncBatchSize       int           `env:"MYSHELF_SYNC_BATCH_SIZE"`
	RetryBaseDelay      time.Duration `env:"MYSHELF_RETRY_BASE_DELAY"`
	RetryMaxDelay       time.Duration `env:"MYSHELF_RETRY_MAX_DELAY"`
	UndoWindow          time.Duration `env:"MYSHELF_UNDO_WINDOW"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.DatabasePath = "myshelf.db"
	c.LibraryDir = "library"
	c.LogFile = "myshelf.log"
	c.LogLevel = "info"
	c.SyncBatchSize = 5
	c.RetryBaseDelay = time.Second
	c.RetryMaxDelay = 5 * time.Minute
	c.UndoWindow = 5 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON, the environment and command-line flags. Later sources take precedence
// over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
