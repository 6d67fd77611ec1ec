package config

import "time"

// Config is the root configuration for an annotation run.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Market  MarketConfig  `yaml:"market"`
	API     APIConfig     `yaml:"api"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Report  ReportConfig  `yaml:"report"`
	Archive ArchiveConfig `yaml:"archive"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// InputConfig locates the messages document.
type InputConfig struct {
	Path   string `yaml:"path"`
	Backup *bool  `yaml:"backup"` // keep <path>.bak of the previous file; default true
}

// MarketConfig describes the regular trading session.
type MarketConfig struct {
	Timezone string `yaml:"timezone"`
	Open     string `yaml:"open"`  // HH:MM local time
	Close    string `yaml:"close"` // HH:MM local time
}

// APIConfig holds chart API settings.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url"`
	UserAgent    string        `yaml:"user_agent"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
	RateLimit    float64       `yaml:"rate_limit"` // requests per second
	RateBurst    int           `yaml:"rate_burst"`
}

// FetchConfig controls the candle download window.
type FetchConfig struct {
	// Padding is added before the first message and after the settlement date.
	Padding time.Duration `yaml:"padding"`
}

// ReportConfig holds optional report outputs.
type ReportConfig struct {
	XLSXPath string `yaml:"xlsx_path"`
}

// ArchiveConfig holds the optional candle/annotation archive.
type ArchiveConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Database  DBConfig `yaml:"database"`
	BatchSize int      `yaml:"batch_size"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// MetricsConfig holds Prometheus textfile settings.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// BackupEnabled reports whether the previous document should be kept as .bak.
func (c InputConfig) BackupEnabled() bool {
	return c.Backup == nil || *c.Backup
}
