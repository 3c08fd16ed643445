package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout bounds a single page fetch, redirects and body included.
	// A hung server then stalls one worker for at most this long.
	DefaultTimeout = 30 * time.Second

	// DefaultQueueCapacity is the number of discovered URLs that may wait in
	// the frontier before discovering workers block.
	DefaultQueueCapacity = 100

	// DefaultConcurrency of 0 runs one fetch per dequeued URL with no upper
	// bound. A positive value caps simultaneous fetches.
	DefaultConcurrency = 0

	// DefaultMaxPages of 0 admits every reachable page.
	DefaultMaxPages = 0

	// DefaultBatchSize is the number of seeds crawled at the same time when
	// several are given on the command line.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "sitecrawl"

	// DefaultUserAgent identifies sitecrawl in HTTP requests.
	DefaultUserAgent = "sitecrawl/1.0 (+https://github.com/nao1215/sitecrawl)"

	// DefaultMaxBodySize limits the response body read per page (5MB).
	DefaultMaxBodySize = 5 * 1024 * 1024

	// LogFormatText and LogFormatJSON are the accepted log formats.
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds all configuration options for sitecrawl.
// It is populated from CLI flags and passed down explicitly; there is no
// package level state.
type Config struct {
	// Timeout is the per-fetch timeout.
	Timeout time.Duration

	// QueueCapacity is the frontier capacity.
	QueueCapacity int

	// Concurrency bounds simultaneous fetches. 0 means unbounded.
	Concurrency int

	// MaxPages caps the number of URLs admitted per crawl. 0 means unlimited.
	MaxPages int

	// BatchSize is the number of crawls run concurrently for multiple seeds.
	BatchSize int

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// ProxyURL routes fetches through a proxy (socks5://, socks5h://,
	// http:// or https://). Empty means direct connections.
	ProxyURL string

	// Verbose enables debug logging. When false only warnings and errors
	// are logged.
	Verbose bool

	// LogFormat is "text" or "json".
	LogFormat string

	// ConfigFilePath is the path to the configuration file.
	// If empty, .sitecrawl is searched in the current directory and then
	// in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-host settings loaded from the config file.
	SiteConfigs *File

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path. Empty means stdout.
	ReportFile string

	// Targets is the list of seed URLs to crawl.
	Targets []string

	// DBDir is the directory holding the crawl history database.
	// Defaults to the XDG data directory (~/.local/share/sitecrawl on Linux).
	DBDir string

	// SaveToDB indicates whether finished crawls are stored in history.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Timeout:       DefaultTimeout,
		QueueCapacity: DefaultQueueCapacity,
		Concurrency:   DefaultConcurrency,
		MaxPages:      DefaultMaxPages,
		BatchSize:     DefaultBatchSize,
		UserAgent:     DefaultUserAgent,
		MaxBodySize:   DefaultMaxBodySize,
		LogFormat:     LogFormatText,
		DBDir:         XDGDataDir(),
		SaveToDB:      true,
	}
}

// XDGDataDir returns the XDG data directory for sitecrawl.
// On Linux: ~/.local/share/sitecrawl
// On macOS: ~/Library/Application Support/sitecrawl
// On Windows: %LOCALAPPDATA%\sitecrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sitecrawl.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// violated rule as a sentinel error.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	return c.ValidateSettings()
}

// ValidateSettings checks every rule of Validate except the presence of
// targets. The interactive loop uses it, since it reads seeds from input.
func (c *Config) ValidateSettings() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.QueueCapacity <= 0 {
		return ErrInvalidQueueCapacity
	}

	if c.Concurrency < 0 {
		return ErrInvalidConcurrency
	}

	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.LogFormat != "" && c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return ErrInvalidLogFormat
	}

	if c.ProxyURL != "" && !validProxyURL(c.ProxyURL) {
		return ErrInvalidProxyURL
	}

	return nil
}

// validProxyURL checks that the proxy has a supported scheme and a host.
func validProxyURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	switch u.Scheme {
	case "socks5", "socks5h", "http", "https":
		return true
	default:
		return false
	}
}
