package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoTarget is returned when no seed URL is specified.
	ErrNoTarget = errors.New("no target specified: provide at least one seed url")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidQueueCapacity is returned when the queue capacity is not positive.
	ErrInvalidQueueCapacity = errors.New("invalid queue capacity: must be positive")

	// ErrInvalidConcurrency is returned when the concurrency is negative.
	// Use 0 for unbounded fetch concurrency.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be non-negative")

	// ErrInvalidMaxPages is returned when the page cap is negative.
	// Use 0 for no cap.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidLogFormat is returned for a log format other than text or json.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrInvalidProxyURL is returned when the proxy is not a socks5, socks5h,
	// http or https URL with a host.
	ErrInvalidProxyURL = errors.New("invalid proxy url: expected socks5://host:port or http://host:port")
)
