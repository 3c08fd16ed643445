// Package config provides configuration structures and utilities for
// sitecrawl. It defines the crawl engine settings taken from CLI flags, the
// optional per-host YAML file and the XDG directories used for history.
package config
