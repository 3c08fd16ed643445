package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".sitecrawl"

var (
	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidPattern is returned when an ignore or follow pattern is not
	// a valid glob.
	ErrInvalidPattern = errors.New("invalid path pattern")
)

// LoadConfigFile loads per-host settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound so callers can
// decide whether a missing file is an error (explicit --config) or not.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cf.Sites == nil {
		cf.Sites = make(map[string]SiteConfig)
	}

	if err := cf.validatePatterns(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cf, nil
}

// validatePatterns checks every glob in the file.
func (cf *File) validatePatterns() error {
	check := func(scope string, sc SiteConfig) error {
		for _, patterns := range [][]string{sc.IgnorePatterns, sc.FollowPatterns} {
			for _, p := range patterns {
				if _, err := filepath.Match(p, "/"); err != nil {
					return fmt.Errorf("%w: %s: %q", ErrInvalidPattern, scope, p)
				}
			}
		}
		return nil
	}

	if err := check("defaults", cf.Defaults); err != nil {
		return err
	}
	for host, sc := range cf.Sites {
		if err := check("sites."+host, sc); err != nil {
			return err
		}
	}
	return nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. Look for .sitecrawl in the current directory
//  3. Look for .sitecrawl in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}

	for _, dir := range dirs {
		candidate := filepath.Join(dir, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// LoadSiteConfigs locates and loads the config file for c. A missing file is
// only an error when c.ConfigFilePath was set explicitly; otherwise
// SiteConfigs is left empty.
func (c *Config) LoadSiteConfigs() error {
	path := FindConfigFile(c.ConfigFilePath)
	if path == "" {
		if c.ConfigFilePath != "" {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, c.ConfigFilePath)
		}
		c.SiteConfigs = &File{Sites: make(map[string]SiteConfig)}
		return nil
	}

	cf, err := LoadConfigFile(path)
	if err != nil {
		return err
	}
	c.SiteConfigs = cf
	return nil
}

// SiteConfig returns the merged settings for host. It is safe to call when
// no file was loaded.
func (c *Config) SiteConfig(host string) SiteConfig {
	if c.SiteConfigs == nil {
		return SiteConfig{}
	}
	return c.SiteConfigs.GetSiteConfig(host)
}
