package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Timeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected Timeout to be 30s, got %v", cfg.Timeout)
		}
	})

	t.Run("default QueueCapacity is 100", func(t *testing.T) {
		t.Parallel()
		if cfg.QueueCapacity != 100 {
			t.Errorf("expected QueueCapacity to be 100, got %d", cfg.QueueCapacity)
		}
	})

	t.Run("default Concurrency is unbounded", func(t *testing.T) {
		t.Parallel()
		if cfg.Concurrency != 0 {
			t.Errorf("expected Concurrency to be 0, got %d", cfg.Concurrency)
		}
	})

	t.Run("default MaxPages is unlimited", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxPages != 0 {
			t.Errorf("expected MaxPages to be 0, got %d", cfg.MaxPages)
		}
	})

	t.Run("default BatchSize is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 4 {
			t.Errorf("expected BatchSize to be 4, got %d", cfg.BatchSize)
		}
	})

	t.Run("default MaxBodySize is 5MB", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxBodySize != 5*1024*1024 {
			t.Errorf("expected MaxBodySize to be 5MB, got %d", cfg.MaxBodySize)
		}
	})

	t.Run("history is saved to the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB || cfg.DBDir != XDGDataDir() {
			t.Errorf("expected SaveToDB in %s, got %v in %s", XDGDataDir(), cfg.SaveToDB, cfg.DBDir)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.Targets = []string{"example.com"}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"valid config returns nil", func(*Config) {}, nil},
		{"multiple targets is valid", func(c *Config) { c.Targets = append(c.Targets, "b.example.com") }, nil},
		{"empty targets", func(c *Config) { c.Targets = nil }, ErrNoTarget},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, ErrInvalidTimeout},
		{"zero queue capacity", func(c *Config) { c.QueueCapacity = 0 }, ErrInvalidQueueCapacity},
		{"negative concurrency", func(c *Config) { c.Concurrency = -1 }, ErrInvalidConcurrency},
		{"bounded concurrency is valid", func(c *Config) { c.Concurrency = 8 }, nil},
		{"negative max pages", func(c *Config) { c.MaxPages = -5 }, ErrInvalidMaxPages},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, ErrInvalidBatchSize},
		{"json and markdown", func(c *Config) { c.JSONReport, c.MarkdownReport = true, true }, ErrConflictingReportFormats},
		{"json only is valid", func(c *Config) { c.JSONReport = true }, nil},
		{"negative max body size", func(c *Config) { c.MaxBodySize = -1 }, ErrInvalidMaxBodySize},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }, ErrInvalidLogFormat},
		{"socks5 proxy is valid", func(c *Config) { c.ProxyURL = "socks5://127.0.0.1:9050" }, nil},
		{"proxy without scheme", func(c *Config) { c.ProxyURL = "127.0.0.1:9050" }, ErrInvalidProxyURL},
		{"proxy with unsupported scheme", func(c *Config) { c.ProxyURL = "ftp://proxy:21" }, ErrInvalidProxyURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConfigValidateSettings(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if err := cfg.ValidateSettings(); err != nil {
		t.Errorf("ValidateSettings() without targets = %v, want nil", err)
	}

	cfg.QueueCapacity = 0
	if err := cfg.ValidateSettings(); !errors.Is(err, ErrInvalidQueueCapacity) {
		t.Errorf("ValidateSettings() = %v, want %v", err, ErrInvalidQueueCapacity)
	}
}

func TestFileGetSiteConfig(t *testing.T) {
	t.Parallel()

	t.Run("returns defaults when host not found", func(t *testing.T) {
		t.Parallel()

		cf := &File{
			Defaults: SiteConfig{Cookie: "default=1", IgnorePatterns: []string{"*.pdf"}},
			Sites:    map[string]SiteConfig{},
		}
		got := cf.GetSiteConfig("unknown.example.com")
		if got.Cookie != "default=1" || !reflect.DeepEqual(got.IgnorePatterns, []string{"*.pdf"}) {
			t.Errorf("GetSiteConfig() = %+v", got)
		}
	})

	t.Run("site values override defaults and headers merge", func(t *testing.T) {
		t.Parallel()

		cf := &File{
			Defaults: SiteConfig{
				Cookie:  "default=1",
				Headers: map[string]string{"Accept-Language": "en", "X-Env": "prod"},
			},
			Sites: map[string]SiteConfig{
				"docs.example.com": {
					Cookie:         "session=abc",
					Headers:        map[string]string{"X-Env": "staging"},
					FollowPatterns: []string{"/guide/*"},
				},
			},
		}

		got := cf.GetSiteConfig("docs.example.com")
		if got.Cookie != "session=abc" {
			t.Errorf("Cookie = %q", got.Cookie)
		}
		wantHeaders := map[string]string{"Accept-Language": "en", "X-Env": "staging"}
		if !reflect.DeepEqual(got.Headers, wantHeaders) {
			t.Errorf("Headers = %v, want %v", got.Headers, wantHeaders)
		}
		if !reflect.DeepEqual(got.FollowPatterns, []string{"/guide/*"}) {
			t.Errorf("FollowPatterns = %v", got.FollowPatterns)
		}
		if cf.Defaults.Headers["X-Env"] != "prod" {
			t.Error("merging modified the defaults")
		}
	})

	t.Run("nil sites map", func(t *testing.T) {
		t.Parallel()

		cf := &File{Defaults: SiteConfig{Cookie: "c=1"}}
		if got := cf.GetSiteConfig("x"); got.Cookie != "c=1" {
			t.Errorf("Cookie = %q", got.Cookie)
		}
	})

	t.Run("config without file", func(t *testing.T) {
		t.Parallel()

		if got := NewConfig().SiteConfig("x"); !reflect.DeepEqual(got, SiteConfig{}) {
			t.Errorf("SiteConfig() = %+v, want zero", got)
		}
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".sitecrawl")
		content := `defaults:
  headers:
    Accept-Language: en
  ignorePatterns:
    - "*.pdf"
sites:
  "localhost:8080":
    cookie: "session=xyz"
    followPatterns:
      - "/docs/*"
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error: %v", err)
		}
		site := cf.GetSiteConfig("localhost:8080")
		if site.Cookie != "session=xyz" {
			t.Errorf("Cookie = %q", site.Cookie)
		}
		if !reflect.DeepEqual(site.IgnorePatterns, []string{"*.pdf"}) {
			t.Errorf("IgnorePatterns = %v", site.IgnorePatterns)
		}
		if !reflect.DeepEqual(site.FollowPatterns, []string{"/docs/*"}) {
			t.Errorf("FollowPatterns = %v", site.FollowPatterns)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("sites: [unclosed"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("rejects malformed glob", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "glob.yaml")
		if err := os.WriteFile(path, []byte("defaults:\n  ignorePatterns: [\"[\"]\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("LoadConfigFile() error = %v, want ErrInvalidPattern", err)
		}
	})

	t.Run("initializes nil Sites map", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "empty.yaml")
		if err := os.WriteFile(path, []byte("defaults:\n  cookie: a=b\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error: %v", err)
		}
		if cf.Sites == nil {
			t.Error("Sites is nil")
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte(""), 0o600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("FindConfigFile() = %q, want %q", got, path)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope")); got != "" {
			t.Errorf("FindConfigFile() = %q, want empty", got)
		}
	})
}

func TestLoadSiteConfigs(t *testing.T) {
	t.Parallel()

	t.Run("explicit missing file is an error", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ConfigFilePath = filepath.Join(t.TempDir(), "missing")
		if err := cfg.LoadSiteConfigs(); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadSiteConfigs() error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("explicit file is loaded", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "cfg.yaml")
		if err := os.WriteFile(path, []byte("sites:\n  h.test:\n    cookie: k=v\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		cfg := NewConfig()
		cfg.ConfigFilePath = path
		if err := cfg.LoadSiteConfigs(); err != nil {
			t.Fatalf("LoadSiteConfigs() error: %v", err)
		}
		if got := cfg.SiteConfig("h.test").Cookie; got != "k=v" {
			t.Errorf("Cookie = %q", got)
		}
	})
}

func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{"data": XDGDataDir(), "config": XDGConfigDir()} {
		if filepath.Base(dir) != AppName {
			t.Errorf("%s dir %q does not end with %s", name, dir, AppName)
		}
	}
}
