package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/sitecrawl/internal/config"
	"github.com/nao1215/sitecrawl/internal/crawler"
	"github.com/nao1215/sitecrawl/internal/pipeline"
	"github.com/nao1215/sitecrawl/internal/urlutil"
)

// addSessionFlags registers the flags that tune a single crawl session.
// They are shared by the crawl and repl commands.
func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page fetch")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Maximum simultaneous page fetches per crawl (0 = unbounded)")
	cmd.Flags().IntP("queue-capacity", "q", config.DefaultQueueCapacity,
		"Capacity of the pending URL queue")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of URLs admitted per crawl (0 = unlimited)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum bytes read from each response body")
	cmd.Flags().String("proxy", "",
		"Proxy URL for all requests (socks5://, socks5h://, http:// or https://)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitecrawl in current or home directory)")
}

// readSessionFlags copies the session flags into cfg and loads the
// per-site configuration file.
func readSessionFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error

	if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return err
	}
	if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
		return err
	}
	if cfg.QueueCapacity, err = cmd.Flags().GetInt("queue-capacity"); err != nil {
		return err
	}
	if cfg.MaxPages, err = cmd.Flags().GetInt("max-pages"); err != nil {
		return err
	}
	if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
		return err
	}
	if cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size"); err != nil {
		return err
	}
	if cfg.ProxyURL, err = cmd.Flags().GetString("proxy"); err != nil {
		return err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return err
	}

	if err := cfg.LoadSiteConfigs(); err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}
	return nil
}

// newSessionFactory returns a factory building one crawl session per seed.
// Each session gets its own HTTP client carrying the cookie and headers
// configured for the seed's host.
func newSessionFactory(cfg *config.Config, logger *slog.Logger) pipeline.SessionFactory {
	return func(seed string) (*crawler.Session, error) {
		var site config.SiteConfig
		if host, err := urlutil.HostOf(urlutil.Normalize(seed)); err == nil {
			site = cfg.SiteConfig(host)
		}

		client, err := crawler.NewHTTPClient(crawler.ClientOptions{
			Timeout:  cfg.Timeout,
			ProxyURL: cfg.ProxyURL,
			Cookie:   site.Cookie,
			Headers:  site.Headers,
		})
		if err != nil {
			return nil, err
		}

		fetcher := crawler.NewHTTPFetcher(client,
			crawler.WithUserAgent(cfg.UserAgent),
			crawler.WithMaxBodySize(cfg.MaxBodySize),
		)

		return crawler.New(seed,
			crawler.WithFetcher(fetcher),
			crawler.WithLogger(logger),
			crawler.WithQueueCapacity(cfg.QueueCapacity),
			crawler.WithConcurrency(cfg.Concurrency),
			crawler.WithMaxPages(cfg.MaxPages),
			crawler.WithIgnorePatterns(site.IgnorePatterns),
			crawler.WithFollowPatterns(site.FollowPatterns),
		)
	}
}
