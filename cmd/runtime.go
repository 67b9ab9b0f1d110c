package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spiffcs/gitsearch/config"
	"github.com/spiffcs/gitsearch/internal/duration"
	"github.com/spiffcs/gitsearch/internal/ghclient"
	"github.com/spiffcs/gitsearch/internal/log"
	"github.com/spiffcs/gitsearch/internal/search"
)

// runtime is what a command needs to talk to GitHub: the effective config
// and the client stack built from it.
type runtime struct {
	cfg    *config.Config
	client *ghclient.Client
	repo   *search.Repository
}

func newRuntime(opts *Options) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFlags(cfg, opts); err != nil {
		return nil, err
	}

	client, err := ghclient.NewClient(
		ghclient.WithBaseURL(cfg.GetAPIURL()),
		ghclient.WithUserAgent(cfg.GetUserAgent()),
		ghclient.WithTimeout(cfg.GetTimeout()),
		ghclient.WithPerPage(cfg.GetPerPage()),
		ghclient.WithRequestsPerSecond(cfg.GetRequestsPerSecond()),
	)
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:    cfg,
		client: client,
		repo:   search.NewRepository(client),
	}, nil
}

// applyFlags layers explicitly set flags over the loaded config.
func applyFlags(cfg *config.Config, opts *Options) error {
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.PerPage != 0 {
		n := opts.PerPage
		cfg.PerPage = &n
	}
	if opts.Debounce != 0 {
		cfg.Debounce = duration.Of(opts.Debounce)
	}
	if opts.RequestsPerSecond >= 0 {
		rps := opts.RequestsPerSecond
		cfg.RequestsPerSecond = &rps
	}
	if opts.Format != "" {
		cfg.DefaultFormat = strings.ToLower(opts.Format)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

// initLogging routes logs to stderr, or away from the terminal while the
// TUI is drawing. The returned func closes the log file, if any.
func initLogging(opts *Options, interactive bool) (func(), error) {
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		log.Initialize(opts.Verbosity, f)
		return func() { _ = f.Close() }, nil
	}

	if interactive {
		log.Discard()
		return func() {}, nil
	}
	log.Initialize(opts.Verbosity, os.Stderr)
	return func() {}, nil
}
