package cmd

import "time"

// Options holds the shared command-line options for the gitsearch CLI.
// Zero values mean "use the configured value".
type Options struct {
	Format            string
	Verbosity         int
	Workers           int
	APIURL            string
	PerPage           int
	Debounce          time.Duration
	RequestsPerSecond float64 // negative = use config
	LogFile           string  // log destination while the TUI owns the terminal
	TUI               *bool   // nil = auto-detect, true = force TUI, false = disable TUI
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		Workers:           4,
		RequestsPerSecond: -1,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat sets the output format (table, json, markdown).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithWorkers sets how many repository listings run at once.
func WithWorkers(workers int) Option {
	return func(o *Options) {
		o.Workers = workers
	}
}

// WithAPIURL points the client at another API root.
func WithAPIURL(u string) Option {
	return func(o *Options) {
		o.APIURL = u
	}
}

// WithPerPage sets the search page size.
func WithPerPage(n int) Option {
	return func(o *Options) {
		o.PerPage = n
	}
}

// WithDebounce sets the typing pause before a search is sent.
func WithDebounce(d time.Duration) Option {
	return func(o *Options) {
		o.Debounce = d
	}
}

// WithRequestsPerSecond throttles outgoing requests.
func WithRequestsPerSecond(rps float64) Option {
	return func(o *Options) {
		o.RequestsPerSecond = rps
	}
}

// WithLogFile sets where logs go while the TUI is running.
func WithLogFile(path string) Option {
	return func(o *Options) {
		o.LogFile = path
	}
}

// WithTUI forces the TUI on or off.
func WithTUI(enabled bool) Option {
	return func(o *Options) {
		o.TUI = &enabled
	}
}
