package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spiffcs/gitsearch/internal/log"
	"github.com/spiffcs/gitsearch/internal/search"
	"github.com/spiffcs/gitsearch/internal/tui"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := NewOptions()

	rootCmd := &cobra.Command{
		Use:   "gitsearch [query]",
		Short: "Search GitHub users as you type",
		Long: `Search GitHub users as you type and browse their public repositories.

With a terminal attached, gitsearch opens an interactive search screen.
Typing is debounced, repeated queries are skipped and a stale lookup is
cancelled as soon as the query changes. Press enter on a user to list
their repositories.

Without a terminal, a query argument runs a one-shot search instead
(same as 'gitsearch search <query>').`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, opts)
		},
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	addClientFlags(rootCmd, opts)
	rootCmd.Flags().DurationVar(&opts.Debounce, "debounce", 0, "Typing pause before a search is sent (default from config, 300ms)")
	rootCmd.Flags().StringVar(&opts.LogFile, "log-file", "", "Write logs to this file while the TUI is running")
	rootCmd.Flags().Var(newTUIFlag(opts), "tui", "Interactive mode: true, false or auto")
	rootCmd.Flags().Lookup("tui").NoOptDefVal = "true"

	rootCmd.AddCommand(NewCmdSearch(opts))
	rootCmd.AddCommand(NewCmdRepos(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdVersion())
	rootCmd.AddCommand(NewCmdRateLimit(opts))

	return rootCmd
}

// addClientFlags registers the flags every command that talks to GitHub shares.
func addClientFlags(cmd *cobra.Command, opts *Options) {
	cmd.PersistentFlags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	cmd.PersistentFlags().StringVar(&opts.APIURL, "api-url", "", "GitHub API root (default from config, https://api.github.com/)")
	cmd.PersistentFlags().IntVar(&opts.PerPage, "per-page", 0, "Users returned per search, 1-100 (default from config, 5)")
	cmd.PersistentFlags().Float64Var(&opts.RequestsPerSecond, "rps", -1, "Throttle requests per second, 0 disables (default from config)")
}

func runRoot(cmd *cobra.Command, args []string, opts *Options) error {
	query := strings.Join(args, " ")

	if !shouldUseTUI(opts) {
		if strings.TrimSpace(query) == "" {
			return errors.New("no terminal for interactive mode: pass a query or use 'gitsearch search <query>'")
		}
		return runSearch(cmd, query, opts)
	}

	closeLog, err := initLogging(opts, true)
	if err != nil {
		return err
	}
	defer closeLog()

	rt, err := newRuntime(opts)
	if err != nil {
		return err
	}

	ctrl := search.NewController(rt.repo, search.WithDebounce(rt.cfg.GetDebounce()))
	defer ctrl.Close()

	log.Info("starting interactive search", "api_url", rt.cfg.GetAPIURL(), "debounce", rt.cfg.GetDebounce())

	return tui.Run(ctrl,
		tui.WithRateSource(rt.client.RateLimitState()),
		tui.WithInitialQuery(query),
	)
}
