package cmd

import (
	"fmt"
	"io"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spf13/cobra"

	"github.com/spiffcs/gitsearch/internal/format"
)

// NewCmdRateLimit creates the ratelimit command.
func NewCmdRateLimit(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratelimit",
		Short: "Check GitHub API rate limit status",
		Long:  `Display current GitHub API rate limit status including remaining quota and reset time.`,
	}
	cmd.AddCommand(NewCmdRateLimitStatus(opts))
	return cmd
}

// NewCmdRateLimitStatus creates the ratelimit status subcommand.
func NewCmdRateLimitStatus(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current rate limit status",
		Long: `Display the current GitHub API rate limit status for the core and
search APIs. Checking the status does not count against either quota.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRateLimitStatus(cmd, opts)
		},
	}
}

func runRateLimitStatus(cmd *cobra.Command, opts *Options) error {
	closeLog, err := initLogging(opts, false)
	if err != nil {
		return err
	}
	defer closeLog()

	rt, err := newRuntime(opts)
	if err != nil {
		return err
	}

	limits, err := rt.client.RateLimits(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "GitHub API Rate Limits:")
	fmt.Fprintln(w)
	printRate(w, "Core API:  ", limits.Core)
	printRate(w, "Search API:", limits.Search)

	return nil
}

func printRate(w io.Writer, label string, r *gh.Rate) {
	if r == nil {
		return
	}
	fmt.Fprintf(w, "%s %d/%d remaining (resets in %s)\n",
		label, r.Remaining, r.Limit, format.Until(time.Until(r.Reset.Time)))
}
