package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/spiffcs/gitsearch/internal/log"
	"github.com/spiffcs/gitsearch/internal/output"
)

// NewCmdRepos creates the repos command.
func NewCmdRepos(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repos <username>...",
		Short: "List the public repositories of one or more users",
		Long: `List the public repositories of one or more users.

Listings run concurrently (see --workers) and print in the order the
users were given. A user that cannot be listed is reported in place
without stopping the others.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepos(cmd, args, opts)
		},
	}

	addFormatFlag(cmd, opts)
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", opts.Workers, "Listings to run at once")

	return cmd
}

func runRepos(cmd *cobra.Command, usernames []string, opts *Options) error {
	if opts.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", opts.Workers)
	}

	closeLog, err := initLogging(opts, false)
	if err != nil {
		return err
	}
	defer closeLog()

	rt, err := newRuntime(opts)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(rt.cfg.GetDefaultFormat(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	listings := make([]output.RepositoryListing, len(usernames))

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i, username := range usernames {
		g.Go(func() error {
			repos, err := rt.repo.ListRepositories(ctx, username)
			listings[i] = output.RepositoryListing{Username: username, Repositories: repos, Err: err}
			if err != nil {
				log.Warn("failed to list repositories", "user", username, "error", err)
				return nil
			}
			log.Debug("listed repositories", "user", username, "count", len(repos))
			return nil
		})
	}
	_ = g.Wait()

	if err := formatter.FormatRepositories(listings, cmd.OutOrStdout()); err != nil {
		return err
	}

	failed := 0
	for _, l := range listings {
		if l.Err != nil {
			failed++
		}
	}
	if failed == len(listings) {
		if failed == 1 {
			return listings[0].Err
		}
		return fmt.Errorf("failed to list repositories for all %d users", failed)
	}
	return nil
}
