package cmd

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/spiffcs/gitsearch/internal/log"
	"github.com/spiffcs/gitsearch/internal/output"
)

// NewCmdSearch creates the search command.
func NewCmdSearch(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search GitHub users once and print the results",
		Long: `Search GitHub users once and print the results.

The query uses GitHub's user search syntax, for example:
  gitsearch search torvalds
  gitsearch search "location:berlin language:go" -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), opts)
		},
	}

	addFormatFlag(cmd, opts)

	return cmd
}

func addFormatFlag(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format: table, json, markdown (default from config, table)")
}

func runSearch(cmd *cobra.Command, query string, opts *Options) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return errors.New("query must not be empty")
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

	log.Info("searching users", "query", query, "per_page", rt.client.PerPage())

	users, err := rt.repo.SearchUsers(cmd.Context(), query)
	if err != nil {
		return err
	}

	log.Debug("search complete", "query", query, "users", len(users))

	return formatter.FormatUsers(output.UserResults{Query: query, Users: users}, cmd.OutOrStdout())
}

// newFormatter builds the formatter for name. Tables written straight to a
// terminal get clickable links.
func newFormatter(name string, w io.Writer) (output.Formatter, error) {
	format, err := output.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	formatter := output.NewFormatter(format)
	if table, ok := formatter.(*output.TableFormatter); ok {
		table.Hyperlinks = isTerminal(w)
	}
	return formatter, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
