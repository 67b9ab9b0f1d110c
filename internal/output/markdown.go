package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/spiffcs/gitsearch/internal/constants"
	"github.com/spiffcs/gitsearch/internal/format"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct{}

// FormatUsers outputs search results as a Markdown list.
func (f *MarkdownFormatter) FormatUsers(results UserResults, w io.Writer) error {
	fmt.Fprintf(w, "# GitHub users matching %q\n\n", results.Query)
	if len(results.Users) == 0 {
		fmt.Fprintln(w, constants.MsgNoUsersFound+".")
		return nil
	}
	for _, u := range results.Users {
		fmt.Fprintf(w, "- [%s](%s)\n", u.Login, ProfileURL(u.Login))
	}
	return nil
}

// FormatRepositories outputs one Markdown table per user.
func (f *MarkdownFormatter) FormatRepositories(listings []RepositoryListing, w io.Writer) error {
	for i, l := range listings {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "## [%s](%s)\n\n", l.Username, ProfileURL(l.Username))

		if l.Err != nil {
			fmt.Fprintf(w, "> %s\n", l.Err)
			continue
		}
		if len(l.Repositories) == 0 {
			fmt.Fprintln(w, "No public repositories.")
			continue
		}

		fmt.Fprintln(w, "| Repository | Stars | Language | Description |")
		fmt.Fprintln(w, "|---|---:|---|---|")
		for _, r := range l.Repositories {
			fmt.Fprintf(w, "| [%s](%s) | %d | %s | %s |\n",
				escapeCell(r.Name), r.URL, r.StarCount,
				escapeCell(r.LanguageOr("")),
				escapeCell(format.SingleLine(r.DescriptionOr(""))))
		}
	}
	return nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
