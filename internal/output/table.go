package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/spiffcs/gitsearch/internal/constants"
	"github.com/spiffcs/gitsearch/internal/format"
)

// TableFormatter formats output as a terminal table
type TableFormatter struct {
	// Hyperlinks wraps logins and repository names in OSC 8 links. Only
	// enable it when writing to a terminal.
	Hyperlinks bool
}

// Column widths
const (
	colLogin       = 39 // GitHub logins are at most 39 characters
	colRepo        = 30
	colStars       = 7
	colLanguage    = 12
	colDescription = 50
)

// hyperlink creates a clickable terminal hyperlink using OSC 8
// Format: \033]8;;URL\033\\TEXT\033]8;;\033\\
func (f *TableFormatter) hyperlink(text, url string) string {
	if !f.Hyperlinks || url == "" {
		return text
	}
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// FormatUsers outputs search results as a single-column table.
func (f *TableFormatter) FormatUsers(results UserResults, w io.Writer) error {
	if len(results.Users) == 0 {
		fmt.Fprintln(w, constants.MsgNoUsersFound+".")
		return nil
	}

	header := color.New(color.Bold)
	header.Fprintf(w, "%-*s  %s\n", colLogin, "Login", "Profile")
	fmt.Fprintln(w, strings.Repeat("-", colLogin+2+len(ProfileURL(""))+colLogin))

	for _, u := range results.Users {
		login := format.PadRight(color.CyanString(u.Login), colLogin)
		fmt.Fprintf(w, "%s  %s\n", f.hyperlink(login, ProfileURL(u.Login)), ProfileURL(u.Login))
	}

	fmt.Fprintf(w, "\n%d %s for %q\n", len(results.Users), plural(len(results.Users), "user", "users"), results.Query)
	return nil
}

// FormatRepositories outputs a table per user.
func (f *TableFormatter) FormatRepositories(listings []RepositoryListing, w io.Writer) error {
	for i, l := range listings {
		if i > 0 {
			fmt.Fprintln(w)
		}
		color.New(color.Bold).Fprintln(w, f.hyperlink(l.Username, ProfileURL(l.Username)))

		if l.Err != nil {
			fmt.Fprintf(w, "  %s\n", color.RedString(l.Err.Error()))
			continue
		}
		if len(l.Repositories) == 0 {
			fmt.Fprintln(w, "  No public repositories.")
			continue
		}

		fmt.Fprintf(w, "  %s  %s  %s  %s\n",
			format.PadRight("Repository", colRepo),
			fmt.Sprintf("%*s", colStars, "Stars"),
			format.PadRight("Language", colLanguage),
			"Description")
		fmt.Fprintf(w, "  %s\n", strings.Repeat("-", colRepo+colStars+colLanguage+colDescription+6))

		for _, r := range l.Repositories {
			name := f.hyperlink(format.Fit(r.Name, colRepo), r.URL)
			stars := color.YellowString("%*s", colStars, format.Stars(r.StarCount))
			lang := format.Fit(colorLanguage(r.LanguageOr("-")), colLanguage)
			desc, _ := format.Truncate(format.SingleLine(r.DescriptionOr("")), colDescription)
			fmt.Fprintf(w, "  %s  %s  %s  %s\n", name, stars, lang, desc)
		}
	}
	return nil
}

func colorLanguage(lang string) string {
	if lang == "-" {
		return color.HiBlackString(lang)
	}
	return color.GreenString(lang)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
