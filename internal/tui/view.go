package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/spiffcs/gitsearch/internal/constants"
	"github.com/spiffcs/gitsearch/internal/format"
	"github.com/spiffcs/gitsearch/internal/model"
	"github.com/spiffcs/gitsearch/internal/search"
)

// Lines used around the list on each screen
const (
	headerLines = 5
	footerLines = 4
)

// Column widths for the repository list
const (
	colRepoName = 30
	colStars    = 7
	colLanguage = 12
	minDescCol  = 20
)

// renderSearchView renders the user search screen
func renderSearchView(m Model) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("GitHub user search"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(renderSearchStatus(m))
	b.WriteString("\n\n")

	users := m.snap.Results
	start, end := calculateScrollWindow(m.userCursor, len(users), m.listHeight())
	for i := start; i < end; i++ {
		b.WriteString(renderUserRow(users[i], i == m.userCursor))
		b.WriteString("\n")
	}

	if warning := renderRateWarning(m); warning != "" {
		b.WriteString("\n")
		b.WriteString(warning)
	}

	b.WriteString(helpStyle.Render("type: search   ↑/↓: select   enter: repositories   ctrl+o: open profile   esc: quit"))
	b.WriteString("\n")
	return b.String()
}

// renderSearchStatus renders the line under the input: a spinner while a
// lookup is running, the last error, or a summary.
func renderSearchStatus(m Model) string {
	out := m.snap.Outcome
	switch {
	case out.Status == search.StatusLoading:
		return fmt.Sprintf("%s %s", m.spinner.View(), dimStyle.Render("Searching..."))
	case m.snap.ErrorMessage != "":
		return errorStyle.Render(m.snap.ErrorMessage)
	case out.Status == search.StatusSuccess && len(out.Users) == 0:
		return dimStyle.Render(constants.MsgNoUsersFound)
	case out.Status == search.StatusSuccess:
		return dimStyle.Render(fmt.Sprintf("%d %s", len(out.Users), pluralize(len(out.Users), "user", "users")))
	case strings.TrimSpace(m.snap.Query) == "":
		return dimStyle.Render("Start typing to search GitHub users")
	default:
		return ""
	}
}

func renderUserRow(u model.User, selected bool) string {
	if selected {
		return selectedStyle.Render("▸ " + u.Login)
	}
	return "  " + loginStyle.Render(u.Login)
}

// renderRepositoryView renders the repository list of the selected user
func renderRepositoryView(m Model) string {
	var b strings.Builder
	state := m.snap.Repositories

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Repositories of " + state.Username))
	b.WriteString("\n\n")

	switch state.Status {
	case search.StatusLoading:
		b.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), dimStyle.Render("Loading repositories...")))
	case search.StatusFailure:
		b.WriteString(errorStyle.Render(state.Message))
		b.WriteString("\n")
	case search.StatusSuccess:
		if len(state.Repositories) == 0 {
			b.WriteString(dimStyle.Render("No public repositories."))
			b.WriteString("\n")
			break
		}
		descWidth := m.descriptionWidth()
		start, end := calculateScrollWindow(m.repoCursor, len(state.Repositories), m.listHeight())
		for i := start; i < end; i++ {
			b.WriteString(renderRepositoryRow(state.Repositories[i], i == m.repoCursor, descWidth))
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.statusMsg))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("j/k: nav   enter: open in browser   r: reload   esc: back   q: quit"))
	b.WriteString("\n")
	return b.String()
}

func renderRepositoryRow(r model.Repository, selected bool, descWidth int) string {
	name := format.Fit(r.Name, colRepoName)
	stars := fmt.Sprintf("★ %*s", colStars-2, format.Stars(r.StarCount))
	lang := format.Fit(r.LanguageOr("-"), colLanguage)
	desc, _ := format.Truncate(format.SingleLine(r.DescriptionOr("")), descWidth)

	row := fmt.Sprintf("%s  %s  %s  %s",
		name,
		applyStyle(starStyle, stars, selected),
		applyStyle(languageStyle, lang, selected),
		applyStyle(dimStyle, desc, selected),
	)
	if selected {
		return selectedStyle.Render("▸ " + row)
	}
	return "  " + row
}

// renderRateWarning warns when the observed search quota is low or gone.
func renderRateWarning(m Model) string {
	if m.rates == nil {
		return ""
	}
	status, ok := m.rates.Status("search")
	// Remaining is stale once the window has reset.
	if !ok || status.Limit <= 0 || time.Now().After(status.ResetAt) {
		return ""
	}
	switch {
	case status.Limited():
		return warnStyle.Render(fmt.Sprintf("Search rate limit reached, resets in %s", format.Until(time.Until(status.ResetAt)))) + "\n"
	case status.Remaining <= constants.RateLimitLowWatermark:
		return warnStyle.Render(fmt.Sprintf("%d of %d searches left this minute", status.Remaining, status.Limit)) + "\n"
	}
	return ""
}

// listHeight is the number of rows available for a list. Before the
// first WindowSizeMsg everything is shown.
func (m Model) listHeight() int {
	if m.windowHeight == 0 {
		return int(^uint(0) >> 1)
	}
	return max(1, m.windowHeight-headerLines-footerLines)
}

func (m Model) descriptionWidth() int {
	if m.windowWidth == 0 {
		return 50
	}
	return max(minDescCol, m.windowWidth-colRepoName-colStars-colLanguage-10)
}

// calculateScrollWindow returns the slice of rows to render so that the
// cursor stays visible.
func calculateScrollWindow(cursor, total, viewHeight int) (start, end int) {
	if total <= viewHeight {
		return 0, total
	}

	start = cursor - viewHeight/2
	if start < 0 {
		start = 0
	}

	end = start + viewHeight
	if end > total {
		end = total
		start = end - viewHeight
		if start < 0 {
			start = 0
		}
	}

	return start, end
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
