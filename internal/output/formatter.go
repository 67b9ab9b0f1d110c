// Package output renders search results for non-interactive commands.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/spiffcs/gitsearch/internal/model"
)

// Format represents the output format
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ValidFormats lists the accepted --output values.
var ValidFormats = []Format{FormatTable, FormatJSON, FormatMarkdown}

// ParseFormat validates a format name. An empty name means table.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatTable, nil
	}
	for _, f := range ValidFormats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (valid: table, json, markdown)", s)
}

// UserResults is the outcome of one user search.
type UserResults struct {
	Query string
	Users []model.User
}

// RepositoryListing is the outcome of listing one user's repositories.
// Err is set instead of Repositories when the listing failed.
type RepositoryListing struct {
	Username     string
	Repositories []model.Repository
	Err          error
}

// Formatter defines the interface for output formatters
type Formatter interface {
	FormatUsers(results UserResults, w io.Writer) error
	FormatRepositories(listings []RepositoryListing, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}

// ProfileURL returns the github.com page of a user.
func ProfileURL(login string) string {
	return "https://github.com/" + login
}
