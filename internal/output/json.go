package output

import (
	"encoding/json"
	"io"

	"github.com/spiffcs/gitsearch/internal/model"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

type jsonUser struct {
	model.User
	ProfileURL string `json:"profileUrl"`
}

type jsonUserResults struct {
	Query string     `json:"query"`
	Count int        `json:"count"`
	Users []jsonUser `json:"users"`
}

type jsonListing struct {
	Username     string             `json:"username"`
	Repositories []model.Repository `json:"repositories"`
	Error        string             `json:"error,omitempty"`
}

// FormatUsers outputs search results as a single JSON object.
func (f *JSONFormatter) FormatUsers(results UserResults, w io.Writer) error {
	out := jsonUserResults{
		Query: results.Query,
		Count: len(results.Users),
		Users: make([]jsonUser, 0, len(results.Users)),
	}
	for _, u := range results.Users {
		out.Users = append(out.Users, jsonUser{User: u, ProfileURL: ProfileURL(u.Login)})
	}
	return f.encode(out, w)
}

// FormatRepositories outputs one JSON object per requested user, in
// request order, inside an array.
func (f *JSONFormatter) FormatRepositories(listings []RepositoryListing, w io.Writer) error {
	out := make([]jsonListing, 0, len(listings))
	for _, l := range listings {
		entry := jsonListing{Username: l.Username, Repositories: l.Repositories}
		if entry.Repositories == nil {
			entry.Repositories = []model.Repository{}
		}
		if l.Err != nil {
			entry.Error = l.Err.Error()
		}
		out = append(out, entry)
	}
	return f.encode(out, w)
}

func (f *JSONFormatter) encode(v any, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}
