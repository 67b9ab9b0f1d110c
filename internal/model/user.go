// Package model contains domain types for the gitsearch application.
// These types are independent of any external GitHub library.
package model

// User is a GitHub account returned by user search.
type User struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatarUrl"`
}

// UserSearchResult is one page of a user search.
type UserSearchResult struct {
	TotalCount        int    `json:"totalCount"`
	IncompleteResults bool   `json:"incompleteResults"`
	Users             []User `json:"users"`
}
