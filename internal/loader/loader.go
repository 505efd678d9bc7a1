package loader

import (
	"context"
	"time"
)

// Repo is one GitHub repository as surfaced to the UI: the repository
// record joined with its per-language byte counts and README text.
// Immutable once loaded for the session.
type Repo struct {
	Id              int64          `json:"id"`
	Name            string         `json:"name"`
	HtmlUrl         string         `json:"html_url"`
	Description     *string        `json:"description"`
	StargazersCount int            `json:"stargazers_count"`
	Language        *string        `json:"language"`
	Languages       map[string]int `json:"languages"`
	ForksCount      int            `json:"forks_count"`
	OpenIssuesCount int            `json:"open_issues_count"`
	Owner           string         `json:"owner"`
	CreatedAt       time.Time      `json:"created_at"`
	PushedAt        time.Time      `json:"pushed_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Readme          *string        `json:"readme"`
}

type DataLoader interface {
	LoadRepos(ctx context.Context) ([]Repo, error)
}
