package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrUnauthenticated maps GitHub's 401 responses. The star flow treats
	// this as "send the visitor to the login redirect".
	ErrUnauthenticated = errors.New("github: not authenticated")

	ErrNotFound = errors.New("github: not found")
)

// RepoPayload is the subset of the GitHub repository record the portfolio
// surfaces.
type RepoPayload struct {
	Id              int64      `json:"id"`
	Name            string     `json:"name"`
	HtmlUrl         string     `json:"html_url"`
	Description     *string    `json:"description"`
	StargazersCount int        `json:"stargazers_count"`
	Language        *string    `json:"language"`
	ForksCount      int        `json:"forks_count"`
	OpenIssuesCount int        `json:"open_issues_count"`
	LanguagesUrl    string     `json:"languages_url"`
	Owner           OwnerInfo  `json:"owner"`
	CreatedAt       time.Time  `json:"created_at"`
	PushedAt        time.Time  `json:"pushed_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type OwnerInfo struct {
	Login string `json:"login"`
}

type readmePayload struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// ListUserRepos fetches the newest 100 public repositories of user.
func (client *GithubClient) ListUserRepos(ctx context.Context, user string) ([]RepoPayload, error) {
	url := fmt.Sprintf("%s/users/%s/repos?per_page=100&sort=updated", client.baseUrl, user)

	var repos []RepoPayload
	err := client.getJSON(ctx, url, &repos)
	if err != nil {
		return nil, fmt.Errorf("listing repos for %s failed: %w", user, err)
	}

	return repos, nil
}

// ListLanguages fetches the per-language byte counts of one repository.
func (client *GithubClient) ListLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/languages", client.baseUrl, owner, repo)

	languages := make(map[string]int)
	err := client.getJSON(ctx, url, &languages)
	if err != nil {
		return nil, err
	}

	return languages, nil
}

// GetReadme fetches and decodes the repository README. Repositories without
// one return ErrNotFound.
func (client *GithubClient) GetReadme(ctx context.Context, owner, repo string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/readme", client.baseUrl, owner, repo)

	var payload readmePayload
	err := client.getJSON(ctx, url, &payload)
	if err != nil {
		return "", err
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(payload.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("decoding readme content failed: %w", err)
	}

	return string(decoded), nil
}

// GetRepo fetches a single repository, used for the canonical star count
// after a star request succeeded.
func (client *GithubClient) GetRepo(ctx context.Context, owner, repo string) (RepoPayload, error) {
	url := fmt.Sprintf("%s/repos/%s/%s", client.baseUrl, owner, repo)

	var payload RepoPayload
	err := client.getJSON(ctx, url, &payload)
	if err != nil {
		return RepoPayload{}, err
	}

	return payload, nil
}

// Star stars a repository on behalf of the visitor owning token.
// GitHub answers 204 on success.
func (client *GithubClient) Star(ctx context.Context, token, owner, repo string) error {
	url := fmt.Sprintf("%s/user/starred/%s/%s", client.baseUrl, owner, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, nil)
	if err != nil {
		return err
	}
	setVisitorHeaders(req, token)
	req.Header.Set("Content-Length", "0")

	resp, err := client.unauth.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthenticated
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("github star failed with status %d: %s", resp.StatusCode, string(body))
	}
}

// IsStarred probes a single repository: 204 means starred, 404 not starred.
func (client *GithubClient) IsStarred(ctx context.Context, token, owner, repo string) (bool, error) {
	url := fmt.Sprintf("%s/user/starred/%s/%s", client.baseUrl, owner, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	setVisitorHeaders(req, token)

	resp, err := client.unauth.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	case http.StatusUnauthorized:
		return false, ErrUnauthenticated
	default:
		return false, fmt.Errorf("github starred probe failed with status %d", resp.StatusCode)
	}
}

// ListStarred fetches the authoritative list of repositories the visitor has
// starred.
func (client *GithubClient) ListStarred(ctx context.Context, token string) ([]RepoPayload, error) {
	url := fmt.Sprintf("%s/user/starred?per_page=100", client.baseUrl)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	setVisitorHeaders(req, token)

	resp, err := client.unauth.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github starred list failed with status %d", resp.StatusCode)
	}

	var repos []RepoPayload
	err = json.NewDecoder(resp.Body).Decode(&repos)
	if err != nil {
		return nil, err
	}

	return repos, nil
}

func (client *GithubClient) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.rest.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthenticated
	default:
		return fmt.Errorf("github request failed with status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

func setVisitorHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
}
