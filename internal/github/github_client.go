package github

import (
	"net/http"
	"time"
)

const apiUrl = "https://api.github.com"

const userAgent = "gitfolio"

type GithubClient struct {
	rest    http.Client
	unauth  http.Client
	apiKey  string
	baseUrl string
}

type authedTransport struct {
	wrapped      http.RoundTripper
	apiKey       string
	acceptHeader string
}

// NewClient creates a REST client authenticated with the portfolio owner's
// token. Per-visitor calls (starring) pass the visitor's own token instead.
func NewClient(apiKey string) *GithubClient {
	httpClient := http.Client{
		Timeout: 10 * time.Second,
		Transport: &authedTransport{
			apiKey:       apiKey,
			acceptHeader: "application/vnd.github+json",
			wrapped:      http.DefaultTransport,
		},
	}

	return &GithubClient{
		rest:    httpClient,
		unauth:  http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseUrl: apiUrl,
	}
}

func (t *authedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}
	req.Header.Set("Accept", t.acceptHeader)
	req.Header.Set("User-Agent", userAgent)
	return t.wrapped.RoundTrip(req)
}
