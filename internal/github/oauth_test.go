package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestAuthorizeURL(t *testing.T) {
	client := NewOAuthClient(OAuthConfig{
		ClientID:    "client-123",
		RedirectURL: "https://portfolio.test/api/github/callback",
	})

	raw := client.AuthorizeURL("state-abc")
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("unparseable url %q: %v", raw, err)
	}

	if !strings.HasPrefix(raw, "https://github.com/login/oauth/authorize?") {
		t.Errorf("unexpected endpoint in %q", raw)
	}

	query := parsed.Query()
	if query.Get("client_id") != "client-123" {
		t.Errorf("client_id = %q", query.Get("client_id"))
	}
	if query.Get("scope") != "public_repo" {
		t.Errorf("scope = %q", query.Get("scope"))
	}
	if query.Get("state") != "state-abc" {
		t.Errorf("state = %q", query.Get("state"))
	}
	if query.Get("redirect_uri") != "https://portfolio.test/api/github/callback" {
		t.Errorf("redirect_uri = %q", query.Get("redirect_uri"))
	}
}

func TestExchangeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing form: %v", err)
		}
		if r.PostForm.Get("code") != "code-xyz" {
			t.Errorf("code = %q", r.PostForm.Get("code"))
		}
		if r.PostForm.Get("client_secret") != "secret" {
			t.Errorf("client_secret = %q", r.PostForm.Get("client_secret"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"gho_visitor"}`))
	}))
	defer srv.Close()

	client := NewOAuthClient(OAuthConfig{ClientID: "client-123", ClientSecret: "secret"})
	client.token = srv.URL

	token, err := client.ExchangeCode(context.Background(), "code-xyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "gho_visitor" {
		t.Errorf("token = %q", token)
	}
}

func TestExchangeCodeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error":"bad_verification_code","error_description":"The code is incorrect or expired."}`))
	}))
	defer srv.Close()

	client := NewOAuthClient(OAuthConfig{ClientID: "client-123", ClientSecret: "secret"})
	client.token = srv.URL

	if _, err := client.ExchangeCode(context.Background(), "stale"); err == nil {
		t.Fatal("expected error for rejected code")
	}
}
