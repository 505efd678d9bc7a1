package icons

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "Go", expected: "go"},
		{input: "C++", expected: "cplusplus"},
		{input: "C#", expected: "csharp"},
		{input: "Dockerfile", expected: "docker"},
		{input: "Shell", expected: "bash"},
		{input: "HTML", expected: "html5"},
		{input: "CSS", expected: "css3"},
		{input: "Batchfile", expected: "batch"},
		{input: "Jupyter Notebook", expected: "jupyternotebook"},
		{input: "  TypeScript  ", expected: "typescript"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := Slug(tt.input); result != tt.expected {
				t.Errorf("Slug(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestResolvePicksFirstExistingCandidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/second/go.svg" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	r := NewResolver(nil, srv.URL)
	r.candidates = func(slug string) []string {
		return []string{
			srv.URL + "/first/" + slug + ".svg",
			srv.URL + "/second/" + slug + ".svg",
			srv.URL + "/third/" + slug + ".svg",
		}
	}

	url, ok := r.Resolve(context.Background(), "Go")
	if !ok {
		t.Fatal("expected an icon url")
	}
	if expected := srv.URL + "/second/go.svg"; url != expected {
		t.Errorf("expected %q, got %q", expected, url)
	}

	if cached, ok := r.Get("Go"); !ok || cached != url {
		t.Errorf("Get returned %q, %v after Resolve", cached, ok)
	}
}

func TestResolveMissingIconProbedExactlyOnce(t *testing.T) {
	var probes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	r := NewResolver(nil, srv.URL)
	r.candidates = func(slug string) []string {
		return []string{srv.URL + "/" + slug + ".svg"}
	}

	for i := 0; i < 3; i++ {
		if _, ok := r.Resolve(context.Background(), "Brainfuck"); ok {
			t.Fatal("expected no icon")
		}
	}

	if got := probes.Load(); got != 1 {
		t.Errorf("expected exactly 1 probe, got %d", got)
	}
	if _, ok := r.Get("Brainfuck"); ok {
		t.Error("Get reported an icon for a language with none")
	}
}

type mapIconCache struct {
	urls  map[string]string
	saves int
}

func (m *mapIconCache) IconURL(ctx context.Context, lang string) (string, bool, error) {
	url, ok := m.urls[lang]
	return url, ok, nil
}

func (m *mapIconCache) SaveIconURL(ctx context.Context, lang, url string) error {
	m.saves++
	m.urls[lang] = url
	return nil
}

func TestResolveReadsThroughPersistentCache(t *testing.T) {
	cache := &mapIconCache{urls: map[string]string{"Go": "https://icons.test/go.svg"}}

	r := NewResolver(cache, "https://portfolio.test")
	r.candidates = func(slug string) []string {
		t.Fatal("probe issued despite cached url")
		return nil
	}

	url, ok := r.Resolve(context.Background(), "Go")
	if !ok || url != "https://icons.test/go.svg" {
		t.Errorf("expected cached url, got %q, %v", url, ok)
	}
}

func TestResolvePersistsNoIconSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cache := &mapIconCache{urls: make(map[string]string)}
	r := NewResolver(cache, srv.URL)
	r.candidates = func(slug string) []string {
		return []string{srv.URL + "/" + slug + ".svg"}
	}

	if _, ok := r.Resolve(context.Background(), "Brainfuck"); ok {
		t.Fatal("expected no icon")
	}
	if cache.urls["Brainfuck"] != noIcon {
		t.Errorf("sentinel not persisted, cache holds %q", cache.urls["Brainfuck"])
	}

	// A fresh resolver with the same cache must not probe again.
	r2 := NewResolver(cache, srv.URL)
	r2.candidates = func(slug string) []string {
		t.Fatal("probe issued despite cached sentinel")
		return nil
	}
	if _, ok := r2.Resolve(context.Background(), "Brainfuck"); ok {
		t.Error("cached sentinel resolved to an icon")
	}
}

func TestCandidateOrder(t *testing.T) {
	r := NewResolver(nil, "https://portfolio.test/")

	expected := []string{
		"https://raw.githubusercontent.com/devicons/devicon/master/icons/go/go-original.svg",
		"https://raw.githubusercontent.com/abranhe/programming-languages-logos/master/src/go/go.svg",
		"https://portfolio.test/icons/go.svg",
		"https://portfolio.test/icons/rare/go.svg",
		"https://cdn.simpleicons.org/go",
	}

	candidates := r.candidateUrls("go")
	if len(candidates) != len(expected) {
		t.Fatalf("expected %d candidates, got %d", len(expected), len(candidates))
	}
	for i := range expected {
		if candidates[i] != expected[i] {
			t.Errorf("candidate %d: expected %q, got %q", i, expected[i], candidates[i])
		}
	}
}
