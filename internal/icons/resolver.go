// Package icons resolves a language name to the first icon URL that actually
// exists, probing a fixed priority order of public icon sources.
package icons

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// noIcon is cached when every candidate fails, so a language with no icon is
// resolved exactly once. The UI falls back to rendering the bare language
// text.
const noIcon = "none"

// probeTimeout keeps a slow or dead CDN from delaying the text fallback.
const probeTimeout = 250 * time.Millisecond

// Cache mirrors resolved urls to persistent storage, keyed by language name.
type Cache interface {
	IconURL(ctx context.Context, lang string) (string, bool, error)
	SaveIconURL(ctx context.Context, lang, url string) error
}

type Resolver struct {
	probe      *http.Client
	persistent Cache
	siteBase   string
	candidates func(slug string) []string

	mu     sync.Mutex
	memory map[string]string
}

func NewResolver(persistent Cache, siteBase string) *Resolver {
	r := &Resolver{
		probe:      &http.Client{Timeout: probeTimeout},
		persistent: persistent,
		siteBase:   strings.TrimSuffix(siteBase, "/"),
		memory:     make(map[string]string),
	}
	r.candidates = r.candidateUrls
	return r
}

// Get is the synchronous cache lookup. It never issues a network request;
// ok is false until Resolve has run for lang (or when lang has no icon).
func (r *Resolver) Get(lang string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	url, cached := r.memory[lang]
	if !cached || url == noIcon {
		return "", false
	}
	return url, true
}

// Resolve returns the icon url for lang, probing candidate sources in
// priority order on first use. Results, including "no icon anywhere", are
// cached in memory and mirrored to the persistent cache.
func (r *Resolver) Resolve(ctx context.Context, lang string) (string, bool) {
	r.mu.Lock()
	if url, cached := r.memory[lang]; cached {
		r.mu.Unlock()
		return url, url != noIcon
	}
	r.mu.Unlock()

	if r.persistent != nil {
		url, cached, err := r.persistent.IconURL(ctx, lang)
		if err != nil {
			log.Warn().Err(err).Msgf("icon cache lookup for %q failed", lang)
		} else if cached {
			r.remember(lang, url)
			return url, url != noIcon
		}
	}

	url := r.probeCandidates(ctx, lang)
	r.remember(lang, url)

	if r.persistent != nil {
		if err := r.persistent.SaveIconURL(ctx, lang, url); err != nil {
			log.Warn().Err(err).Msgf("persisting icon url for %q failed", lang)
		}
	}

	return url, url != noIcon
}

func (r *Resolver) probeCandidates(ctx context.Context, lang string) string {
	slug := Slug(lang)

	for _, candidate := range r.candidates(slug) {
		if r.exists(ctx, candidate) {
			return candidate
		}
	}
	return noIcon
}

// exists issues a HEAD-equivalent existence check.
func (r *Resolver) exists(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	resp, err := r.probe.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

// candidateUrls lists the icon sources to try, most reliable first.
func (r *Resolver) candidateUrls(slug string) []string {
	return []string{
		fmt.Sprintf("https://raw.githubusercontent.com/devicons/devicon/master/icons/%s/%s-original.svg", slug, slug),
		fmt.Sprintf("https://raw.githubusercontent.com/abranhe/programming-languages-logos/master/src/%s/%s.svg", slug, slug),
		fmt.Sprintf("%s/icons/%s.svg", r.siteBase, slug),
		fmt.Sprintf("%s/icons/rare/%s.svg", r.siteBase, slug),
		fmt.Sprintf("https://cdn.simpleicons.org/%s", slug),
	}
}

func (r *Resolver) remember(lang, url string) {
	r.mu.Lock()
	r.memory[lang] = url
	r.mu.Unlock()
}

// specialSlugs patches icon-set naming inconsistencies after normalization.
var specialSlugs = map[string]string{
	"dockerfile": "docker",
	"cplusplus":  "cplusplus",
	"csharp":     "csharp",
	"shell":      "bash",
	"bash":       "bash",
	"sh":         "bash",
	"batchfile":  "batch",
	"makefile":   "makefile",
	"html":       "html5",
	"css":        "css3",
	"java":       "java",
}

// Slug normalizes a GitHub language name to the identifier the icon sets
// use: lower-cased, separators stripped, with C++/C#/Dockerfile style names
// remapped.
func Slug(lang string) string {
	normalized := strings.ToLower(strings.TrimSpace(lang))
	normalized = strings.ReplaceAll(normalized, "+", "plus")
	normalized = strings.ReplaceAll(normalized, "#", "sharp")
	normalized = strings.Join(strings.Fields(normalized), "")

	if slug, ok := specialSlugs[normalized]; ok {
		return slug
	}
	return normalized
}
