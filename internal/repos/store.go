// Package repos holds the loaded repository collection and derives the
// filtered, sorted view the card grid renders from. The derivations are
// non-destructive: the loaded list is never reordered or mutated.
package repos

import (
	"context"
	"sort"
	"strings"
	"sync"

	"gitfolio/internal/loader"

	"github.com/rs/zerolog/log"
)

const (
	SortCreated  SortKey = "created"
	SortUpdated  SortKey = "updated"
	SortStars    SortKey = "stars"
	SortActivity SortKey = "activity"
)

// UnknownLanguage labels repositories without any language data.
const UnknownLanguage = "Unknown"

type SortKey string

// ParseSortKey maps a raw value onto a sort key, defaulting to activity.
func ParseSortKey(raw string) SortKey {
	switch SortKey(raw) {
	case SortCreated, SortUpdated, SortStars:
		return SortKey(raw)
	default:
		return SortActivity
	}
}

type Filters struct {
	Languages []string
	SortBy    SortKey
}

type Store struct {
	dataLoader loader.DataLoader

	mu      sync.RWMutex
	repos   []loader.Repo
	filters Filters
	loading bool
	loaded  bool
}

func NewStore(dataLoader loader.DataLoader) *Store {
	return &Store{
		dataLoader: dataLoader,
		filters:    Filters{SortBy: SortActivity},
		loading:    true,
	}
}

// Load replaces the repository collection with a fresh fetch. On failure the
// collection stays as it was; the loading flag clears either way.
func (s *Store) Load(ctx context.Context) error {
	repos, err := s.dataLoader.LoadRepos(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		log.Error().Err(err).Msg("loading repositories failed")
		return err
	}

	s.repos = repos
	s.loaded = true
	log.Info().Msgf("loaded %d repositories", len(repos))
	return nil
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Loaded reports whether any fetch has succeeded this session.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) Repos() []loader.Repo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repos
}

// Find looks a repository up by name.
func (s *Store) Find(name string) (loader.Repo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, repo := range s.repos {
		if repo.Name == name {
			return repo, true
		}
	}
	return loader.Repo{}, false
}

func (s *Store) Filters() Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// SetFilters merges the update into the current filter state. A nil language
// slice keeps the current selection; an empty non-nil slice clears it.
func (s *Store) SetFilters(update Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if update.Languages != nil {
		s.filters.Languages = update.Languages
	}
	if update.SortBy != "" {
		s.filters.SortBy = update.SortBy
	}
}

func (s *Store) Languages() []string {
	return Languages(s.Repos())
}

func (s *Store) VisibleRepos() []loader.Repo {
	return VisibleRepos(s.Repos(), s.Filters())
}

func (s *Store) DisplayLanguages() map[string]string {
	return DisplayLanguages(s.Repos(), s.Filters().Languages)
}

// Languages returns the distinct language names across all repositories,
// sorted case-insensitively. Repositories without any language data
// contribute the Unknown sentinel.
func Languages(repos []loader.Repo) []string {
	seen := make(map[string]bool)
	var languages []string

	add := func(lang string) {
		if lang == "" || seen[lang] {
			return
		}
		seen[lang] = true
		languages = append(languages, lang)
	}

	for _, repo := range repos {
		for lang := range repo.Languages {
			add(lang)
		}
		if repo.Language != nil {
			add(*repo.Language)
		}
		if len(repo.Languages) == 0 && repo.Language == nil {
			add(UnknownLanguage)
		}
	}

	sort.Slice(languages, func(i, j int) bool {
		return strings.ToLower(languages[i]) < strings.ToLower(languages[j])
	})

	return languages
}

// VisibleRepos filters by the selected languages and sorts descending by the
// chosen key. The sort is stable: repositories with equal keys keep their
// original relative order so the grid does not flicker on re-render.
func VisibleRepos(repos []loader.Repo, filters Filters) []loader.Repo {
	visible := make([]loader.Repo, 0, len(repos))
	for _, repo := range repos {
		if matchesLanguages(repo, filters.Languages) {
			visible = append(visible, repo)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		a, b := visible[i], visible[j]
		switch filters.SortBy {
		case SortCreated:
			return a.CreatedAt.After(b.CreatedAt)
		case SortUpdated:
			return a.UpdatedAt.After(b.UpdatedAt)
		case SortStars:
			return a.StargazersCount > b.StargazersCount
		default:
			return a.PushedAt.After(b.PushedAt)
		}
	})

	return visible
}

// DisplayLanguages picks the language label shown on each card. Among the
// selected filter languages present in the repository, the one with the
// highest byte count wins; otherwise the repository's primary language;
// otherwise Unknown. Each repository picks independently.
func DisplayLanguages(repos []loader.Repo, selected []string) map[string]string {
	display := make(map[string]string, len(repos))
	for _, repo := range repos {
		display[repo.Name] = displayLanguage(repo, selected)
	}
	return display
}

func displayLanguage(repo loader.Repo, selected []string) string {
	best := ""
	bestBytes := -1
	for _, lang := range selected {
		bytes, present := repo.Languages[lang]
		if present && bytes > bestBytes {
			best = lang
			bestBytes = bytes
		}
	}
	if best != "" {
		return best
	}

	if repo.Language != nil {
		return *repo.Language
	}
	return UnknownLanguage
}

func matchesLanguages(repo loader.Repo, selected []string) bool {
	if len(selected) == 0 {
		return true
	}

	repoLangs := make(map[string]bool, len(repo.Languages))
	for lang := range repo.Languages {
		repoLangs[lang] = true
	}
	if len(repoLangs) == 0 && repo.Language != nil {
		repoLangs[*repo.Language] = true
	}

	for _, lang := range selected {
		if repoLangs[lang] {
			return true
		}
	}
	return false
}
