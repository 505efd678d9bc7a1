// Package stars tracks which repositories the visitor has starred and the
// star counts the cards display. Counts are seeded from the repository list,
// reconciled against the visitor's authoritative starred list, and mutated
// optimistically when the visitor stars a card.
package stars

import (
	"context"
	"errors"
	"sync"

	"gitfolio/internal/github"
	"gitfolio/internal/loader"

	"github.com/rs/zerolog/log"
)

// UnstarConfirmPrompt is shown when the visitor clicks an already-starred
// control.
const UnstarConfirmPrompt = "Are you sure you want to unstar this repo?"

// UnstarDeniedMessage is the whole unstar feature. Confirming the prompt
// shows this and does nothing else; the portfolio's repositories cannot be
// unstarred from the UI.
const UnstarDeniedMessage = "Not allowed!"

// Starrer is the slice of the GitHub client the store needs.
type Starrer interface {
	Star(ctx context.Context, token, owner, repo string) error
	ListStarred(ctx context.Context, token string) ([]github.RepoPayload, error)
	GetRepo(ctx context.Context, owner, repo string) (github.RepoPayload, error)
}

// Cache persists the starred map across sessions, the server-side analog of
// the browser's local-storage star cache.
type Cache interface {
	StarMap(ctx context.Context, session string) (map[string]bool, error)
	SaveStarMap(ctx context.Context, session string, starred map[string]bool) error
}

type Store struct {
	gh      Starrer
	cache   Cache
	session string

	mu      sync.Mutex
	seeded  bool
	starred map[string]bool
	count   map[string]int
}

func NewStore(gh Starrer, cache Cache, session string) *Store {
	return &Store{
		gh:      gh,
		cache:   cache,
		session: session,
		starred: make(map[string]bool),
		count:   make(map[string]int),
	}
}

// Seed initializes the displayed counts from the server-reported star counts
// and loads the cached starred map, if any.
func (s *Store) Seed(ctx context.Context, repos []loader.Repo) {
	s.mu.Lock()
	for _, repo := range repos {
		s.count[repo.Name] = repo.StargazersCount
	}
	s.seeded = true
	s.mu.Unlock()

	if s.cache == nil {
		return
	}
	cached, err := s.cache.StarMap(ctx, s.session)
	if err != nil {
		log.Warn().Err(err).Msg("loading cached star map failed")
		return
	}
	if cached == nil {
		return
	}

	s.mu.Lock()
	s.starred = cached
	s.mu.Unlock()
}

// Seeded reports whether the displayed counts have been initialized.
func (s *Store) Seeded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seeded
}

// RefreshStars replaces the starred map with exactly the names in the
// visitor's authoritative starred list. Server wins: anything not in the
// list becomes not-starred, cached state included.
func (s *Store) RefreshStars(ctx context.Context, token string) error {
	repos, err := s.gh.ListStarred(ctx, token)
	if err != nil {
		return err
	}

	next := make(map[string]bool, len(repos))
	for _, repo := range repos {
		next[repo.Name] = true
	}

	s.mu.Lock()
	s.starred = next
	s.mu.Unlock()

	s.persist(ctx)
	return nil
}

// StarRepo applies the optimistic star protocol: flip the card immediately,
// issue the request, then either adopt the canonical server count or roll
// back to the captured state. A 401 is returned as-is so the caller can
// redirect to login; the optimistic change is left in place for that path.
func (s *Store) StarRepo(ctx context.Context, token, owner, name string) (int, error) {
	s.mu.Lock()
	prevStarred := s.starred[name]
	prevCount := s.count[name]

	s.starred[name] = true
	s.count[name] = prevCount + 1
	s.mu.Unlock()

	err := s.gh.Star(ctx, token, owner, name)
	if err != nil {
		if errors.Is(err, github.ErrUnauthenticated) {
			return 0, err
		}

		s.mu.Lock()
		s.starred[name] = prevStarred
		s.count[name] = prevCount
		s.mu.Unlock()
		return 0, err
	}

	// Starring is set-to-true: without the canonical count, the displayed
	// count only moves when the repo was not starred before.
	count := prevCount
	if !prevStarred {
		count++
	}
	payload, err := s.gh.GetRepo(ctx, owner, name)
	if err == nil {
		count = payload.StargazersCount
	} else {
		log.Warn().Err(err).Msgf("fetching canonical star count for %s failed", name)
	}

	s.mu.Lock()
	s.starred[name] = true
	s.count[name] = count
	s.mu.Unlock()

	s.persist(ctx)
	return count, nil
}

func (s *Store) IsStarred(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starred[name]
}

func (s *Store) Count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count[name]
}

// Starred returns a copy of the starred map.
func (s *Store) Starred() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string]bool, len(s.starred))
	for name, starred := range s.starred {
		if starred {
			snapshot[name] = true
		}
	}
	return snapshot
}

// Counts returns a copy of the displayed counts.
func (s *Store) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string]int, len(s.count))
	for name, count := range s.count {
		snapshot[name] = count
	}
	return snapshot
}

func (s *Store) persist(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SaveStarMap(ctx, s.session, s.Starred()); err != nil {
		log.Warn().Err(err).Msg("persisting star map failed")
	}
}
