package stars

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"gitfolio/internal/github"
	"gitfolio/internal/loader"
)

type fakeStarrer struct {
	starErr     error
	repoCount   int
	repoErr     error
	starredList []github.RepoPayload
	listErr     error

	starCalls []string
}

func (f *fakeStarrer) Star(ctx context.Context, token, owner, repo string) error {
	f.starCalls = append(f.starCalls, owner+"/"+repo)
	return f.starErr
}

func (f *fakeStarrer) GetRepo(ctx context.Context, owner, repo string) (github.RepoPayload, error) {
	return github.RepoPayload{StargazersCount: f.repoCount}, f.repoErr
}

func (f *fakeStarrer) ListStarred(ctx context.Context, token string) ([]github.RepoPayload, error) {
	return f.starredList, f.listErr
}

type fakeCache struct {
	stored map[string]map[string]bool
	saves  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{stored: make(map[string]map[string]bool)}
}

func (f *fakeCache) StarMap(ctx context.Context, session string) (map[string]bool, error) {
	return f.stored[session], nil
}

func (f *fakeCache) SaveStarMap(ctx context.Context, session string, starred map[string]bool) error {
	f.saves++
	f.stored[session] = starred
	return nil
}

func seededRepos() []loader.Repo {
	return []loader.Repo{
		{Name: "api", StargazersCount: 41},
		{Name: "site", StargazersCount: 7},
	}
}

func TestSeedLoadsCachedStarMap(t *testing.T) {
	cache := newFakeCache()
	cache.stored["visitor-1"] = map[string]bool{"api": true}

	store := NewStore(&fakeStarrer{}, cache, "visitor-1")
	store.Seed(context.Background(), seededRepos())

	if !store.Seeded() {
		t.Error("store not marked seeded")
	}
	if store.Count("api") != 41 || store.Count("site") != 7 {
		t.Errorf("unexpected counts %v", store.Counts())
	}
	if !store.IsStarred("api") || store.IsStarred("site") {
		t.Errorf("cached star map not applied: %v", store.Starred())
	}
}

func TestStarRepoAdoptsCanonicalCount(t *testing.T) {
	gh := &fakeStarrer{repoCount: 43}
	cache := newFakeCache()

	store := NewStore(gh, cache, "visitor-1")
	store.Seed(context.Background(), seededRepos())

	count, err := store.StarRepo(context.Background(), "tok", "octo", "api")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 43 {
		t.Errorf("expected canonical count 43, got %d", count)
	}
	if !store.IsStarred("api") {
		t.Error("repo not marked starred")
	}
	if store.Count("api") != 43 {
		t.Errorf("displayed count %d, want 43", store.Count("api"))
	}
	if !reflect.DeepEqual(gh.starCalls, []string{"octo/api"}) {
		t.Errorf("unexpected upstream calls %v", gh.starCalls)
	}
	if cache.saves == 0 {
		t.Error("star map never persisted")
	}
}

func TestStarRepoTwiceSettlesOnCanonicalCount(t *testing.T) {
	gh := &fakeStarrer{repoCount: 43}

	store := NewStore(gh, newFakeCache(), "visitor-1")
	store.Seed(context.Background(), seededRepos())

	for i := 0; i < 2; i++ {
		if _, err := store.StarRepo(context.Background(), "tok", "octo", "api"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if !store.IsStarred("api") {
		t.Error("repo not marked starred")
	}
	if store.Count("api") != 43 {
		t.Errorf("repeated starring drifted the count: %d", store.Count("api"))
	}
}

func TestStarRepoCountFallsBackWhenCanonicalUnavailable(t *testing.T) {
	gh := &fakeStarrer{repoErr: errors.New("timeout")}

	store := NewStore(gh, newFakeCache(), "visitor-1")
	store.Seed(context.Background(), seededRepos())

	count, err := store.StarRepo(context.Background(), "tok", "octo", "api")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 42 {
		t.Errorf("expected optimistic count 42, got %d", count)
	}
}

func TestStarRepoAlreadyStarredKeepsCountWhenCanonicalUnavailable(t *testing.T) {
	gh := &fakeStarrer{repoErr: errors.New("timeout")}

	store := NewStore(gh, newFakeCache(), "visitor-1")
	store.Seed(context.Background(), seededRepos())

	for i := 0; i < 3; i++ {
		count, err := store.StarRepo(context.Background(), "tok", "octo", "api")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 42 {
			t.Fatalf("star %d returned count %d, want 42", i+1, count)
		}
	}

	if store.Count("api") != 42 {
		t.Errorf("repeated starring drifted the count: %d", store.Count("api"))
	}
}

func TestStarRepoRollsBackOnFailure(t *testing.T) {
	gh := &fakeStarrer{starErr: errors.New("boom")}

	store := NewStore(gh, newFakeCache(), "visitor-1")
	store.Seed(context.Background(), seededRepos())

	_, err := store.StarRepo(context.Background(), "tok", "octo", "api")
	if err == nil {
		t.Fatal("expected error")
	}
	if store.IsStarred("api") {
		t.Error("starred flag not rolled back")
	}
	if store.Count("api") != 41 {
		t.Errorf("count not rolled back: %d", store.Count("api"))
	}
}

func TestStarRepoKeepsOptimisticStateOnUnauthenticated(t *testing.T) {
	gh := &fakeStarrer{starErr: github.ErrUnauthenticated}

	store := NewStore(gh, newFakeCache(), "visitor-1")
	store.Seed(context.Background(), seededRepos())

	_, err := store.StarRepo(context.Background(), "expired", "octo", "api")
	if !errors.Is(err, github.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	// The visitor is sent to login; the card stays flipped so the grid does
	// not flicker on the way out.
	if !store.IsStarred("api") {
		t.Error("optimistic starred flag reverted")
	}
	if store.Count("api") != 42 {
		t.Errorf("optimistic count reverted: %d", store.Count("api"))
	}
}

func TestRefreshStarsServerWins(t *testing.T) {
	gh := &fakeStarrer{starredList: []github.RepoPayload{{Name: "site"}}}
	cache := newFakeCache()
	cache.stored["visitor-1"] = map[string]bool{"api": true}

	store := NewStore(gh, cache, "visitor-1")
	store.Seed(context.Background(), seededRepos())

	if err := store.RefreshStars(context.Background(), "tok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := map[string]bool{"site": true}
	if !reflect.DeepEqual(store.Starred(), expected) {
		t.Errorf("expected %v, got %v", expected, store.Starred())
	}
	if !reflect.DeepEqual(cache.stored["visitor-1"], expected) {
		t.Errorf("cache not updated, got %v", cache.stored["visitor-1"])
	}
}

func TestRefreshStarsEmptyListClearsEverything(t *testing.T) {
	gh := &fakeStarrer{starredList: nil}
	cache := newFakeCache()
	cache.stored["visitor-1"] = map[string]bool{"api": true, "site": true}

	store := NewStore(gh, cache, "visitor-1")
	store.Seed(context.Background(), seededRepos())

	if err := store.RefreshStars(context.Background(), "tok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.Starred()) != 0 {
		t.Errorf("stale stars survived refresh: %v", store.Starred())
	}
}
