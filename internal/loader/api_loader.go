package loader

import (
	"context"
	"errors"
	"sync"

	"gitfolio/internal/github"

	"github.com/rs/zerolog/log"
)

// languageWorkers bounds the per-repo fan-out against the GitHub API.
const languageWorkers = 8

type APILoader struct {
	client *github.GithubClient
	user   string
}

func NewAPILoader(client *github.GithubClient, user string) *APILoader {
	return &APILoader{client: client, user: user}
}

// LoadRepos fetches the repository list and enriches every repository with
// its language byte map and README text. Enrichment failures are logged and
// leave the field empty; only the list fetch itself is fatal.
func (l *APILoader) LoadRepos(ctx context.Context) ([]Repo, error) {
	payloads, err := l.client.ListUserRepos(ctx, l.user)
	if err != nil {
		return nil, err
	}

	repos := make([]Repo, len(payloads))
	for i, payload := range payloads {
		repos[i] = mapRepo(payload)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < languageWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				l.enrich(ctx, &repos[i])
			}
		}()
	}

	for i := range repos {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return repos, nil
}

func (l *APILoader) enrich(ctx context.Context, repo *Repo) {
	languages, err := l.client.ListLanguages(ctx, repo.Owner, repo.Name)
	if err != nil {
		log.Warn().Err(err).Msgf("failed fetching languages for %s", repo.Name)
	} else {
		repo.Languages = languages
	}

	readme, err := l.client.GetReadme(ctx, repo.Owner, repo.Name)
	if err != nil {
		if !errors.Is(err, github.ErrNotFound) {
			log.Warn().Err(err).Msgf("failed fetching readme for %s", repo.Name)
		}
		return
	}
	repo.Readme = &readme
}

func mapRepo(payload github.RepoPayload) Repo {
	return Repo{
		Id:              payload.Id,
		Name:            payload.Name,
		HtmlUrl:         payload.HtmlUrl,
		Description:     payload.Description,
		StargazersCount: payload.StargazersCount,
		Language:        payload.Language,
		Languages:       map[string]int{},
		ForksCount:      payload.ForksCount,
		OpenIssuesCount: payload.OpenIssuesCount,
		Owner:           payload.Owner.Login,
		CreatedAt:       payload.CreatedAt,
		PushedAt:        payload.PushedAt,
		UpdatedAt:       payload.UpdatedAt,
	}
}
