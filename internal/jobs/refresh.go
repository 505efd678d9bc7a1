// Package jobs holds the background work the server schedules around the
// request path.
package jobs

import (
	"context"
	"time"

	"gitfolio/internal/repos"

	"github.com/rs/zerolog/log"
)

// RefreshCatalog reloads the repository collection on the given interval
// until ctx is done. A failed reload keeps the previous collection and is
// retried on the next tick.
func RefreshCatalog(ctx context.Context, catalog *repos.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			if err := catalog.Load(ctx); err != nil {
				log.Error().Err(err).Msg("refreshing repositories failed")
				continue
			}
			log.Info().
				Dur("took", time.Since(start)).
				Int("repos", len(catalog.Repos())).
				Msg("refreshed repositories")
		}
	}
}
