package server

import (
	"net/http"
	"strings"

	"gitfolio/internal/loader"
	"gitfolio/internal/repos"
	"gitfolio/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// repoView is a repository as the card grid renders it: the aggregated
// record plus the visitor's star state and the language label picked for
// the active filters. StargazersCount carries the per-visitor displayed
// count, which may be ahead of the upstream value while a star request is
// in flight.
type repoView struct {
	loader.Repo
	Starred         bool   `json:"starred"`
	DisplayLanguage string `json:"display_language"`
}

// Repos serves the full aggregated repository collection, fetching it from
// GitHub on first use.
func (h *Handler) Repos(c *gin.Context) {
	if !h.ensureLoaded(c) {
		return
	}
	sess := h.visitorSession(c)

	all := h.catalog.Repos()
	c.JSON(http.StatusOK, h.repoViews(sess, all, nil))
}

// VisibleRepos serves the collection filtered and sorted for one render:
// ?languages=Go,Rust&sort=stars. No languages means no language filter.
func (h *Handler) VisibleRepos(c *gin.Context) {
	if !h.ensureLoaded(c) {
		return
	}
	sess := h.visitorSession(c)

	filters := repos.Filters{SortBy: repos.ParseSortKey(c.Query("sort"))}
	if raw := c.Query("languages"); raw != "" {
		filters.Languages = strings.Split(raw, ",")
	}

	visible := repos.VisibleRepos(h.catalog.Repos(), filters)
	c.JSON(http.StatusOK, h.repoViews(sess, visible, filters.Languages))
}

// RepoLanguages serves the distinct languages across the collection, for
// building the filter buttons.
func (h *Handler) RepoLanguages(c *gin.Context) {
	if !h.ensureLoaded(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"languages": repos.Languages(h.catalog.Repos())})
}

// SQLPing runs a trivial query against the cache database and reports the
// result, mirroring a plain connectivity check.
func (h *Handler) SQLPing(c *gin.Context) {
	ok, err := h.database.SelectOne(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("database ping failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": ok})
}

// ensureLoaded fetches the collection on the first request that needs it.
// On upstream failure the request is answered with a 500 and false is
// returned.
func (h *Handler) ensureLoaded(c *gin.Context) bool {
	if h.catalog.Loaded() {
		return true
	}
	if err := h.catalog.Load(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("loading repositories failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetching repositories failed"})
		return false
	}
	return true
}

// visitorSession resolves the caller's session and seeds its star counts
// from the collection the first time it is seen.
func (h *Handler) visitorSession(c *gin.Context) *session.Session {
	sess := h.sessions.Get(sessionID(c))
	if !sess.Stars.Seeded() && h.catalog.Loaded() {
		sess.Stars.Seed(c.Request.Context(), h.catalog.Repos())
	}
	return sess
}

func (h *Handler) repoViews(sess *session.Session, list []loader.Repo, selected []string) []repoView {
	labels := repos.DisplayLanguages(list, selected)

	views := make([]repoView, 0, len(list))
	for _, repo := range list {
		view := repoView{
			Repo:            repo,
			Starred:         sess.Stars.IsStarred(repo.Name),
			DisplayLanguage: labels[repo.Name],
		}
		if count := sess.Stars.Count(repo.Name); count > 0 || view.Starred {
			view.StargazersCount = count
		}
		views = append(views, view)
	}
	return views
}
