package server

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"gitfolio/internal/github"
	"gitfolio/internal/stars"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// unstarDeniedVisible is how long the "Not allowed!" panel stays up before
// dismissing itself.
const unstarDeniedVisible = 2 * time.Second

type starRequest struct {
	Owner string `json:"owner" binding:"required"`
	Repo  string `json:"repo" binding:"required"`
}

type unstarRequest struct {
	Repo      string `json:"repo" binding:"required"`
	Confirmed bool   `json:"confirmed"`
}

// Star stars a repository on the visitor's behalf. The displayed count is
// bumped before the upstream call and reconciled with the canonical count
// once GitHub answers; on failure it is rolled back. An expired token gets
// a 401 with the login URL so the client can restart the OAuth flow.
func (h *Handler) Star(c *gin.Context) {
	var req starRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner and repo are required"})
		return
	}

	token := githubToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Not authenticated",
			"login": "/api/github/login",
		})
		return
	}

	sess := h.visitorSession(c)
	count, err := sess.Stars.StarRepo(c.Request.Context(), token, req.Owner, req.Repo)
	if err != nil {
		if errors.Is(err, github.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Not authenticated",
				"login": "/api/github/login",
			})
			return
		}
		log.Error().Err(err).Str("repo", req.Repo).Msg("starring repository failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "starring repository failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "stargazers_count": count})
}

// Unstar never removes a star. The first call answers with a confirmation
// prompt; a confirmed call puts up the refusal panel on the card and
// schedules its dismissal. GitHub is not contacted either way.
func (h *Handler) Unstar(c *gin.Context) {
	var req unstarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "repo is required"})
		return
	}

	if !req.Confirmed {
		c.JSON(http.StatusOK, gin.H{
			"confirm": true,
			"message": stars.UnstarConfirmPrompt,
		})
		return
	}

	sess := h.visitorSession(c)
	sess.UI.SetMessageFor(req.Repo, stars.UnstarDeniedMessage, unstarDeniedVisible)
	c.JSON(http.StatusOK, gin.H{
		"confirm": false,
		"message": stars.UnstarDeniedMessage,
	})
}

// StarredList serves the visitor's starred repositories straight from
// GitHub, replacing any locally remembered state with the authoritative
// answer.
func (h *Handler) StarredList(c *gin.Context) {
	token := githubToken(c)
	if token == "" {
		c.JSON(http.StatusOK, gin.H{"authed": false, "repos": []string{}})
		return
	}

	sess := h.visitorSession(c)
	if err := sess.Stars.RefreshStars(c.Request.Context(), token); err != nil {
		if errors.Is(err, github.ErrUnauthenticated) {
			c.JSON(http.StatusOK, gin.H{"authed": false, "repos": []string{}})
			return
		}
		log.Error().Err(err).Msg("listing starred repositories failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "listing starred repositories failed"})
		return
	}

	starred := sess.Stars.Starred()
	names := make([]string, 0, len(starred))
	for name := range starred {
		names = append(names, name)
	}
	sort.Strings(names)

	c.JSON(http.StatusOK, gin.H{"authed": true, "repos": names})
}
