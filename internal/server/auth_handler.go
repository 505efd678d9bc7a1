package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Me reports whether the visitor holds a GitHub token.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"authed": githubToken(c) != ""})
}

// Login starts the OAuth flow: a random state value is pinned in a short
// lived cookie and the visitor is sent to GitHub's authorize page.
func (h *Handler) Login(c *gin.Context) {
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookieName, state, 300, "/", "", false, true)
	c.Redirect(http.StatusFound, h.oauth.AuthorizeURL(state))
}

// Callback finishes the OAuth flow. The state must match the cookie set by
// Login; the code is exchanged for a token which is folded into the
// visitor's session cookie. The starred set is refreshed immediately so the
// grid reflects the authoritative server state after login.
func (h *Handler) Callback(c *gin.Context) {
	state, err := c.Cookie(stateCookieName)
	if err != nil || state == "" || c.Query("state") != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state mismatch"})
		return
	}
	c.SetCookie(stateCookieName, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}

	token, err := h.oauth.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		log.Error().Err(err).Msg("exchanging OAuth code failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "exchanging code failed"})
		return
	}

	sid := sessionID(c)
	value, err := h.signer.Issue(sid, token)
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	setSessionCookie(c, value)

	sess := h.sessions.Get(sid)
	if err := sess.Stars.RefreshStars(c.Request.Context(), token); err != nil {
		log.Warn().Err(err).Msg("refreshing stars after login failed")
	}

	c.Redirect(http.StatusFound, h.baseURL)
}
