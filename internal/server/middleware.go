package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	ctxSessionID = "sessionID"
	ctxToken     = "githubToken"
)

// WithSession resolves the signed session cookie, minting an anonymous
// session for first-time visitors. Every request downstream can rely on a
// session id; the GitHub token is present only after login.
func WithSession(signer *CookieSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sid, token string

		if raw, err := c.Cookie(SessionCookieName); err == nil {
			sid, token, err = signer.Parse(raw)
			if err != nil {
				log.Debug().Err(err).Msg("invalid session cookie, reissuing")
				sid, token = "", ""
			}
		}

		if sid == "" {
			sid = uuid.NewString()
			value, err := signer.Issue(sid, "")
			if err != nil {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			setSessionCookie(c, value)
		}

		c.Set(ctxSessionID, sid)
		c.Set(ctxToken, token)
		c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msgf("%s %s", c.Request.Method, c.Request.URL.Path)
	}
}

func setSessionCookie(c *gin.Context, value string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, value, int(sessionTTL.Seconds()), "/", "", false, true)
}

func sessionID(c *gin.Context) string {
	return c.GetString(ctxSessionID)
}

func githubToken(c *gin.Context) string {
	return c.GetString(ctxToken)
}
