// Package server exposes the portfolio backend over HTTP: the aggregated
// repository list, the star endpoints, the GitHub OAuth flow, icon
// resolution, the per-session UI state, and the database health check.
package server

import (
	"gitfolio/internal/db"
	"gitfolio/internal/github"
	"gitfolio/internal/icons"
	"gitfolio/internal/repos"
	"gitfolio/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	catalog  *repos.Store
	sessions *session.Registry
	oauth    *github.OAuthClient
	icons    *icons.Resolver
	database *db.Database
	signer   *CookieSigner
	baseURL  string
}

func NewHandler(
	catalog *repos.Store,
	sessions *session.Registry,
	oauth *github.OAuthClient,
	iconResolver *icons.Resolver,
	database *db.Database,
	signer *CookieSigner,
	baseURL string,
) *Handler {
	return &Handler{
		catalog:  catalog,
		sessions: sessions,
		oauth:    oauth,
		icons:    iconResolver,
		database: database,
		signer:   signer,
		baseURL:  baseURL,
	}
}

func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{h.baseURL}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	router.Use(WithSession(h.signer))

	api := router.Group("/api")
	{
		gh := api.Group("/github")
		{
			gh.GET("/repos", h.Repos)
			gh.GET("/starred-list", h.StarredList)
			gh.POST("/star", h.Star)
			gh.POST("/unstar", h.Unstar)
			gh.GET("/login", h.Login)
			gh.GET("/callback", h.Callback)
		}

		api.GET("/repos/visible", h.VisibleRepos)
		api.GET("/repos/languages", h.RepoLanguages)

		api.GET("/auth/me", h.Me)

		ui := api.Group("/ui")
		{
			ui.POST("/hover", h.Hover)
			ui.POST("/leave", h.Leave)
			ui.POST("/enlarge", h.Enlarge)
			ui.POST("/close", h.CloseLarger)
			ui.POST("/scroll", h.Scroll)
			ui.GET("/state", h.UIState)
		}

		api.GET("/icons/:lang", h.Icon)
		api.GET("/sql/ping", h.SQLPing)
	}

	return router
}
