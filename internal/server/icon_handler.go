package server

import (
	"net/http"

	"gitfolio/internal/icons"

	"github.com/gin-gonic/gin"
)

// Icon resolves a language name to an icon URL, probing the CDN chain on
// the first request and answering from cache afterwards. A language without
// any icon answers with a null url; the client renders the language text
// instead.
func (h *Handler) Icon(c *gin.Context) {
	lang := c.Param("lang")

	resp := gin.H{
		"language": lang,
		"slug":     icons.Slug(lang),
		"url":      nil,
	}
	if url, ok := h.icons.Resolve(c.Request.Context(), lang); ok {
		resp["url"] = url
	}

	c.JSON(http.StatusOK, resp)
}
