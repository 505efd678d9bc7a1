package server

import (
	"net/http"

	"gitfolio/internal/geometry"

	"github.com/gin-gonic/gin"
)

// defaultRemPx is the root font size assumed when the client does not
// report one.
const defaultRemPx = 16

type popupRequest struct {
	Repo      string        `json:"repo" binding:"required"`
	Card      geometry.Rect `json:"card"`
	Container geometry.Rect `json:"container"`
	RemPx     float64       `json:"remPx"`
}

func (r *popupRequest) remPx() float64 {
	if r.RemPx <= 0 {
		return defaultRemPx
	}
	return r.RemPx
}

// Hover records the hovered card and the clamped positions for its hover
// popup and overlay. Hovering is a no-op while the grid scrolls or the
// enlarged view is open.
func (h *Handler) Hover(c *gin.Context) {
	var req popupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "repo is required"})
		return
	}

	repo, ok := h.catalog.Find(req.Repo)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown repository"})
		return
	}

	sess := h.visitorSession(c)
	hoverPos := geometry.Compute(req.Card, req.Container, geometry.ModeHover, req.remPx())
	overlayPos := geometry.Compute(req.Card, req.Container, geometry.ModeOverlay, req.remPx())
	sess.UI.Hover(repo, hoverPos, overlayPos)

	c.JSON(http.StatusOK, sess.UI.Snapshot())
}

func (h *Handler) Leave(c *gin.Context) {
	sess := h.visitorSession(c)
	sess.UI.Leave()
	c.JSON(http.StatusOK, sess.UI.Snapshot())
}

// Enlarge opens the enlarged card view, replacing any hover state.
func (h *Handler) Enlarge(c *gin.Context) {
	var req popupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "repo is required"})
		return
	}

	repo, ok := h.catalog.Find(req.Repo)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown repository"})
		return
	}

	sess := h.visitorSession(c)
	pos := geometry.Compute(req.Card, req.Container, geometry.ModeEnlarged, req.remPx())
	sess.UI.Enlarge(repo, pos)

	c.JSON(http.StatusOK, sess.UI.Snapshot())
}

func (h *Handler) CloseLarger(c *gin.Context) {
	sess := h.visitorSession(c)
	sess.UI.CloseLarger()
	c.JSON(http.StatusOK, sess.UI.Snapshot())
}

// Scroll marks the grid as scrolling, which clears hover state and holds
// popups back until scrolling has been quiet for a beat.
func (h *Handler) Scroll(c *gin.Context) {
	sess := h.visitorSession(c)
	sess.UI.ScrollStart()
	c.JSON(http.StatusOK, sess.UI.Snapshot())
}

func (h *Handler) UIState(c *gin.Context) {
	sess := h.visitorSession(c)
	c.JSON(http.StatusOK, sess.UI.Snapshot())
}
