// Package geometry computes floating popup placement for the card grid.
// It is pure: callers measure the DOM and pass rectangles in, nothing here
// touches a UI framework.
package geometry

const (
	// Vertical clamp margins inside the scroll container.
	topMargin    = 10
	bottomMargin = 20

	// Horizontal offset that visually centers a popup over its source card.
	leftOffset = 15
	topOffset  = 0

	// Padding added around a card for the message overlay.
	overlayPadding = 35

	// Enlarged detail view size in rem; the pixel size follows the root
	// font size, which shifts with viewport breakpoints.
	enlargedWidthRem  = 36
	enlargedHeightRem = 28

	hoverScale = 1.1
)

const (
	// ModeHover previews the card at its own size, slightly scaled up.
	ModeHover Mode = iota
	// ModeOverlay frames a transient message panel around the card.
	ModeOverlay
	// ModeEnlarged is the click-to-open detail view with a fixed rem size.
	ModeEnlarged
)

type Mode int

// Rect is an axis-aligned rectangle in viewport coordinates, matching what
// getBoundingClientRect reports.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Position is the computed placement of a popup: a rectangle plus the scale
// applied about its own center.
type Position struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale"`
}

// Compute places a popup for the given card inside the scroll container.
// The popup starts at the card's corner minus a small offset and is clamped
// vertically so it stays inside the container's visible region. There is no
// horizontal clamping; the grid only scrolls vertically.
//
// remPx is the computed root font size in pixels, used by the enlarged mode.
func Compute(card, container Rect, mode Mode, remPx float64) Position {
	width, height, scale := card.Width, card.Height, hoverScale

	switch mode {
	case ModeOverlay:
		width += overlayPadding
		height += overlayPadding
		scale = 1
	case ModeEnlarged:
		width = enlargedWidthRem * remPx
		height = enlargedHeightRem * remPx
		scale = 1
	}

	top := card.Top - topOffset
	left := card.Left - leftOffset

	minTop := container.Top + topMargin
	if top < minTop {
		top = minTop
	}

	maxBottom := container.Bottom() - bottomMargin
	if top+height > maxBottom {
		top = maxBottom - height
	}

	return Position{
		Top:    top,
		Left:   left,
		Width:  width,
		Height: height,
		Scale:  scale,
	}
}
