// Package ui coordinates the transient card-grid state for one visitor
// session: which card is hovered, which is opened large, the transient
// message overlay, and the scrolling flag that suppresses popups while the
// grid is moving.
package ui

import (
	"sync"
	"time"

	"gitfolio/internal/geometry"
	"gitfolio/internal/loader"
)

// scrollQuietPeriod is how long after the last scroll event the grid counts
// as still scrolling.
const scrollQuietPeriod = 150 * time.Millisecond

// Message is a transient panel anchored to one repository card. At most one
// is live at a time.
type Message struct {
	RepoName string `json:"repoName"`
	Content  string `json:"content"`
}

type Snapshot struct {
	HoveredRepo *loader.Repo      `json:"hoveredRepo"`
	LargerRepo  *loader.Repo      `json:"largerRepo"`
	Message     *Message          `json:"message"`
	Scrolling   bool              `json:"scrolling"`
	HoverPos    geometry.Position `json:"hoverPos"`
	OverlayPos  geometry.Position `json:"overlayPos"`
}

type Store struct {
	mu sync.Mutex

	hovered    *loader.Repo
	larger     *loader.Repo
	message    *Message
	scrolling  bool
	hoverPos   geometry.Position
	overlayPos geometry.Position

	scrollTimer  *time.Timer
	scrollSeq    uint64
	dismissTimer *time.Timer
}

func NewStore() *Store {
	return &Store{}
}

// Hover marks repo as hovered and records the popup positions computed for
// it. Hovering is ignored while the grid scrolls or the enlarged view is
// open.
func (s *Store) Hover(repo loader.Repo, hoverPos, overlayPos geometry.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scrolling || s.larger != nil {
		return
	}

	s.hovered = &repo
	s.hoverPos = hoverPos
	s.overlayPos = overlayPos
}

// Leave clears the hovered card and any message owned by it.
func (s *Store) Leave() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hovered = nil
	s.clearMessageLocked()
}

// Enlarge opens the detail view for repo. Hover and enlarged are mutually
// exclusive: the hovered card is always cleared first.
func (s *Store) Enlarge(repo loader.Repo, pos geometry.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hovered = nil
	s.larger = &repo
	s.overlayPos = pos
}

// CloseLarger closes the detail view.
func (s *Store) CloseLarger() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.larger = nil
	s.clearMessageLocked()
}

// SetMessage shows a transient panel for one card, replacing any live one.
func (s *Store) SetMessage(repoName, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setMessageLocked(repoName, content)
}

// SetMessageFor shows a message that dismisses itself after d, unless it was
// replaced or cleared in the meantime.
func (s *Store) SetMessageFor(repoName, content string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setMessageLocked(repoName, content)

	msg := s.message
	s.dismissTimer = time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.message == msg {
			s.message = nil
		}
	})
}

func (s *Store) ClearMessage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearMessageLocked()
}

// ScrollStart flags the grid as scrolling, clears hover state, and arms the
// quiet-period timer. Each scroll event pushes the reset further out.
func (s *Store) ScrollStart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scrolling = true
	s.hovered = nil
	s.clearMessageLocked()
	s.armScrollTimerLocked()
}

// armScrollTimerLocked replaces the quiet-period timer. The sequence number
// lets a callback that already fired, but lost the lock race against a newer
// scroll event, recognize it is stale and leave the flag alone.
func (s *Store) armScrollTimerLocked() {
	if s.scrollTimer != nil {
		s.scrollTimer.Stop()
	}

	s.scrollSeq++
	seq := s.scrollSeq
	s.scrollTimer = time.AfterFunc(scrollQuietPeriod, func() {
		s.mu.Lock()
		if seq == s.scrollSeq {
			s.scrolling = false
		}
		s.mu.Unlock()
	})
}

func (s *Store) Scrolling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrolling
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		HoveredRepo: s.hovered,
		LargerRepo:  s.larger,
		Message:     s.message,
		Scrolling:   s.scrolling,
		HoverPos:    s.hoverPos,
		OverlayPos:  s.overlayPos,
	}
}

// Stop releases the store's timers.
func (s *Store) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scrollTimer != nil {
		s.scrollTimer.Stop()
	}
	if s.dismissTimer != nil {
		s.dismissTimer.Stop()
	}
}

func (s *Store) setMessageLocked(repoName, content string) {
	if s.dismissTimer != nil {
		s.dismissTimer.Stop()
		s.dismissTimer = nil
	}
	s.message = &Message{RepoName: repoName, Content: content}
}

func (s *Store) clearMessageLocked() {
	if s.dismissTimer != nil {
		s.dismissTimer.Stop()
		s.dismissTimer = nil
	}
	s.message = nil
}
