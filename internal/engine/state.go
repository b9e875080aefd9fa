package engine

import (
	"time"

	"github.com/tartampluch/world-clocks/internal/config"
)

// Mode tells which reference instant the clocks follow.
type Mode int

const (
	// ModeLive follows the clock, sampled at every refresh.
	ModeLive Mode = iota
	// ModePinned follows the single instant chosen by the user.
	ModePinned
)

func (m Mode) String() string {
	if m == ModePinned {
		return config.ModePinned
	}
	return config.ModeLive
}

// State is the application state passed through every refresh: the active
// reference policy and the latest hand angles per city index.
// It is not safe for concurrent use; Refresher serialises access.
type State struct {
	mode   Mode
	pinned time.Time
	hands  map[int]HandAngles
}

// NewState returns a State in live mode with no hands computed yet.
func NewState() *State {
	return &State{hands: make(map[int]HandAngles)}
}

// Mode returns the active reference policy.
func (s *State) Mode() Mode {
	return s.mode
}

// Pin replaces any pinned instant with t.
func (s *State) Pin(t time.Time) {
	s.mode = ModePinned
	s.pinned = t
}

// Clear drops the pinned instant and returns to live mode.
func (s *State) Clear() {
	s.mode = ModeLive
	s.pinned = time.Time{}
}

// Pinned returns the pinned instant, if any.
func (s *State) Pinned() (time.Time, bool) {
	return s.pinned, s.mode == ModePinned
}

// Reference returns the instant every clock is evaluated against: the pinned
// instant when one is active, now otherwise.
func (s *State) Reference(now time.Time) time.Time {
	if s.mode == ModePinned {
		return s.pinned
	}
	return now
}

// Hands returns the latest angles for the city at index.
func (s *State) Hands(index int) (HandAngles, bool) {
	h, ok := s.hands[index]
	return h, ok
}

func (s *State) setHands(index int, h HandAngles) {
	s.hands[index] = h
}
