// Package grabcut is the orchestration entry point: Segment drives mask
// initialization, GMM seeding, and the iterative assign/relearn/build/cut/
// update loop over the internal/* components.
package grabcut

import (
	"grabcut-engine/internal/gmm"
	"grabcut-engine/internal/logger"
)

// Logger is the structured logging surface Segment reports through. It is
// an alias for internal/logger.Logger so callers can pass a
// logger.NewZerolog(...) or logger.NewConsoleLogger(...) adapter directly.
type Logger = logger.Logger

// Mode selects how Segment initializes state on this call.
type Mode int

const (
	// InitWithRect builds a fresh mask from rect and seeds both GMMs from
	// it before iterating.
	InitWithRect Mode = iota
	// InitWithMask validates the caller-supplied mask and seeds both GMMs
	// from it before iterating.
	InitWithMask
	// Eval skips mask initialization and GMM seeding entirely, reusing the
	// mask and State from a previous call.
	Eval
)

// State carries the two persistent GMMs across Segment calls, so a caller
// can refine a segmentation over several invocations without re-seeding.
// Logger is optional; a nil Logger discards every event.
type State struct {
	Background *gmm.Model
	Foreground *gmm.Model
	Logger     Logger
}

// NewState returns a State with two freshly zeroed, unseeded GMMs.
func NewState() (*State, error) {
	bg, err := gmm.New(nil)
	if err != nil {
		return nil, err
	}
	fg, err := gmm.New(nil)
	if err != nil {
		return nil, err
	}
	return &State{Background: bg, Foreground: fg}, nil
}

func (s *State) logger() Logger {
	if s == nil || s.Logger == nil {
		return logger.NewNoop()
	}
	return s.Logger
}
