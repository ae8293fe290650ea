package bot

import (
	"errors"
	"time"

	"github.com/freeeve/cyborg-conquest/pkg/conquest"
)

// errDeadline signals that the per-tick time budget ran out mid-search.
var errDeadline = errors.New("lookahead deadline exceeded")

// Capture is the predicted loss of a factory.
type Capture struct {
	Factory  int
	Ticks    int // ticks until the factory flips
	Garrison int // enemy garrison right after the flip
}

// Lookahead simulates the current state forward on a reusable scratch copy.
type Lookahead struct {
	scratch conquest.GameState
}

// PredictCapture steps a copy of gs until factory id changes hands to the
// enemy or horizon ticks pass. The deadline is checked before every step;
// a zero deadline never expires.
func (la *Lookahead) PredictCapture(gs *conquest.GameState, id, horizon int, deadline time.Time) (Capture, bool, error) {
	gs.CloneInto(&la.scratch)
	sim := &la.scratch
	for t := 1; t <= horizon; t++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return Capture{}, false, errDeadline
		}
		conquest.Step(sim)
		if f := sim.Factories[id]; f.Owner.IsEnemy() {
			return Capture{Factory: id, Ticks: t, Garrison: f.Garrison}, true, nil
		}
	}
	return Capture{}, false, nil
}

// Reinforcement estimates how many cyborgs must arrive to hold a factory
// that would otherwise fall as predicted.
func Reinforcement(c Capture, production, floor int) int {
	return max(floor, c.Garrison-c.Ticks*production)
}
