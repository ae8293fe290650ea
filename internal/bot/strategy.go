package bot

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/freeeve/cyborg-conquest/internal/config"
	"github.com/freeeve/cyborg-conquest/pkg/conquest"
)

// Strategy decides one tick's orders. Implementations append orders through
// the Turn and never touch garrisons directly.
type Strategy interface {
	Name() string
	Decide(t *Turn)
}

// Turn is the scratch context of one decision pass. Budget holds each
// factory's uncommitted garrison and is rebuilt from the snapshot for
// every tick.
type Turn struct {
	State    *conquest.GameState
	Budget   []int
	Deadline time.Time
	Tuning   config.Tuning
	Log      zerolog.Logger

	issued int
}

// NewTurn starts a decision pass over gs. A zero deadline never expires.
func NewTurn(gs *conquest.GameState, tuning config.Tuning, deadline time.Time, log zerolog.Logger) *Turn {
	budget := make([]int, len(gs.Factories))
	for i, f := range gs.Factories {
		budget[i] = max(f.Garrison, 0)
	}
	return &Turn{
		State:    gs,
		Budget:   budget,
		Deadline: deadline,
		Tuning:   tuning,
		Log:      log,
	}
}

// Issued returns the number of orders queued so far in this pass.
func (t *Turn) Issued() int { return t.issued }

// Expired reports whether the per-tick time budget is spent.
func (t *Turn) Expired() bool {
	return !t.Deadline.IsZero() && time.Now().After(t.Deadline)
}

// Send queues a MOVE and debits n from the source's budget.
func (t *Turn) Send(src, dst, n int) bool {
	if !t.queue(conquest.Move(src, dst, n)) {
		return false
	}
	t.Budget[src] -= n
	return true
}

// Upgrade queues an INC and debits its cost from the factory's budget.
func (t *Turn) Upgrade(id int) bool {
	if !t.queue(conquest.Upgrade(id)) {
		return false
	}
	t.Budget[id] -= t.Tuning.UpgradeCost
	return true
}

// Bomb queues a BOMB and spends one charge.
func (t *Turn) Bomb(src, dst int) bool {
	if !t.queue(conquest.Bomb(src, dst)) {
		return false
	}
	t.State.BombsLeft--
	t.State.LastBombed = dst
	return true
}

func (t *Turn) queue(o conquest.Order) bool {
	if err := t.State.Queue(o); err != nil {
		t.Log.Warn().Err(err).Msg("Dropping order")
		return false
	}
	t.issued++
	t.Log.Debug().Str("order", o.Describe()).Msg("Order queued")
	return true
}

// StrategyByName returns the named strategy. "defend" is the full policy
// chain; the others run alone without bombs.
func StrategyByName(name string, tuning config.Tuning, seed int64) (Strategy, error) {
	switch name {
	case "", "defend":
		gates, err := compileGates(tuning)
		if err != nil {
			return nil, err
		}
		return NewPolicy(gates), nil
	case "max":
		return MaxStrategy{}, nil
	case "swarm":
		return SwarmStrategy{}, nil
	case "neutral_first":
		return NeutralFirstStrategy{}, nil
	case "random":
		return NewRandomStrategy(seed), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// StrategyNames lists the names accepted by StrategyByName.
func StrategyNames() []string {
	return []string{"defend", "max", "swarm", "neutral_first", "random"}
}

// MaxStrategy commits the largest uncommitted garrison to the nearest
// productive factory the player does not own.
type MaxStrategy struct{}

func (MaxStrategy) Name() string { return "max" }

func (MaxStrategy) Decide(t *Turn) { maxStep(t) }

func maxStep(t *Turn) int {
	src := -1
	for _, f := range t.State.Factories {
		if !f.Owner.IsPlayer() {
			continue
		}
		if src < 0 || t.Budget[f.ID] > t.Budget[src] {
			src = f.ID
		}
	}
	if src < 0 || t.Budget[src] <= 0 {
		return 0
	}
	for _, nb := range t.State.Graph.Neighbors(src) {
		target := t.State.Factories[nb.ID]
		if target.Owner.IsPlayer() || target.Production <= 0 {
			continue
		}
		n := t.Budget[src]
		if t.Send(src, nb.ID, n) {
			t.Log.Debug().Int("src", src).Int("dst", nb.ID).Int("size", n).Msg("max: all in")
			return 1
		}
		return 0
	}
	return 0
}

// SwarmStrategy sends single cyborgs from every large garrison to every
// factory the player does not own.
type SwarmStrategy struct{}

func (SwarmStrategy) Name() string { return "swarm" }

func (SwarmStrategy) Decide(t *Turn) {
	count := t.State.Graph.FactoryCount()
	for _, src := range t.State.Factories {
		if !src.Owner.IsPlayer() || src.Garrison <= count {
			continue
		}
		for _, dst := range t.State.Factories {
			if dst.Owner.IsPlayer() {
				continue
			}
			t.Send(src.ID, dst.ID, 1)
		}
	}
}

// NeutralFirstStrategy takes cheap uncontested neutrals and falls back to
// MaxStrategy when there are none.
type NeutralFirstStrategy struct{}

func (NeutralFirstStrategy) Name() string { return "neutral_first" }

func (NeutralFirstStrategy) Decide(t *Turn) { neutralFirstStep(t) }

func neutralFirstStep(t *Turn) int {
	if n := captureNeutrals(t); n > 0 {
		return n
	}
	return maxStep(t)
}

func captureNeutrals(t *Turn) int {
	gs := t.State
	issued := 0
	for _, src := range gs.Factories {
		if !src.Owner.IsPlayer() {
			continue
		}
		for _, nb := range gs.Graph.Neighbors(src.ID) {
			target := gs.Factories[nb.ID]
			if !target.Owner.IsNeutral() || target.Production <= 0 || target.Garrison < 0 {
				continue
			}
			if target.Garrison >= t.Budget[src.ID] || contested(gs, target.ID, src.ID) {
				continue
			}
			if t.Send(src.ID, target.ID, target.Garrison+1) {
				issued++
			}
		}
	}
	return issued
}

// contested reports whether an enemy factory comes before src in target's
// neighbor order.
func contested(gs *conquest.GameState, target, src int) bool {
	for _, nb := range gs.Graph.Neighbors(target) {
		if nb.ID == src {
			return false
		}
		if gs.Factories[nb.ID].Owner.IsEnemy() {
			return true
		}
	}
	return false
}
