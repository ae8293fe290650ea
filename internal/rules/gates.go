// Package rules compiles the optional per-step conditions that let a tuning
// file switch policy steps on and off without a rebuild.
package rules

import (
	"fmt"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog"

	"github.com/freeeve/cyborg-conquest/pkg/conquest"
)

// Policy steps that accept a gate.
const (
	StepDefend       = "defend"
	StepNeutralFirst = "neutral_first"
	StepMax          = "max"
	StepBomb         = "bomb"
)

var knownSteps = map[string]bool{
	StepDefend:       true,
	StepNeutralFirst: true,
	StepMax:          true,
	StepBomb:         true,
}

// Env is the variable set a gate condition can reference, e.g.
// `Tick > 5 && EnemyFactories < MyFactories`.
type Env struct {
	Tick             int
	BombsLeft        int
	MyFactories      int
	EnemyFactories   int
	NeutralFactories int
	MyCyborgs        int
	EnemyCyborgs     int
	IncomingEnemy    int // enemy troops headed to player factories
	Score            int
}

// NewEnv summarizes gs for gate evaluation. score is the evaluator's value
// for the same state.
func NewEnv(gs *conquest.GameState, score int) Env {
	env := Env{
		Tick:             gs.Tick,
		BombsLeft:        gs.BombsLeft,
		MyFactories:      gs.FactoryCount(conquest.Player),
		EnemyFactories:   gs.FactoryCount(conquest.Enemy),
		NeutralFactories: gs.FactoryCount(conquest.Neutral),
		MyCyborgs:        gs.CyborgCount(conquest.Player),
		EnemyCyborgs:     gs.CyborgCount(conquest.Enemy),
		Score:            score,
	}
	for _, t := range gs.Troops {
		if t.Owner.IsEnemy() && gs.Factories[t.Destination].Owner.IsPlayer() {
			env.IncomingEnemy += t.Size
		}
	}
	return env
}

// Gate is one compiled step condition.
type Gate struct {
	Step         string
	ConditionSrc string
	program      *vm.Program
}

// Gates holds the compiled conditions keyed by step. The zero value and a
// nil *Gates allow every step.
type Gates struct {
	byStep map[string]*Gate
}

// Compile builds gates from step → expr source. Unknown step names and
// conditions that do not type-check as bool are errors.
func Compile(src map[string]string) (*Gates, error) {
	g := &Gates{byStep: make(map[string]*Gate, len(src))}
	for step, cond := range src {
		if !knownSteps[step] {
			return nil, fmt.Errorf("gate %q: unknown step", step)
		}
		prog, err := expr.Compile(cond, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile gate %q: %w", step, err)
		}
		g.byStep[step] = &Gate{Step: step, ConditionSrc: cond, program: prog}
	}
	return g, nil
}

// Allow reports whether step may run under env. A step without a gate is
// allowed; a gate that fails at run time blocks its step.
func (g *Gates) Allow(step string, env Env, log zerolog.Logger) bool {
	if g == nil {
		return true
	}
	gate, ok := g.byStep[step]
	if !ok {
		return true
	}
	out, err := vm.Run(gate.program, env)
	if err != nil {
		log.Warn().Err(err).Str("step", step).Msg("gate evaluation failed")
		return false
	}
	allowed, _ := out.(bool)
	if !allowed {
		log.Debug().Str("step", step).Str("cond", gate.ConditionSrc).Msg("step gated off")
	}
	return allowed
}

// Steps lists the gated steps in name order.
func (g *Gates) Steps() []string {
	if g == nil {
		return nil
	}
	steps := make([]string, 0, len(g.byStep))
	for s := range g.byStep {
		steps = append(steps, s)
	}
	sort.Strings(steps)
	return steps
}
