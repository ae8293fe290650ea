package bot

import (
	"github.com/freeeve/cyborg-conquest/internal/config"
	"github.com/freeeve/cyborg-conquest/internal/rules"
	"github.com/freeeve/cyborg-conquest/pkg/conquest"
)

// Policy is the default agent: defend, then neutral_first, then max, each
// only while nothing has been ordered yet, followed by a bomb check. Each
// step can be switched off by a gate.
type Policy struct {
	gates     *rules.Gates
	lookahead Lookahead
}

// NewPolicy returns the default policy. gates may be nil.
func NewPolicy(gates *rules.Gates) *Policy {
	return &Policy{gates: gates}
}

func (p *Policy) Name() string { return "defend" }

func (p *Policy) Decide(t *Turn) {
	env := rules.NewEnv(t.State, Evaluate(t.State))
	t.Log.Debug().Int("score", env.Score).Int("incoming", env.IncomingEnemy).Msg("Deciding")

	issued := 0
	if p.gates.Allow(rules.StepDefend, env, t.Log) {
		n, err := defendStep(t, &p.lookahead)
		issued += n
		if err != nil {
			t.Log.Warn().Err(err).Int("orders", issued).Msg("Lookahead abandoned, falling back to max")
			if p.gates.Allow(rules.StepMax, env, t.Log) {
				issued += maxStep(t)
			}
			p.bomb(t, env)
			return
		}
	}
	if issued == 0 && p.gates.Allow(rules.StepNeutralFirst, env, t.Log) {
		issued += captureNeutrals(t)
	}
	if issued == 0 && p.gates.Allow(rules.StepMax, env, t.Log) {
		maxStep(t)
	}
	p.bomb(t, env)
}

func (p *Policy) bomb(t *Turn, env rules.Env) {
	if p.gates.Allow(rules.StepBomb, env, t.Log) {
		bombStep(t)
	}
}

// defendStep reserves garrison against incoming enemy troops, buys
// upgrades with clear surplus, and reinforces factories the lookahead
// predicts will fall. It returns the number of orders issued and
// errDeadline if the time budget ran out.
func defendStep(t *Turn, la *Lookahead) (int, error) {
	gs := t.State
	issued := 0

	for _, f := range gs.Factories {
		if !f.Owner.IsPlayer() {
			continue
		}
		threat := gs.IncomingTroops(f.ID, conquest.Enemy)
		if threat >= f.Garrison {
			t.Budget[f.ID] = 0
			continue
		}
		t.Budget[f.ID] -= threat
		if t.Budget[f.ID] > t.Tuning.UpgradeSlack && f.Production < t.Tuning.MaxProduction {
			if t.Upgrade(f.ID) {
				issued++
			}
		}
	}

	for _, f := range gs.Factories {
		if !f.Owner.IsPlayer() || f.Production <= 0 {
			continue
		}
		c, captured, err := la.PredictCapture(gs, f.ID, t.Tuning.Horizon, t.Deadline)
		if err != nil {
			return issued, err
		}
		if !captured {
			continue
		}
		need := Reinforcement(c, f.Production, t.Tuning.ReinforcementFloor)
		t.Log.Debug().Int("factory", f.ID).Int("ticks", c.Ticks).Int("need", need).Msg("defend: capture predicted")
		for _, nb := range gs.Graph.Neighbors(f.ID) {
			if nb.Distance > c.Ticks {
				break
			}
			if !gs.Factories[nb.ID].Owner.IsPlayer() || t.Budget[nb.ID] < need {
				continue
			}
			if t.Send(nb.ID, f.ID, need) {
				issued++
			}
			break
		}
	}
	return issued, nil
}

func compileGates(tuning config.Tuning) (*rules.Gates, error) {
	if len(tuning.Gates) == 0 {
		return nil, nil
	}
	return rules.Compile(tuning.Gates)
}
