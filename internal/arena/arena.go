// Package arena referees games between two strategies on generated maps.
package arena

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/cyborg-conquest/internal/bot"
	"github.com/freeeve/cyborg-conquest/internal/config"
	"github.com/freeeve/cyborg-conquest/pkg/conquest"
	"github.com/freeeve/cyborg-conquest/pkg/protocol"
)

// Referee constants for the rules the simulation engine does not model.
const (
	UpgradeCost    = 10
	MaxProduction  = 3
	MinBombDamage  = 10
	DefaultTicks   = 200
	DefaultMapSize = 11
)

// Config configures a single strategy-vs-strategy game.
type Config struct {
	Player     string // strategy name for the player side
	Enemy      string // strategy name for the enemy side
	Factories  int    // odd factory count; 0 = DefaultMapSize
	MaxTicks   int    // 0 = DefaultTicks
	Seed       int64  // map seed; also seeds random strategies
	TurnBudget time.Duration
	Tuning     config.Tuning
}

// Result describes the outcome of a completed game.
type Result struct {
	Seed            int64  `json:"seed"`
	Winner          string `json:"winner"` // "player", "enemy" or "" for a draw
	Ticks           int    `json:"ticks"`
	PlayerFactories int    `json:"playerFactories"`
	EnemyFactories  int    `json:"enemyFactories"`
	PlayerCyborgs   int    `json:"playerCyborgs"`
	EnemyCyborgs    int    `json:"enemyCyborgs"`
	Score           int    `json:"score"` // evaluator score from the player's side
}

type side struct {
	owner      conquest.Owner
	strategy   bot.Strategy
	bombsLeft  int
	lastBombed int
	bombsUsed  int
}

type bomb struct {
	owner  conquest.Owner
	target int
	ticks  int
}

// Referee owns the authoritative world of one game.
type Referee struct {
	world *conquest.GameState
	sides [2]*side
	bombs []bomb
	cfg   Config
}

// NewReferee generates the map and the two sides.
func NewReferee(cfg Config) (*Referee, error) {
	if cfg.Factories == 0 {
		cfg.Factories = DefaultMapSize
	}
	if cfg.MaxTicks == 0 {
		cfg.MaxTicks = DefaultTicks
	}
	world, err := NewMap(cfg.Seed, cfg.Factories)
	if err != nil {
		return nil, err
	}
	r := &Referee{world: world, cfg: cfg}
	for i, p := range []struct {
		owner conquest.Owner
		name  string
	}{{conquest.Player, cfg.Player}, {conquest.Enemy, cfg.Enemy}} {
		s, err := bot.StrategyByName(p.name, cfg.Tuning, cfg.Seed*2+int64(i)+1)
		if err != nil {
			return nil, fmt.Errorf("%s strategy: %w", p.owner, err)
		}
		r.sides[i] = &side{
			owner:      p.owner,
			strategy:   s,
			bombsLeft:  cfg.Tuning.InitialBombs,
			lastBombed: conquest.NoFactory,
		}
	}
	return r, nil
}

// World returns the authoritative state.
func (r *Referee) World() *conquest.GameState { return r.world }

// Run plays until one side is eliminated or the tick limit is reached.
func (r *Referee) Run(ctx context.Context) (*Result, error) {
	for r.world.Tick < r.cfg.MaxTicks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.PlayTick(); err != nil {
			return nil, fmt.Errorf("tick %d: %w", r.world.Tick, err)
		}
		if !r.world.IsAlive(conquest.Player) || !r.world.IsAlive(conquest.Enemy) {
			break
		}
	}
	return r.result(), nil
}

// PlayTick collects both sides' orders, applies them and advances the world.
func (r *Referee) PlayTick() error {
	orders := make([][]conquest.Order, len(r.sides))
	for i, s := range r.sides {
		o, err := r.decide(s)
		if err != nil {
			return fmt.Errorf("%s: %w", s.owner, err)
		}
		orders[i] = o
	}

	r.detonate()
	for i, s := range r.sides {
		r.apply(s, orders[i])
	}
	conquest.Step(r.world)
	return nil
}

// decide shows a side its own view of the world and returns its orders as
// they would arrive over the wire.
func (r *Referee) decide(s *side) ([]conquest.Order, error) {
	view := r.world.Clone()
	if s.owner.IsEnemy() {
		view = r.world.Mirror()
	}
	view.BombsLeft = s.bombsLeft
	view.LastBombed = s.lastBombed

	var deadline time.Time
	if r.cfg.TurnBudget > 0 {
		deadline = time.Now().Add(r.cfg.TurnBudget)
	}
	l := log.With().Str("side", s.owner.String()).Int("tick", r.world.Tick).Logger()
	s.strategy.Decide(bot.NewTurn(view, r.cfg.Tuning, deadline, l))
	s.bombsLeft = view.BombsLeft
	s.lastBombed = view.LastBombed

	return protocol.ParseOrders(protocol.FormatOrders(view.Orders()))
}

// apply validates a side's orders against the world. Orders for factories
// the side does not own are dropped.
func (r *Referee) apply(s *side, orders []conquest.Order) {
	w := r.world
	for _, o := range orders {
		if o.Type == conquest.OrderMessage {
			continue
		}
		if err := conquest.ValidateOrder(o, w.Graph); err != nil {
			log.Debug().Err(err).Str("side", s.owner.String()).Msg("Dropping invalid order")
			continue
		}
		src := w.Factory(o.Source)
		if src.Owner != s.owner {
			continue
		}
		switch o.Type {
		case conquest.OrderMove:
			w.Pending = append(w.Pending, o)
		case conquest.OrderUpgrade:
			if src.Production < MaxProduction && src.Garrison >= UpgradeCost {
				src.Garrison -= UpgradeCost
				src.Production++
			}
		case conquest.OrderBomb:
			if s.bombsUsed >= r.cfg.Tuning.InitialBombs {
				continue
			}
			s.bombsUsed++
			r.bombs = append(r.bombs, bomb{owner: s.owner, target: o.Target, ticks: w.Graph.Distance(o.Source, o.Target)})
		}
	}
}

// detonate moves bombs one tick closer and resolves those that land.
func (r *Referee) detonate() {
	kept := r.bombs[:0]
	for _, b := range r.bombs {
		b.ticks--
		if b.ticks > 0 {
			kept = append(kept, b)
			continue
		}
		f := r.world.Factory(b.target)
		damage := min(f.Garrison, max(MinBombDamage, f.Garrison/2))
		f.Garrison -= damage
		log.Debug().Str("side", b.owner.String()).Int("target", b.target).Int("destroyed", damage).Msg("Bomb landed")
	}
	r.bombs = kept
}

func (r *Referee) result() *Result {
	w := r.world
	res := &Result{
		Seed:            r.cfg.Seed,
		Ticks:           w.Tick,
		PlayerFactories: w.FactoryCount(conquest.Player),
		EnemyFactories:  w.FactoryCount(conquest.Enemy),
		PlayerCyborgs:   w.CyborgCount(conquest.Player),
		EnemyCyborgs:    w.CyborgCount(conquest.Enemy),
		Score:           bot.Evaluate(w),
	}
	playerAlive, enemyAlive := w.IsAlive(conquest.Player), w.IsAlive(conquest.Enemy)
	switch {
	case playerAlive && !enemyAlive:
		res.Winner = "player"
	case enemyAlive && !playerAlive:
		res.Winner = "enemy"
	case res.PlayerCyborgs > res.EnemyCyborgs:
		res.Winner = "player"
	case res.EnemyCyborgs > res.PlayerCyborgs:
		res.Winner = "enemy"
	}
	return res
}

// RunMatch plays one game described by cfg.
func RunMatch(ctx context.Context, cfg Config) (*Result, error) {
	r, err := NewReferee(cfg)
	if err != nil {
		return nil, err
	}
	res, err := r.Run(ctx)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Int64("seed", cfg.Seed).
		Str("winner", res.Winner).
		Int("ticks", res.Ticks).
		Msg("Match finished")
	return res, nil
}
