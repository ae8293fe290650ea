package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/cyborg-conquest/internal/config"
	"github.com/freeeve/cyborg-conquest/internal/logger"
	"github.com/freeeve/cyborg-conquest/pkg/conquest"
	"github.com/freeeve/cyborg-conquest/pkg/protocol"
)

// Orchestrator drives one agent through a game: read a snapshot, decide,
// write one line, repeat until the input ends.
type Orchestrator struct {
	in         *protocol.Reader
	out        *protocol.Writer
	strategy   Strategy
	tuning     config.Tuning
	turnBudget time.Duration

	state *conquest.GameState
}

// NewOrchestrator creates an Orchestrator. A turnBudget of 0 disables the
// per-tick deadline.
func NewOrchestrator(in io.Reader, out io.Writer, strategy Strategy, tuning config.Tuning, turnBudget time.Duration) *Orchestrator {
	return &Orchestrator{
		in:         protocol.NewReader(in),
		out:        protocol.NewWriter(out),
		strategy:   strategy,
		tuning:     tuning,
		turnBudget: turnBudget,
	}
}

// State returns the game state after the last processed tick.
func (o *Orchestrator) State() *conquest.GameState { return o.state }

// Run plays until the input ends. A clean end of input between ticks
// returns nil; malformed input returns a *protocol.ParseError.
func (o *Orchestrator) Run(ctx context.Context) error {
	g, err := o.in.ReadGraph()
	if err != nil {
		return err
	}
	o.state = conquest.NewGameState(g)
	o.state.BombsLeft = o.tuning.InitialBombs

	log.Info().
		Str("strategy", o.strategy.Name()).
		Int("factories", g.FactoryCount()).
		Dur("turnBudget", o.turnBudget).
		Msg("Starting game")

	for tick := 0; ; tick++ {
		select {
		case <-ctx.Done():
			log.Info().Msg("Context cancelled, stopping")
			return ctx.Err()
		default:
		}

		if err := o.in.ReadTick(o.state); err != nil {
			if errors.Is(err, io.EOF) {
				log.Info().Int("ticks", tick).Msg("Input closed, game over")
				return nil
			}
			return err
		}
		o.state.Tick = tick

		if err := o.playTick(logger.WithTick(ctx, tick)); err != nil {
			return err
		}
	}
}

func (o *Orchestrator) playTick(ctx context.Context) error {
	start := time.Now()
	var deadline time.Time
	if o.turnBudget > 0 {
		deadline = start.Add(o.turnBudget)
	}
	l := logger.ForTick(ctx)

	turn := NewTurn(o.state, o.tuning, deadline, l)
	o.strategy.Decide(turn)

	orders := o.state.Orders()
	if err := o.out.WriteOrders(orders); err != nil {
		return fmt.Errorf("write tick %d: %w", o.state.Tick, err)
	}
	o.state.ClearOrders()

	l.Debug().
		Int("orders", len(orders)).
		Int("bombsLeft", o.state.BombsLeft).
		Dur("elapsed", time.Since(start)).
		Msg("Tick done")
	return nil
}
