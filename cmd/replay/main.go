package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/cyborg-conquest/internal/bot"
	"github.com/freeeve/cyborg-conquest/internal/config"
	"github.com/freeeve/cyborg-conquest/internal/logger"
	"github.com/freeeve/cyborg-conquest/internal/transcript"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	path := flag.String("in", "", "transcript file (.jsonl.zst)")
	strategyName := flag.String("strategy", cfg.Strategy, "strategy to replay with")
	seed := flag.Int64("seed", cfg.Seed, "seed for the random strategy")
	turnBudget := flag.Duration("turn-budget", 0, "per-tick budget during replay (0 disables the deadline)")
	maxDiffs := flag.Int("max-diffs", 20, "stop listing divergences after this many")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: replay -in game.jsonl.zst [-strategy defend]")
		os.Exit(2)
	}

	entries, err := transcript.ReadFile(*path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read transcript")
	}
	input := transcript.Lines(entries, transcript.In)
	recorded := transcript.Lines(entries, transcript.Out)

	strategy, err := bot.StrategyByName(*strategyName, cfg.Tuning, *seed)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid strategy")
	}

	var out bytes.Buffer
	orch := bot.NewOrchestrator(strings.NewReader(strings.Join(input, "\n")+"\n"), &out, strategy, cfg.Tuning, *turnBudget)
	if err := orch.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Replay failed")
	}
	replayed := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if out.Len() == 0 {
		replayed = nil
	}

	diffs := 0
	for i := range max(len(recorded), len(replayed)) {
		var want, got string
		if i < len(recorded) {
			want = recorded[i]
		}
		if i < len(replayed) {
			got = replayed[i]
		}
		if want == got {
			continue
		}
		diffs++
		if diffs <= *maxDiffs {
			fmt.Printf("tick %d:\n  recorded: %s\n  replayed: %s\n", i, want, got)
		}
	}

	fmt.Printf("%d ticks recorded, %d replayed, %d divergent\n", len(recorded), len(replayed), diffs)
	if diffs > 0 {
		os.Exit(1)
	}
}
