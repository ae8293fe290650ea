package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

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

	strategyName := flag.String("strategy", cfg.Strategy, "strategy: defend, max, swarm, neutral_first, random")
	turnBudget := flag.Duration("turn-budget", cfg.TurnBudget, "wall-clock budget per tick (0 disables the deadline)")
	seed := flag.Int64("seed", cfg.Seed, "seed for the random strategy (0 = random)")
	tuningPath := flag.String("tuning", cfg.TuningPath, "YAML tuning file")
	transcriptPath := flag.String("transcript", cfg.TranscriptPath, "write a zstd transcript of the game to this file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger.SetDebug(*debug)

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["tuning"] && *tuningPath != cfg.TuningPath {
		cfg.TuningPath = *tuningPath
		cfg.Tuning = config.DefaultTuning()
		if err := cfg.ApplyTuningFile(); err != nil {
			log.Fatal().Err(err).Msg("Failed to load tuning")
		}
	}
	if set["turn-budget"] {
		cfg.TurnBudget = *turnBudget
	}

	strategy, err := bot.StrategyByName(*strategyName, cfg.Tuning, *seed)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid strategy")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Received shutdown signal")
		cancel()
	}()

	var in io.Reader = os.Stdin
	var out io.Writer = os.Stdout
	var rec *transcript.Recorder
	var inSink, outSink *transcript.LineSink
	if *transcriptPath != "" {
		rec, err = transcript.Create(*transcriptPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open transcript")
		}
		inSink, outSink = rec.Sink(transcript.In), rec.Sink(transcript.Out)
		in = io.TeeReader(os.Stdin, inSink)
		out = io.MultiWriter(os.Stdout, outSink)
	}

	orch := bot.NewOrchestrator(in, out, strategy, cfg.Tuning, cfg.TurnBudget)
	runErr := orch.Run(ctx)

	if rec != nil {
		_ = inSink.Flush()
		_ = outSink.Flush()
		if err := rec.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close transcript")
		}
	}
	if runErr != nil {
		log.Fatal().Err(runErr).Msg("Agent stopped")
	}
}
