package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/cyborg-conquest/internal/arena"
	"github.com/freeeve/cyborg-conquest/internal/config"
	"github.com/freeeve/cyborg-conquest/internal/logger"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	var (
		matchup    string
		numGames   int
		workers    int
		factories  int
		maxTicks   int
		seed       int64
		turnBudget time.Duration
		jsonOut    bool
	)

	flag.StringVar(&matchup, "matchup", "defend-vs-max", "player-vs-enemy strategies (e.g. defend-vs-random)")
	flag.IntVar(&numGames, "n", 1, "Number of games to run")
	flag.IntVar(&workers, "workers", 1, "Concurrency (parallel games)")
	flag.IntVar(&factories, "factories", arena.DefaultMapSize, "Factories per map (odd)")
	flag.IntVar(&maxTicks, "max-ticks", arena.DefaultTicks, "Tick limit before the game is decided on cyborgs")
	flag.Int64Var(&seed, "seed", 0, "Base seed (0 = time-based)")
	flag.DurationVar(&turnBudget, "turn-budget", 0, "Per-tick budget for each side (0 disables the deadline)")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")
	flag.Parse()

	player, enemy, ok := strings.Cut(matchup, "-vs-")
	if !ok {
		enemy = player
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	workers = max(workers, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	results := make([]*arena.Result, numGames)
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	errCount := 0

	for i := range numGames {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			gameCfg := arena.Config{
				Player:     player,
				Enemy:      enemy,
				Factories:  factories,
				MaxTicks:   maxTicks,
				Seed:       seed + int64(idx),
				TurnBudget: turnBudget,
				Tuning:     cfg.Tuning,
			}

			result, err := arena.RunMatch(ctx, gameCfg)
			if err != nil {
				log.Error().Err(err).Int("game", idx+1).Msg("Game failed")
				mu.Lock()
				errCount++
				mu.Unlock()
				return
			}

			mu.Lock()
			results[idx] = result
			mu.Unlock()

			log.Info().Int("game", idx+1).Str("winner", result.Winner).Int("ticks", result.Ticks).Msg("Game completed")
		}(i)
	}

	wg.Wait()

	if jsonOut {
		printJSON(results, numGames, errCount)
	} else {
		printSummary(results, player, enemy, errCount)
	}
}

func printSummary(results []*arena.Result, player, enemy string, errCount int) {
	var playerWins, enemyWins, draws, completed, ticks int
	for _, r := range results {
		if r == nil {
			continue
		}
		completed++
		ticks += r.Ticks
		switch r.Winner {
		case "player":
			playerWins++
		case "enemy":
			enemyWins++
		default:
			draws++
		}
	}

	fmt.Printf("\nResults (%d games, %s vs %s):\n", completed, player, enemy)
	if errCount > 0 {
		fmt.Printf("  (%d games failed)\n", errCount)
	}
	avgTicks := 0.0
	if completed > 0 {
		avgTicks = float64(ticks) / float64(completed)
	}
	fmt.Printf("  %-14s %d wins\n", player+" (player)", playerWins)
	fmt.Printf("  %-14s %d wins\n", enemy+" (enemy)", enemyWins)
	fmt.Printf("  draws          %d\n", draws)
	fmt.Printf("  avg ticks      %.1f\n", avgTicks)
}

func printJSON(results []*arena.Result, total, errCount int) {
	out := struct {
		Total   int             `json:"total"`
		Errors  int             `json:"errors"`
		Results []*arena.Result `json:"results"`
	}{
		Total:   total,
		Errors:  errCount,
		Results: results,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Error().Err(err).Msg("Failed to write results")
	}
}
