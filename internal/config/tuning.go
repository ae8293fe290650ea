package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the strategy constants. Zero values in a file leave the
// corresponding default in place.
type Tuning struct {
	Horizon            int               `yaml:"horizon"`
	UpgradeSlack       int               `yaml:"upgrade_slack"`
	UpgradeCost        int               `yaml:"upgrade_cost"`
	MaxProduction      int               `yaml:"max_production"`
	ReinforcementFloor int               `yaml:"reinforcement_floor"`
	InitialBombs       int               `yaml:"initial_bombs"`
	BombMinProduction  int               `yaml:"bomb_min_production"`
	TurnBudgetMs       int               `yaml:"turn_budget_ms"`
	Gates              map[string]string `yaml:"gates"`
}

// DefaultTuning returns the built-in constants.
func DefaultTuning() Tuning {
	return Tuning{
		Horizon:            20,
		UpgradeSlack:       15,
		UpgradeCost:        10,
		MaxProduction:      3,
		ReinforcementFloor: 2,
		InitialBombs:       2,
		BombMinProduction:  2,
	}
}

// LoadTuning reads a YAML tuning file and overlays it on base.
func LoadTuning(path string, base Tuning) (Tuning, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read tuning %s: %w", path, err)
	}
	return ParseTuning(b, base)
}

// ParseTuning overlays YAML bytes on base and validates the result.
func ParseTuning(b []byte, base Tuning) (Tuning, error) {
	var f Tuning
	if err := yaml.Unmarshal(b, &f); err != nil {
		return base, fmt.Errorf("parse tuning: %w", err)
	}

	t := base
	overlay(&t.Horizon, f.Horizon)
	overlay(&t.UpgradeSlack, f.UpgradeSlack)
	overlay(&t.UpgradeCost, f.UpgradeCost)
	overlay(&t.MaxProduction, f.MaxProduction)
	overlay(&t.ReinforcementFloor, f.ReinforcementFloor)
	overlay(&t.InitialBombs, f.InitialBombs)
	overlay(&t.BombMinProduction, f.BombMinProduction)
	overlay(&t.TurnBudgetMs, f.TurnBudgetMs)
	if len(f.Gates) > 0 {
		t.Gates = make(map[string]string, len(base.Gates)+len(f.Gates))
		for k, v := range base.Gates {
			t.Gates[k] = v
		}
		for k, v := range f.Gates {
			t.Gates[k] = v
		}
	}

	if err := t.Validate(); err != nil {
		return base, err
	}
	return t, nil
}

// Validate rejects negative constants and a horizon too short to be useful.
func (t Tuning) Validate() error {
	if t.Horizon < 1 {
		return fmt.Errorf("tuning: horizon must be >= 1, got %d", t.Horizon)
	}
	if t.MaxProduction < 1 {
		return fmt.Errorf("tuning: max_production must be >= 1, got %d", t.MaxProduction)
	}
	for name, v := range map[string]int{
		"upgrade_slack":       t.UpgradeSlack,
		"upgrade_cost":        t.UpgradeCost,
		"reinforcement_floor": t.ReinforcementFloor,
		"initial_bombs":       t.InitialBombs,
		"bomb_min_production": t.BombMinProduction,
		"turn_budget_ms":      t.TurnBudgetMs,
	} {
		if v < 0 {
			return fmt.Errorf("tuning: %s must be >= 0, got %d", name, v)
		}
	}
	return nil
}

func overlay(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
