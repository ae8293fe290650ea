package bot

// BombStrategy only spends bomb charges.
type BombStrategy struct{}

func (BombStrategy) Name() string { return "bomb" }

func (BombStrategy) Decide(t *Turn) { bombStep(t) }

// bombStep targets the enemy's largest garrison among high-production
// factories, skipping the previous target, and launches from the player
// factory nearest to it. No charge is spent when there is no launch site.
func bombStep(t *Turn) int {
	gs := t.State
	if gs.BombsLeft <= 0 {
		return 0
	}
	target := -1
	for _, f := range gs.Factories {
		if !f.Owner.IsEnemy() || f.Production <= t.Tuning.BombMinProduction || f.ID == gs.LastBombed {
			continue
		}
		if target < 0 || f.Garrison > gs.Factories[target].Garrison {
			target = f.ID
		}
	}
	if target < 0 {
		return 0
	}
	for _, nb := range gs.Graph.Neighbors(target) {
		if !gs.Factories[nb.ID].Owner.IsPlayer() {
			continue
		}
		if t.Bomb(nb.ID, target) {
			t.Log.Debug().Int("src", nb.ID).Int("dst", target).Int("left", gs.BombsLeft).Msg("bomb: launched")
			return 1
		}
		return 0
	}
	return 0
}
