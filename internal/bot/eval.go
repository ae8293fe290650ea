package bot

import "github.com/freeeve/cyborg-conquest/pkg/conquest"

// productionWeight converts one unit of production into garrison-equivalents.
const productionWeight = 10

// Evaluate scores gs from the player's side: owned garrisons and weighted
// production, troops in flight, and a bonus or penalty per factory for the
// side that would hold it once every troop headed there has landed.
func Evaluate(gs *conquest.GameState) int {
	net := make([]int, len(gs.Factories))
	score := 0
	for _, f := range gs.Factories {
		s := f.Owner.Sign()
		if s != 0 {
			score += s * (f.Garrison + f.Production*productionWeight)
		}
		net[f.ID] = f.Garrison * s
	}
	for _, tr := range gs.Troops {
		s := tr.Owner.Sign()
		score += s * tr.Size
		net[tr.Destination] += s * tr.Size
	}
	for _, f := range gs.Factories {
		switch {
		case net[f.ID] > 0:
			score += f.Production * productionWeight
		case net[f.ID] < 0:
			score -= f.Production * productionWeight
		}
	}
	return score
}
