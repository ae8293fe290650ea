package arena

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/freeeve/cyborg-conquest/pkg/conquest"
)

const (
	mapHalfWidth  = 8000.0
	mapHalfHeight = 3250.0
	minSpacing    = 1400.0
	distanceScale = 800.0
)

type point struct{ x, y float64 }

func (p point) dist(q point) float64 { return math.Hypot(p.x-q.x, p.y-q.y) }

// NewMap builds a point-symmetric map of n factories from seed. Factory 0
// sits at the center; factories 2k+1 and 2k+2 mirror each other, with 1
// and 2 as the starting factories of the player and the enemy.
func NewMap(seed int64, n int) (*conquest.GameState, error) {
	if n < 3 || n%2 == 0 {
		return nil, fmt.Errorf("arena: factory count must be odd and >= 3, got %d", n)
	}
	rng := rand.New(rand.NewSource(seed))

	pts := make([]point, n)
	for k := 1; k < n; k += 2 {
		p := placeFactory(rng, pts[:k])
		pts[k] = p
		pts[k+1] = point{-p.x, -p.y}
	}

	var links []conquest.Link
	for a := range n {
		for b := a + 1; b < n; b++ {
			d := max(1, int(math.Round(pts[a].dist(pts[b])/distanceScale)))
			links = append(links, conquest.Link{A: a, B: b, Distance: d})
		}
	}
	g, err := conquest.NewGraph(n, links)
	if err != nil {
		return nil, err
	}

	gs := conquest.NewGameState(g)
	if err := gs.SetFactory(0, conquest.Neutral, 0, 0); err != nil {
		return nil, err
	}
	start := 15 + rng.Intn(16)
	for k := 1; k < n; k += 2 {
		owner, garrison, production := conquest.Neutral, 0, rng.Intn(4)
		if k == 1 {
			owner, garrison, production = conquest.Player, start, 1
		} else if production > 0 {
			garrison = rng.Intn(5*production + 1)
		}
		if err := gs.SetFactory(k, owner, garrison, production); err != nil {
			return nil, err
		}
		if err := gs.SetFactory(k+1, owner.Opponent(), garrison, production); err != nil {
			return nil, err
		}
	}
	return gs, nil
}

// placeFactory picks a point at least minSpacing from the center, from
// every placed point and from its own mirror image. After a bounded number
// of rejections it accepts the last candidate.
func placeFactory(rng *rand.Rand, placed []point) point {
	var p point
	for range 200 {
		p = point{
			x: (rng.Float64()*2 - 1) * mapHalfWidth,
			y: (rng.Float64()*2 - 1) * mapHalfHeight,
		}
		if p.dist(point{}) < minSpacing/2 {
			continue
		}
		ok := true
		for _, q := range placed[1:] {
			if p.dist(q) < minSpacing || p.dist(point{-q.x, -q.y}) < minSpacing {
				ok = false
				break
			}
		}
		if ok {
			return p
		}
	}
	return p
}
