package bot

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// RandomStrategy sends a random share of every player garrison to a random
// other factory. Each instance owns its generator so concurrent matches do
// not share state.
type RandomStrategy struct {
	rng *rand.Rand
}

// NewRandomStrategy seeds a new generator. Seed 0 draws a seed from
// crypto/rand.
func NewRandomStrategy(seed int64) *RandomStrategy {
	if seed == 0 {
		seed = randomSeed()
	}
	return &RandomStrategy{rng: rand.New(rand.NewSource(seed))}
}

func (s *RandomStrategy) Name() string { return "random" }

func (s *RandomStrategy) Decide(t *Turn) {
	n := t.State.Graph.FactoryCount()
	if n < 2 {
		return
	}
	for _, f := range t.State.Factories {
		if !f.Owner.IsPlayer() {
			continue
		}
		size := s.rng.Intn(max(t.Budget[f.ID], 0) + 1)
		dst := s.rng.Intn(n - 1)
		if dst >= f.ID {
			dst++
		}
		if size > 0 {
			t.Send(f.ID, dst, size)
		}
	}
}

func randomSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 1
	}
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1)
}
