package conquest

// Advance returns the state one tick later. gs is left untouched.
func Advance(gs *GameState) *GameState {
	next := gs.Clone()
	Step(next)
	return next
}

// Step applies one tick of the game to gs in place. The transition runs in
// three phases: troops in transit land, queued moves leave their factories,
// then every factory produces and resolves combat against what landed.
// Bombs and upgrades are not part of the transition.
func Step(gs *GameState) {
	acc := make([]int, len(gs.Factories))
	land(gs, acc)
	materialize(gs)
	for i := range gs.Factories {
		resolveFactory(&gs.Factories[i], acc[i])
	}
	gs.Tick++
}

// land moves every troop one tick closer. Arrivals at a factory held by the
// same side reinforce it directly; the rest add their signed size to the
// factory's accumulator for this tick.
func land(gs *GameState, acc []int) {
	kept := gs.Troops[:0]
	for _, t := range gs.Troops {
		t.TicksRemaining--
		if t.TicksRemaining > 0 {
			kept = append(kept, t)
			continue
		}
		dest := &gs.Factories[t.Destination]
		if t.Owner == dest.Owner {
			dest.Garrison += t.Size
		} else {
			acc[t.Destination] += t.Size * t.Owner.Sign()
		}
	}
	gs.Troops = kept
}

// materialize turns queued moves into troops, paying for them at departure.
// A move larger than the garrison sends what is there; moves from neutral
// factories or of nothing are dropped.
func materialize(gs *GameState) {
	nextID := nextTroopID(gs)
	for _, o := range gs.Pending {
		if o.Type != OrderMove || o.Source == o.Target {
			continue
		}
		src := gs.Factory(o.Source)
		dist := gs.Graph.Distance(o.Source, o.Target)
		if src == nil || src.Owner == Neutral || dist <= 0 {
			continue
		}
		size := min(o.Count, src.Garrison)
		if size <= 0 {
			continue
		}
		src.Garrison -= size
		gs.Troops = append(gs.Troops, Troop{
			ID:             nextID,
			Owner:          src.Owner,
			Source:         o.Source,
			Destination:    o.Target,
			Size:           size,
			TicksRemaining: dist,
		})
		nextID++
	}
	gs.Pending = gs.Pending[:0]
}

func nextTroopID(gs *GameState) int {
	id := len(gs.Factories)
	for _, t := range gs.Troops {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	return id
}

// resolveFactory applies production and then the tick's accumulated attack.
// It only reads the factory's own state, so factory order does not matter.
func resolveFactory(f *Factory, acc int) {
	if f.Owner != Neutral && f.Production > 0 {
		f.Garrison += f.Production
	}
	if acc == 0 {
		return
	}

	if f.Owner == Neutral {
		// Neutrals do not pick a side: the net attack is measured by size.
		result := f.Garrison - abs(acc)
		if result < 0 {
			f.Owner = OwnerFromSign(acc)
			f.Garrison = -result
		} else {
			f.Garrison = result
		}
		return
	}

	result := f.Garrison*f.Owner.Sign() + acc
	switch {
	case result < 0:
		f.Owner = Enemy
		f.Garrison = -result
	case result > 0:
		f.Owner = Player
		f.Garrison = result
	default:
		// Exact tie: the defender keeps the factory with nothing left.
		f.Garrison = 0
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
