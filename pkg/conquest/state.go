package conquest

import "fmt"

// InitialBombs is the number of bomb charges each side starts with.
const InitialBombs = 2

// Factory is a production node. Neighbors live on the Graph.
type Factory struct {
	ID         int
	Owner      Owner
	Garrison   int
	Production int
}

// Troop is a group of cyborgs in flight between two factories.
type Troop struct {
	ID             int
	Owner          Owner
	Source         int
	Destination    int
	Size           int
	TicksRemaining int
}

// GameState is the agent's view of the world for one tick, plus the orders
// queued during that tick and the bomb bookkeeping carried between ticks.
type GameState struct {
	Graph      *Graph
	Tick       int
	Factories  []Factory // indexed by factory id
	Troops     []Troop
	Pending    []Order // MOVE orders not yet materialised into troops
	Actions    []Order // BOMB, INC and MSG orders
	BombsLeft  int
	LastBombed int
}

// NewGameState returns a state for the given map with every factory in the
// unknown pre-snapshot condition.
func NewGameState(g *Graph) *GameState {
	gs := &GameState{
		Graph:      g,
		Factories:  make([]Factory, g.FactoryCount()),
		BombsLeft:  InitialBombs,
		LastBombed: NoFactory,
	}
	for i := range gs.Factories {
		gs.Factories[i] = Factory{ID: i, Owner: Neutral, Garrison: Unknown, Production: Unknown}
	}
	return gs
}

// Factory returns the factory with the given id, or nil if out of range.
func (gs *GameState) Factory(id int) *Factory {
	if id < 0 || id >= len(gs.Factories) {
		return nil
	}
	return &gs.Factories[id]
}

// SetFactory overwrites a factory from an authoritative snapshot row.
func (gs *GameState) SetFactory(id int, owner Owner, garrison, production int) error {
	f := gs.Factory(id)
	if f == nil {
		return fmt.Errorf("conquest: unknown factory %d", id)
	}
	if !owner.Valid() {
		return fmt.Errorf("conquest: factory %d: invalid owner %d", id, owner)
	}
	if garrison < 0 || production < 0 {
		return fmt.Errorf("conquest: factory %d: negative garrison or production", id)
	}
	f.Owner = owner
	f.Garrison = garrison
	f.Production = production
	return nil
}

// ResetTroops drops every in-flight troop ahead of a new snapshot.
func (gs *GameState) ResetTroops() {
	gs.Troops = gs.Troops[:0]
}

// AddTroop appends an in-flight troop from a snapshot row.
func (gs *GameState) AddTroop(t Troop) error {
	if t.Owner != Player && t.Owner != Enemy {
		return fmt.Errorf("conquest: troop %d: invalid owner %d", t.ID, t.Owner)
	}
	if gs.Factory(t.Source) == nil || gs.Factory(t.Destination) == nil {
		return fmt.Errorf("conquest: troop %d: unknown factory %d -> %d", t.ID, t.Source, t.Destination)
	}
	if t.Size <= 0 || t.TicksRemaining <= 0 {
		return fmt.Errorf("conquest: troop %d: size %d and ticks %d must be positive", t.ID, t.Size, t.TicksRemaining)
	}
	gs.Troops = append(gs.Troops, t)
	return nil
}

// Queue validates an order and appends it to the matching queue.
func (gs *GameState) Queue(o Order) error {
	if err := ValidateOrder(o, gs.Graph); err != nil {
		return err
	}
	if o.Type == OrderMove {
		gs.Pending = append(gs.Pending, o)
	} else {
		gs.Actions = append(gs.Actions, o)
	}
	return nil
}

// Orders returns every order queued this tick, moves first.
func (gs *GameState) Orders() []Order {
	out := make([]Order, 0, len(gs.Pending)+len(gs.Actions))
	out = append(out, gs.Pending...)
	return append(out, gs.Actions...)
}

// ClearOrders empties both order queues once they have been emitted.
func (gs *GameState) ClearOrders() {
	gs.Pending = gs.Pending[:0]
	gs.Actions = gs.Actions[:0]
}

// FactoriesOf returns copies of the factories owned by the given side, in id order.
func (gs *GameState) FactoriesOf(owner Owner) []Factory {
	var out []Factory
	for _, f := range gs.Factories {
		if f.Owner == owner {
			out = append(out, f)
		}
	}
	return out
}

// FactoryCount returns the number of factories owned by the given side.
func (gs *GameState) FactoryCount(owner Owner) int {
	count := 0
	for _, f := range gs.Factories {
		if f.Owner == owner {
			count++
		}
	}
	return count
}

// CyborgCount returns garrisons plus troops in flight for the given side.
func (gs *GameState) CyborgCount(owner Owner) int {
	total := 0
	for _, f := range gs.Factories {
		if f.Owner == owner && f.Garrison > 0 {
			total += f.Garrison
		}
	}
	for _, t := range gs.Troops {
		if t.Owner == owner {
			total += t.Size
		}
	}
	return total
}

// IncomingTroops sums the sizes of troops of the given side headed to a factory.
func (gs *GameState) IncomingTroops(dest int, owner Owner) int {
	total := 0
	for _, t := range gs.Troops {
		if t.Destination == dest && t.Owner == owner {
			total += t.Size
		}
	}
	return total
}

// IsAlive reports whether a side still holds a factory or has troops in flight.
func (gs *GameState) IsAlive(owner Owner) bool {
	if gs.FactoryCount(owner) > 0 {
		return true
	}
	for _, t := range gs.Troops {
		if t.Owner == owner {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the GameState. The Graph is shared since it
// never changes after the game starts.
func (gs *GameState) Clone() *GameState {
	c := &GameState{}
	gs.CloneInto(c)
	return c
}

// CloneInto copies gs into dst, reusing dst's allocated slices to avoid
// allocations. After calling, dst is a deep copy of gs.
func (gs *GameState) CloneInto(dst *GameState) {
	dst.Graph = gs.Graph
	dst.Tick = gs.Tick
	dst.BombsLeft = gs.BombsLeft
	dst.LastBombed = gs.LastBombed
	dst.Factories = copyInto(dst.Factories, gs.Factories)
	dst.Troops = copyInto(dst.Troops, gs.Troops)
	dst.Pending = copyInto(dst.Pending, gs.Pending)
	dst.Actions = copyInto(dst.Actions, gs.Actions)
}

func copyInto[T any](dst, src []T) []T {
	if src == nil {
		return nil
	}
	if cap(dst) >= len(src) {
		dst = dst[:len(src)]
	} else {
		dst = make([]T, len(src))
	}
	copy(dst, src)
	return dst
}

// Mirror returns a copy of the state seen from the other side: player and
// enemy ownership are swapped on every factory and troop. Bomb bookkeeping
// and queued orders are copied unchanged.
func (gs *GameState) Mirror() *GameState {
	m := gs.Clone()
	for i := range m.Factories {
		m.Factories[i].Owner = m.Factories[i].Owner.Opponent()
	}
	for i := range m.Troops {
		m.Troops[i].Owner = m.Troops[i].Owner.Opponent()
	}
	return m
}
