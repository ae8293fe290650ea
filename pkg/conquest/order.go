package conquest

import "fmt"

// OrderType represents the kind of order the agent can emit.
type OrderType int

const (
	OrderMove    OrderType = iota // Send cyborgs from one factory to another
	OrderBomb                     // Launch a bomb at an enemy factory
	OrderUpgrade                  // Spend cyborgs to raise production
	OrderMessage                  // Free-text message shown by the game
)

func (o OrderType) String() string {
	switch o {
	case OrderMove:
		return "move"
	case OrderBomb:
		return "bomb"
	case OrderUpgrade:
		return "upgrade"
	case OrderMessage:
		return "message"
	default:
		return "unknown"
	}
}

// Order is a single command issued during a tick.
type Order struct {
	Type   OrderType
	Source int // issuing factory (move, bomb, upgrade)
	Target int // destination (move, bomb)
	Count  int // cyborgs sent (move)
	Text   string
}

// Move builds a MOVE order.
func Move(source, target, count int) Order {
	return Order{Type: OrderMove, Source: source, Target: target, Count: count}
}

// Bomb builds a BOMB order.
func Bomb(source, target int) Order {
	return Order{Type: OrderBomb, Source: source, Target: target}
}

// Upgrade builds an INC order.
func Upgrade(factory int) Order {
	return Order{Type: OrderUpgrade, Source: factory, Target: NoFactory}
}

// Message builds a MSG order.
func Message(text string) Order {
	return Order{Type: OrderMessage, Source: NoFactory, Target: NoFactory, Text: text}
}

// Describe returns a human-readable description of the order.
func (o Order) Describe() string {
	switch o.Type {
	case OrderMove:
		return fmt.Sprintf("%d -> %d x%d", o.Source, o.Target, o.Count)
	case OrderBomb:
		return fmt.Sprintf("%d bomb %d", o.Source, o.Target)
	case OrderUpgrade:
		return fmt.Sprintf("%d upgrade", o.Source)
	case OrderMessage:
		return fmt.Sprintf("msg %q", o.Text)
	default:
		return "???"
	}
}

// OrderError describes why an order was rejected.
type OrderError struct {
	Order   Order
	Message string
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("invalid order %s: %s", e.Order.Describe(), e.Message)
}

// ValidateOrder checks that an order references real factories and carries
// a sensible payload. Ownership and garrison are not checked here; the
// simulation engine clamps moves against the garrison when it materialises
// them.
func ValidateOrder(o Order, g *Graph) error {
	n := g.FactoryCount()
	inRange := func(id int) bool { return id >= 0 && id < n }

	switch o.Type {
	case OrderMove:
		if !inRange(o.Source) || !inRange(o.Target) {
			return &OrderError{o, "unknown factory"}
		}
		if o.Source == o.Target {
			return &OrderError{o, "source and target are the same factory"}
		}
		if o.Count <= 0 {
			return &OrderError{o, fmt.Sprintf("count must be positive, got %d", o.Count)}
		}
	case OrderBomb:
		if !inRange(o.Source) || !inRange(o.Target) {
			return &OrderError{o, "unknown factory"}
		}
		if o.Source == o.Target {
			return &OrderError{o, "cannot bomb the launching factory"}
		}
	case OrderUpgrade:
		if !inRange(o.Source) {
			return &OrderError{o, "unknown factory"}
		}
	case OrderMessage:
		if o.Text == "" {
			return &OrderError{o, "empty message"}
		}
	default:
		return &OrderError{o, "unknown order type"}
	}
	return nil
}
