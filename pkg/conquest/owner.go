package conquest

// Owner identifies who controls a factory or troop. The numeric value is the
// owner's sign in combat arithmetic.
type Owner int

const (
	Enemy   Owner = -1
	Neutral Owner = 0
	Player  Owner = 1
)

// Unknown marks garrison and production values not yet reported by a snapshot.
const Unknown = -1

// NoFactory is the id used when no factory is referenced.
const NoFactory = -1

func (o Owner) String() string {
	switch o {
	case Player:
		return "player"
	case Enemy:
		return "enemy"
	case Neutral:
		return "neutral"
	default:
		return "unknown"
	}
}

// Sign returns +1 for the player, -1 for the enemy and 0 for neutral.
func (o Owner) Sign() int { return int(o) }

func (o Owner) IsPlayer() bool  { return o == Player }
func (o Owner) IsEnemy() bool   { return o == Enemy }
func (o Owner) IsNeutral() bool { return o == Neutral }

// Opponent returns the other side. Neutral has no opponent.
func (o Owner) Opponent() Owner { return -o }

// Valid reports whether o is one of the three owners.
func (o Owner) Valid() bool { return o >= Enemy && o <= Player }

// OwnerFromSign maps a signed value to the side it favours.
func OwnerFromSign(v int) Owner {
	switch {
	case v > 0:
		return Player
	case v < 0:
		return Enemy
	default:
		return Neutral
	}
}
