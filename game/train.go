package game

// TrainClass identifies the locomotive a player runs. Class determines
// movement budget per turn and how many loads the train can carry.
type TrainClass int

const (
	Freight TrainClass = iota
	FastFreight
	HeavyFreight
	Superfreight
)

// UpgradeCost is the flat price of any train upgrade or crossgrade.
const UpgradeCost = 20

func (c TrainClass) String() string {
	switch c {
	case Freight:
		return "Freight"
	case FastFreight:
		return "Fast Freight"
	case HeavyFreight:
		return "Heavy Freight"
	case Superfreight:
		return "Superfreight"
	default:
		return "unknown"
	}
}

// Speed returns the movement budget in mileposts per turn.
func (c TrainClass) Speed() int {
	switch c {
	case FastFreight, Superfreight:
		return 12
	default:
		return 9
	}
}

// Capacity returns how many loads the train can carry at once.
func (c TrainClass) Capacity() int {
	switch c {
	case HeavyFreight, Superfreight:
		return 3
	default:
		return 2
	}
}

// Upgrades returns the classes this class may upgrade or crossgrade to.
// Fast and Heavy Freight are crossgrades of each other; both lead to
// Superfreight, which is terminal.
func (c TrainClass) Upgrades() []TrainClass {
	switch c {
	case Freight:
		return []TrainClass{FastFreight, HeavyFreight}
	case FastFreight:
		return []TrainClass{HeavyFreight, Superfreight}
	case HeavyFreight:
		return []TrainClass{FastFreight, Superfreight}
	default:
		return nil
	}
}

// CanUpgradeTo reports whether a single upgrade step from c to target is legal.
func (c TrainClass) CanUpgradeTo(target TrainClass) bool {
	for _, t := range c.Upgrades() {
		if t == target {
			return true
		}
	}
	return false
}
