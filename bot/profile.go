package bot

// Archetype flavors how a bot weighs its options.
type Archetype int

const (
	// Balanced weighs all actions by the shared formulas alone.
	Balanced Archetype = iota
	// Builder favors laying track early and often.
	Builder
	// Hauler favors picking up and delivering over expansion.
	Hauler
)

func (a Archetype) String() string {
	switch a {
	case Builder:
		return "builder"
	case Hauler:
		return "hauler"
	default:
		return "balanced"
	}
}

// Profile is a bot's skill and personality configuration. Skill scales how
// far ahead the bot values future payoffs; it never affects legality.
type Profile struct {
	Name      string
	Archetype Archetype
	// Skill in [0,1]. Low-skill bots discount distant payoffs harder.
	Skill float64
}

// DefaultProfiles returns the stock lineup used by exhibitions and tests.
func DefaultProfiles() []Profile {
	return []Profile{
		{Name: "Brunel", Archetype: Builder, Skill: 0.8},
		{Name: "Vanderbilt", Archetype: Hauler, Skill: 0.8},
		{Name: "Stephenson", Archetype: Balanced, Skill: 0.6},
	}
}

// Commentary returns the flavor lines an orchestrator may narrate for this
// archetype. Picking among them is the only place randomness is allowed.
func (a Archetype) Commentary() []string {
	switch a {
	case Builder:
		return []string{
			"More track, more options.",
			"The network is the strategy.",
			"Every milepost paid for is a milepost owned.",
		}
	case Hauler:
		return []string{
			"Freight pays the bills.",
			"A full train is a happy train.",
			"Straight to the paying customer.",
		}
	default:
		return []string{
			"Steady as she goes.",
			"Taking the measured route.",
			"One good turn at a time.",
		}
	}
}
