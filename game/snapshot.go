package game

// FerryStatus tracks where the bot is in a ferry crossing.
type FerryStatus int

const (
	FerryNone FerryStatus = iota
	// FerryReadyToCross: the train spent last turn at the port and may cross.
	FerryReadyToCross
	// FerryJustArrived: the train crossed this turn and may not move again.
	FerryJustArrived
)

// Per-turn rule constants shared by the validators and the gamemaster.
const (
	// BuildBudget caps track spending per player per turn.
	BuildBudget = 20
	// TrackUsageFee is charged once per turn per foreign network whose
	// track the player's movement uses.
	TrackUsageFee = 4
)

// SnapshotData is the builder the snapshot source fills in. Freeze turns it
// into the immutable Snapshot every decision runs against; mutating the
// builder afterwards has no effect on the frozen value.
type SnapshotData struct {
	GameID string
	Status string
	Turn   int

	BotID    string
	Cash     int
	Placed   bool
	Position Coord
	Train    TrainClass

	Segments []TrackSegment
	Hand     []Demand
	Carried  []Load

	// Loads is per-city cargo availability across the whole board.
	Loads map[string][]Load
	// AllSegments holds every player's track, keyed by player id,
	// including the bot's own.
	AllSegments map[string][]TrackSegment

	// Cumulative per-turn counters the plan validator replays against.
	MovementUsed     int
	BuildSpent       int
	UpgradedThisTurn bool
	Ferry            FerryStatus

	Board *Topology
}

// Snapshot is the frozen world view for exactly one decision cycle. All
// fields are unexported; getters return defensive copies, so no caller can
// observe a snapshot mutate mid-turn.
type Snapshot struct {
	gameID string
	status string
	turn   int

	botID    string
	cash     int
	placed   bool
	position Coord
	train    TrainClass

	segments []TrackSegment
	hand     []Demand
	carried  []Load

	loads       map[string][]Load
	allSegments map[string][]TrackSegment

	movementUsed     int
	buildSpent       int
	upgradedThisTurn bool
	ferry            FerryStatus

	board *Topology
	union *UnionGraph
}

// Freeze deep-copies the builder into an immutable snapshot and precomputes
// the union track graph over it.
func (d SnapshotData) Freeze() *Snapshot {
	s := &Snapshot{
		gameID:           d.GameID,
		status:           d.Status,
		turn:             d.Turn,
		botID:            d.BotID,
		cash:             d.Cash,
		placed:           d.Placed,
		position:         d.Position,
		train:            d.Train,
		segments:         append([]TrackSegment(nil), d.Segments...),
		hand:             append([]Demand(nil), d.Hand...),
		carried:          append([]Load(nil), d.Carried...),
		loads:            make(map[string][]Load, len(d.Loads)),
		allSegments:      make(map[string][]TrackSegment, len(d.AllSegments)),
		movementUsed:     d.MovementUsed,
		buildSpent:       d.BuildSpent,
		upgradedThisTurn: d.UpgradedThisTurn,
		ferry:            d.Ferry,
		board:            d.Board,
	}
	for city, loads := range d.Loads {
		s.loads[city] = append([]Load(nil), loads...)
	}
	for player, segments := range d.AllSegments {
		s.allSegments[player] = append([]TrackSegment(nil), segments...)
	}
	s.union = BuildUnionGraph(s.board, s.allSegments)
	return s
}

func (s *Snapshot) GameID() string    { return s.gameID }
func (s *Snapshot) Status() string    { return s.status }
func (s *Snapshot) Turn() int         { return s.turn }
func (s *Snapshot) BotID() string     { return s.botID }
func (s *Snapshot) Cash() int         { return s.cash }
func (s *Snapshot) Placed() bool      { return s.placed }
func (s *Snapshot) Position() Coord   { return s.position }
func (s *Snapshot) Train() TrainClass { return s.train }

func (s *Snapshot) Segments() []TrackSegment {
	return append([]TrackSegment(nil), s.segments...)
}

func (s *Snapshot) Hand() []Demand {
	return append([]Demand(nil), s.hand...)
}

func (s *Snapshot) Carried() []Load {
	return append([]Load(nil), s.carried...)
}

// LoadsAt returns the loads currently available for pickup at a city.
func (s *Snapshot) LoadsAt(city string) []Load {
	return append([]Load(nil), s.loads[city]...)
}

// AllSegments returns every player's track, keyed by player id.
func (s *Snapshot) AllSegments() map[string][]TrackSegment {
	out := make(map[string][]TrackSegment, len(s.allSegments))
	for player, segments := range s.allSegments {
		out[player] = append([]TrackSegment(nil), segments...)
	}
	return out
}

func (s *Snapshot) MovementUsed() int      { return s.movementUsed }
func (s *Snapshot) BuildSpent() int        { return s.buildSpent }
func (s *Snapshot) UpgradedThisTurn() bool { return s.upgradedThisTurn }
func (s *Snapshot) Ferry() FerryStatus     { return s.ferry }

// Board returns the static topology the snapshot was captured against.
// The topology is read-only by construction, so sharing it is safe.
func (s *Snapshot) Board() *Topology { return s.board }

// Union returns the merged track graph of all players at capture time.
// The graph is built once at Freeze and never mutated.
func (s *Snapshot) Union() *UnionGraph { return s.union }

// RemainingMovement is the movement budget left this turn.
func (s *Snapshot) RemainingMovement() int {
	return s.train.Speed() - s.movementUsed
}

// RemainingBuild is the build budget left this turn.
func (s *Snapshot) RemainingBuild() int {
	return BuildBudget - s.buildSpent
}
