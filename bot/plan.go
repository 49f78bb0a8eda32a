package bot

import (
	"fmt"

	"boxcars/game"
)

// planState is the small simulated state the validator replays an option
// against: the cumulative effects of this turn so far, seeded from the
// snapshot, independent of whatever optimism the scorer applied.
type planState struct {
	cash       int
	carried    []game.Load
	train      game.TrainClass
	buildSpent int
	upgraded   bool
}

func newPlanState(snap *game.Snapshot) planState {
	return planState{
		cash:       snap.Cash(),
		carried:    snap.Carried(),
		train:      snap.Train(),
		buildSpent: snap.BuildSpent(),
		upgraded:   snap.UpgradedThisTurn(),
	}
}

// ValidatePlan is the last line of defense before any committed side effect:
// an independent recheck of the chosen option against authoritative rules
// and the turn's cumulative state. Returns a single verdict with one
// human-readable reason on rejection.
func ValidatePlan(snap *game.Snapshot, opt Option) (bool, string) {
	if !opt.Feasible {
		return false, "option was marked infeasible"
	}
	state := newPlanState(snap)

	switch a := opt.Action.(type) {
	case Build:
		return validateBuild(snap, state, a)
	case Move:
		return validateMovePlan(snap, state, a)
	case Pickup:
		return validatePickup(snap, state, a)
	case Deliver:
		return validateDeliver(snap, state, a)
	case Drop:
		return validateDrop(state, a)
	case Upgrade:
		return validateUpgrade(state, a)
	default: // Discard and Pass are always executable.
		return true, ""
	}
}

func validateBuild(snap *game.Snapshot, state planState, a Build) (bool, string) {
	if len(a.Segments) == 0 {
		return false, "build plan has no segments"
	}
	total := game.SegmentCost(a.Segments)
	if state.buildSpent+total > game.BuildBudget {
		return false, fmt.Sprintf("build cost %d exceeds the %d per-turn budget", state.buildSpent+total, game.BuildBudget)
	}
	if total > state.cash {
		return false, fmt.Sprintf("build cost %d exceeds cash %d", total, state.cash)
	}
	if !snap.Placed() {
		return false, "no position exists; place the train before building"
	}

	board := snap.Board()
	if len(snap.Segments()) == 0 && board.TerrainAt(a.Segments[0].From) != game.MajorCity {
		return false, fmt.Sprintf("first segment must originate at a major city, not %s", a.Segments[0].From)
	}
	for i, s := range a.Segments {
		if i > 0 && a.Segments[i-1].To != s.From {
			return false, fmt.Sprintf("segments are not contiguous at %s", s.From)
		}
		if _, ok := board.BuildCost(s.From, s.To); !ok {
			return false, fmt.Sprintf("segment %s-%s cannot be built", s.From, s.To)
		}
	}
	return true, ""
}

func validateMovePlan(snap *game.Snapshot, state planState, a Move) (bool, string) {
	result := game.ValidateMove(snap, a.Path)
	if !result.OK {
		return false, result.Reason
	}
	if result.Cost > state.train.Speed() {
		return false, fmt.Sprintf("path costs %d mileposts, train speed is %d", result.Cost, state.train.Speed())
	}
	if fee := usageFee(snap, a.Path); fee > state.cash {
		return false, fmt.Sprintf("track usage fee %d exceeds cash %d", fee, state.cash)
	}
	return true, ""
}

// usageFee charges once per distinct foreign network the path rides on.
func usageFee(snap *game.Snapshot, path []game.Coord) int {
	union := snap.Union()
	foreign := make(map[string]bool)
	for i := 1; i < len(path); i++ {
		owners := union.Owners(path[i-1], path[i])
		if len(owners) == 0 {
			continue
		}
		mine := false
		for _, owner := range owners {
			if owner == snap.BotID() {
				mine = true
				break
			}
		}
		if mine {
			continue
		}
		for _, owner := range owners {
			foreign[owner] = true
		}
	}
	return len(foreign) * game.TrackUsageFee
}

func validatePickup(snap *game.Snapshot, state planState, a Pickup) (bool, string) {
	if !snap.Placed() {
		return false, "no position exists"
	}
	city := snap.Board().CityAt(snap.Position())
	if city != a.City {
		return false, fmt.Sprintf("the train is not at %s", a.City)
	}
	available := false
	for _, load := range snap.LoadsAt(city) {
		if load == a.Load {
			available = true
			break
		}
	}
	if !available {
		return false, fmt.Sprintf("no %s is available at %s", a.Load, city)
	}
	if len(state.carried) >= state.train.Capacity() {
		return false, fmt.Sprintf("train is full (%d of %d loads)", len(state.carried), state.train.Capacity())
	}
	return true, ""
}

func validateDeliver(snap *game.Snapshot, state planState, a Deliver) (bool, string) {
	if !snap.Placed() {
		return false, "no position exists"
	}
	city := snap.Board().CityAt(snap.Position())
	if city != a.City {
		return false, fmt.Sprintf("the train is not at %s", a.City)
	}
	carried := false
	for _, load := range state.carried {
		if load == a.Load {
			carried = true
			break
		}
	}
	if !carried {
		return false, fmt.Sprintf("the train is not carrying %s", a.Load)
	}
	for _, d := range snap.Hand() {
		if d.CardID != a.CardID {
			continue
		}
		if d.City == a.City && d.Load == a.Load {
			return true, ""
		}
		return false, fmt.Sprintf("card %s has no demand for %s at %s", a.CardID, a.Load, a.City)
	}
	return false, fmt.Sprintf("demand card %s is not in hand", a.CardID)
}

func validateDrop(state planState, a Drop) (bool, string) {
	for _, load := range state.carried {
		if load == a.Load {
			return true, ""
		}
	}
	return false, fmt.Sprintf("the train is not carrying %s", a.Load)
}

func validateUpgrade(state planState, a Upgrade) (bool, string) {
	if state.upgraded {
		return false, "the train was already upgraded this turn"
	}
	if a.Cost > state.cash {
		return false, fmt.Sprintf("upgrade costs %d, cash is %d", a.Cost, state.cash)
	}
	if !state.train.CanUpgradeTo(a.To) {
		return false, fmt.Sprintf("%s cannot upgrade to %s", state.train, a.To)
	}
	return true, ""
}
