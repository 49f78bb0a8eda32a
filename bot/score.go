package bot

import (
	"math"
	"sort"

	"boxcars/game"
)

// Tuned scoring weights. These are empirically chosen design parameters,
// not invariants; tests assert orderings, not magnitudes.
const (
	deliverBase = 100.0
	pickupBase  = 60.0
	buildBase   = 40.0
	moveBase    = 30.0
	upgradeBase = 25.0
	discardBase = 5.0
	dropBase    = 1.0

	payoffScale       = 1.5
	pickupPayoffScale = 0.9
	movePayoffScale   = 0.5

	distancePenaltyWeight = 2.0
	costPenaltyWeight     = 0.8

	segmentValue         = 2.0
	builderSegmentCredit = 6.0
	connectTargetBonus   = 20.0

	// A pickup whose destination the network cannot reach keeps only
	// this fraction of its score. Carrying dead weight already relaxes
	// the penalty: accumulating more of it matters less.
	unreachableDestFactor = 0.15
	deadWeightRelief      = 2.0

	earlyGameTurns      = 5
	earlySuppression    = 50.0
	overdueUpgradeTurn  = 10
	overdueUpgradeBonus = 15.0
	flushCashFloor      = 80
	flushCashBoost      = 10.0
	haulerCapacityBonus = 5.0

	hoardReachableCeiling = 0.5
	hoardDeliveries       = 2
	discardScale          = 50.0
	dropDeadWeightBonus   = 10.0

	restlessnessWeight      = 1.5
	targetPersistenceBonus  = 4.0
	targetPersistenceCap    = 3
	placementDistanceWeight = 0.05
)

// Score annotates every option with a desirability score and returns them
// sorted descending. Infeasible options score negative infinity; PassTurn
// scores exactly 0 as the baseline. The function is pure: legality is never
// decided here, and no randomness is involved.
func Score(options []Option, snap *game.Snapshot, profile Profile, mem Memory) []Option {
	scored := make([]Option, len(options))
	copy(scored, options)

	for i := range scored {
		if !scored[i].Feasible {
			scored[i].Score = math.Inf(-1)
			continue
		}
		scored[i].Score = scoreOption(scored[i], snap, profile, mem)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

func scoreOption(opt Option, snap *game.Snapshot, profile Profile, mem Memory) float64 {
	switch a := opt.Action.(type) {
	case Deliver:
		return deliverBase + float64(a.Payment)*payoffScale
	case Pickup:
		return scorePickup(a, snap, profile)
	case Build:
		return scoreBuild(a, snap, profile, mem)
	case Move:
		return scoreMove(a, snap, profile, mem)
	case Upgrade:
		return scoreUpgrade(a, snap, profile, mem)
	case Discard:
		return scoreDiscard(snap, mem)
	case Drop:
		return scoreDrop(a, snap)
	default: // Pass is the zero baseline.
		return 0
	}
}

// futureDiscount scales payoffs that need more turns to realize; low-skill
// bots value them less.
func futureDiscount(profile Profile) float64 {
	return 0.5 + 0.5*profile.Skill
}

func scorePickup(a Pickup, snap *game.Snapshot, profile Profile) float64 {
	demand, hasDemand := bestDemandFor(snap, a.Load)
	score := pickupBase
	if hasDemand {
		dist := distanceToCity(snap.Board(), snap.Position(), demand.City)
		score += float64(demand.Payment) * payoffScale * pickupPayoffScale * futureDiscount(profile)
		score -= dist * distancePenaltyWeight
	}

	if !hasDemand || !game.Reaches(snap.Board(), snap.Segments(), demand.City) {
		factor := unreachableDestFactor
		if carriesDeadWeight(snap) {
			factor *= deadWeightRelief
		}
		score *= factor
	}
	return score
}

func scoreBuild(a Build, snap *game.Snapshot, profile Profile, mem Memory) float64 {
	score := buildBase
	score += float64(len(a.Segments)) * segmentValue
	score -= float64(a.Cost) * costPenaltyWeight
	if profile.Archetype == Builder {
		score += float64(len(a.Segments)) * builderSegmentCredit
	}

	terminal := a.Segments[len(a.Segments)-1].To
	terminalCity := snap.Board().CityAt(terminal)
	if terminalCity != "" {
		for _, d := range snap.Hand() {
			if d.City == terminalCity {
				score += connectTargetBonus
				break
			}
		}
		if terminalCity == mem.TargetCity {
			turns := mem.TargetTurns
			if turns > targetPersistenceCap {
				turns = targetPersistenceCap
			}
			score += float64(turns) * targetPersistenceBonus
		}
	}
	score += float64(mem.ConsecutivePasses) * restlessnessWeight
	return score
}

func scoreMove(a Move, snap *game.Snapshot, profile Profile, mem Memory) float64 {
	board := snap.Board()

	// Initial placement: weight candidate major cities by how close they
	// sit to the open demands, payment-weighted.
	if len(a.Path) == 1 {
		weighted := 0.0
		for _, d := range snap.Hand() {
			cells := board.CityCells(d.City)
			if len(cells) == 0 {
				continue
			}
			best := board.Distance2(a.Path[0], cells[0])
			for _, c := range cells[1:] {
				if d2 := board.Distance2(a.Path[0], c); d2 < best {
					best = d2
				}
			}
			weighted += float64(d.Payment) * best
		}
		return moveBase - weighted*placementDistanceWeight
	}

	end := a.Path[len(a.Path)-1]
	score := moveBase
	if demand, ok := bestDemandAround(snap, end); ok {
		remaining := distanceToCity(board, end, demand.City)
		score += float64(demand.Payment) * movePayoffScale * futureDiscount(profile)
		score -= remaining * distancePenaltyWeight
	}
	score += float64(mem.ConsecutivePasses) * restlessnessWeight
	return score
}

func scoreUpgrade(a Upgrade, snap *game.Snapshot, profile Profile, mem Memory) float64 {
	score := upgradeBase - float64(a.Cost)*costPenaltyWeight*0.5

	// Earliest turns: an upgrade before the bot has meaningful track or
	// any delivery burns cash it should be building with.
	if snap.Turn() <= earlyGameTurns && len(snap.Segments()) < 4 && mem.Deliveries == 0 {
		score -= earlySuppression
	}
	// Unusually late on the starter train despite deliveries coming in.
	if snap.Turn() >= overdueUpgradeTurn && snap.Train() == game.Freight && mem.Deliveries >= 1 {
		score += overdueUpgradeBonus
	}
	if snap.Cash() >= flushCashFloor {
		score += flushCashBoost
	}
	if profile.Archetype == Hauler && a.To.Capacity() > snap.Train().Capacity() {
		score += haulerCapacityBonus
	}
	return score
}

// scoreDiscard pays off only when most of the hand is unreachable, the bot
// has barely delivered, and the hand's unusability is evidenced by an actual
// network. A trackless bot keeps its hand.
func scoreDiscard(snap *game.Snapshot, mem Memory) float64 {
	fraction := reachableFraction(snap)
	if len(snap.Segments()) > 0 && fraction < hoardReachableCeiling && mem.Deliveries < hoardDeliveries {
		return discardScale * (1 - fraction)
	}
	return discardBase * (1 - fraction)
}

func scoreDrop(a Drop, snap *game.Snapshot) float64 {
	score := dropBase
	if demand, ok := bestDemandFor(snap, a.Load); !ok || !game.Reaches(snap.Board(), snap.Segments(), demand.City) {
		score += dropDeadWeightBonus
	}
	return score
}

// reachableFraction is the share of open demands whose destination city the
// bot's network reaches. An empty hand counts as fully reachable.
func reachableFraction(snap *game.Snapshot) float64 {
	hand := snap.Hand()
	if len(hand) == 0 {
		return 1
	}
	reachable := 0
	for _, d := range hand {
		if game.Reaches(snap.Board(), snap.Segments(), d.City) {
			reachable++
		}
	}
	return float64(reachable) / float64(len(hand))
}

// bestDemandFor returns the highest-paying open demand for the given load.
func bestDemandFor(snap *game.Snapshot, load game.Load) (game.Demand, bool) {
	var best game.Demand
	found := false
	for _, d := range snap.Hand() {
		if d.Load == load && (!found || d.Payment > best.Payment) {
			best = d
			found = true
		}
	}
	return best, found
}

// bestDemandAround returns the best open demand judged from a prospective
// position: deliverable carried loads first, then pickups offered there.
func bestDemandAround(snap *game.Snapshot, at game.Coord) (game.Demand, bool) {
	var best game.Demand
	found := false
	carried := make(map[game.Load]bool, len(snap.Carried()))
	for _, l := range snap.Carried() {
		carried[l] = true
	}
	for _, d := range snap.Hand() {
		if !carried[d.Load] {
			continue
		}
		if !found || d.Payment > best.Payment {
			best = d
			found = true
		}
	}
	if found {
		return best, true
	}
	city := snap.Board().CityAt(at)
	if city == "" {
		return game.Demand{}, false
	}
	for _, offered := range snap.LoadsAt(city) {
		if d, ok := bestDemandFor(snap, offered); ok && (!found || d.Payment > best.Payment) {
			best = d
			found = true
		}
	}
	return best, found
}

// carriesDeadWeight reports whether any carried load already has no
// reachable destination.
func carriesDeadWeight(snap *game.Snapshot) bool {
	for _, load := range snap.Carried() {
		demand, ok := bestDemandFor(snap, load)
		if !ok || !game.Reaches(snap.Board(), snap.Segments(), demand.City) {
			return true
		}
	}
	return false
}

// distanceToCity is the centroid distance from a cell to the nearest cell of
// the named city.
func distanceToCity(board *game.Topology, from game.Coord, city string) float64 {
	cells := board.CityCells(city)
	if len(cells) == 0 {
		return 0
	}
	best := board.Distance2(from, cells[0])
	for _, c := range cells[1:] {
		if d2 := board.Distance2(from, c); d2 < best {
			best = d2
		}
	}
	return math.Sqrt(best)
}
