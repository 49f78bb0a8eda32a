package game

import "fmt"

// MoveResult is the verdict on a candidate movement path.
type MoveResult struct {
	OK     bool
	Reason string
	// Cost is the total mileposts consumed, valid only when OK.
	Cost int
	// EndsTurn is set when the path crosses a ferry; the caller is
	// responsible for ending movement for the turn.
	EndsTurn bool
}

func invalidMove(format string, args ...any) MoveResult {
	return MoveResult{Reason: fmt.Sprintf(format, args...)}
}

// ValidateMove checks a candidate path of grid points against the snapshot:
// hex adjacency or ferry links, the union track graph (city interiors are
// free), reversal rules, and the train's remaining movement budget. A
// single-element path naming a major city places an unplaced train at zero
// cost. The function is snapshot-driven and bot-agnostic, so it doubles as
// the authoritative recheck for human moves.
func ValidateMove(snap *Snapshot, path []Coord) MoveResult {
	if len(path) == 0 {
		return invalidMove("empty path")
	}
	board := snap.Board()

	if !snap.Placed() {
		if board.TerrainAt(path[0]) != MajorCity {
			return invalidMove("initial placement must start at a major city, not %s", path[0])
		}
	} else if path[0] != snap.Position() {
		return invalidMove("path starts at %s but the train is at %s", path[0], snap.Position())
	}
	if len(path) == 1 {
		if snap.Placed() {
			return invalidMove("path has no steps")
		}
		return MoveResult{OK: true}
	}

	if snap.Ferry() == FerryJustArrived {
		return invalidMove("the train just crossed a ferry and cannot move again this turn")
	}

	union := snap.Union()
	cost := 0
	endsTurn := false
	for i := 1; i < len(path); i++ {
		from, to := path[i-1], path[i]
		ferry := board.IsFerryEdge(from, to)
		if !ferry && !board.Adjacent(from, to) {
			return invalidMove("%s and %s are not adjacent", from, to)
		}
		sameCity := board.SameCity(from, to)
		if !ferry && !sameCity && !union.Connected(from, to) {
			return invalidMove("No track connects %s and %s", from, to)
		}

		// Exact reversal of the previous step is only legal at a city
		// or ferry port.
		if i >= 2 && to == path[i-2] {
			if !board.TerrainAt(from).IsCity() {
				return invalidMove("cannot reverse at %s, only at a city or ferry port", from)
			}
		}

		switch {
		case sameCity:
			// City interiors are free to traverse.
		case ferry:
			endsTurn = true
		default:
			cost++
		}
	}

	if cost > snap.RemainingMovement() {
		return invalidMove("path costs %d mileposts but only %d remain", cost, snap.RemainingMovement())
	}
	return MoveResult{OK: true, Cost: cost, EndsTurn: endsTurn}
}
