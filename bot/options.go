package bot

import (
	"fmt"
	"sort"

	"boxcars/game"
)

// ActionKind discriminates the per-kind option types.
type ActionKind int

const (
	BuildTrack ActionKind = iota
	MoveTrain
	PickupLoad
	DeliverLoad
	DropLoad
	UpgradeTrain
	DiscardHand
	PassTurn
)

func (k ActionKind) String() string {
	switch k {
	case BuildTrack:
		return "build track"
	case MoveTrain:
		return "move train"
	case PickupLoad:
		return "pick up load"
	case DeliverLoad:
		return "deliver load"
	case DropLoad:
		return "drop load"
	case UpgradeTrain:
		return "upgrade train"
	case DiscardHand:
		return "discard hand"
	case PassTurn:
		return "pass"
	default:
		return "unknown"
	}
}

// Action is the sealed sum of per-kind option payloads. Each kind carries
// only its own fields, so the scorer can switch exhaustively.
type Action interface {
	Kind() ActionKind
}

// Build buys a contiguous run of new track.
type Build struct {
	Segments []game.TrackSegment
	Cost     int
}

// Move runs the train along Path. A single-element path places an unplaced
// train at a major city.
type Move struct {
	Path     []game.Coord
	Distance int
	EndsTurn bool
}

// Pickup loads cargo at the bot's current city.
type Pickup struct {
	Load game.Load
	City string
}

// Deliver drops cargo at its demand city and collects the payment.
type Deliver struct {
	Load    game.Load
	City    string
	CardID  string
	Payment int
}

// Drop abandons a carried load with no payment.
type Drop struct {
	Load game.Load
}

// Upgrade moves the train to another class.
type Upgrade struct {
	To   game.TrainClass
	Cost int
}

// Discard throws away the whole hand to draw fresh demands.
type Discard struct{}

// Pass does nothing; it is the guaranteed fallback.
type Pass struct{}

func (Build) Kind() ActionKind   { return BuildTrack }
func (Move) Kind() ActionKind    { return MoveTrain }
func (Pickup) Kind() ActionKind  { return PickupLoad }
func (Deliver) Kind() ActionKind { return DeliverLoad }
func (Drop) Kind() ActionKind    { return DropLoad }
func (Upgrade) Kind() ActionKind { return UpgradeTrain }
func (Discard) Kind() ActionKind { return DiscardHand }
func (Pass) Kind() ActionKind    { return PassTurn }

// Option is one candidate action with feasibility and, after scoring, a
// desirability score. Options live for exactly one turn.
type Option struct {
	Action   Action
	Feasible bool
	Why      string
	Score    float64
}

// Describe renders the option's action for summaries and debug payloads.
func (o Option) Describe() string {
	switch a := o.Action.(type) {
	case Build:
		return fmt.Sprintf("build %d segments for %d", len(a.Segments), a.Cost)
	case Move:
		if len(a.Path) == 1 {
			return fmt.Sprintf("place train at %s", a.Path[0])
		}
		return fmt.Sprintf("move %d mileposts to %s", a.Distance, a.Path[len(a.Path)-1])
	case Pickup:
		return fmt.Sprintf("pick up %s at %s", a.Load, a.City)
	case Deliver:
		return fmt.Sprintf("deliver %s to %s for %d", a.Load, a.City, a.Payment)
	case Drop:
		return fmt.Sprintf("drop %s", a.Load)
	case Upgrade:
		return fmt.Sprintf("upgrade to %s", a.To)
	case Discard:
		return "discard hand"
	default:
		return "pass"
	}
}

// Generate enumerates every feasible option the snapshot allows, one list
// across all action kinds. Pass is always present as the fallback.
func Generate(snap *game.Snapshot) []Option {
	var options []Option
	options = append(options, buildOptions(snap)...)
	options = append(options, moveOptions(snap)...)
	options = append(options, pickupOptions(snap)...)
	options = append(options, deliverOptions(snap)...)
	options = append(options, dropOptions(snap)...)
	options = append(options, upgradeOptions(snap)...)
	// Pass precedes Discard so a zero-scored discard never wins the tie.
	options = append(options,
		Option{Action: Pass{}, Feasible: true, Why: "fallback"},
		Option{Action: Discard{}, Feasible: true, Why: "redraw an unusable hand"},
	)
	return options
}

func buildOptions(snap *game.Snapshot) []Option {
	budget := snap.RemainingBuild()
	if snap.Cash() < budget {
		budget = snap.Cash()
	}
	if budget <= 0 {
		return nil
	}

	board := snap.Board()
	existing := snap.Segments()
	sources := game.Endpoints(existing)
	if len(sources) == 0 {
		sources = board.MajorCities()
	}

	blocked := make(map[game.Edge]bool)
	for player, segments := range snap.AllSegments() {
		if player == snap.BotID() {
			continue
		}
		for _, s := range segments {
			blocked[s.Edge()] = true
		}
	}
	for _, s := range existing {
		delete(blocked, s.Edge())
	}

	var targets []game.Coord
	for _, d := range snap.Hand() {
		targets = append(targets, board.CityCells(d.City)...)
	}

	segments := ComputeBuildSegments(board, BuildRequest{
		Sources:  sources,
		Existing: existing,
		Budget:   budget,
		Blocked:  blocked,
		Targets:  targets,
	})
	if len(segments) == 0 {
		return nil
	}
	return []Option{{
		Action:   Build{Segments: segments, Cost: game.SegmentCost(segments)},
		Feasible: true,
		Why:      fmt.Sprintf("extend network toward demand cities (%d new segments)", len(segments)),
	}}
}

// moveOptions proposes placement for an unplaced train, or paths toward
// cities the bot can deliver to or pick up a wanted load at.
func moveOptions(snap *game.Snapshot) []Option {
	board := snap.Board()

	if !snap.Placed() {
		var options []Option
		seen := make(map[string]bool)
		for _, c := range board.MajorCities() {
			city := board.CityAt(c)
			if seen[city] {
				continue
			}
			seen[city] = true
			options = append(options, Option{
				Action:   Move{Path: []game.Coord{c}},
				Feasible: true,
				Why:      fmt.Sprintf("place the train at %s", city),
			})
		}
		return options
	}

	if snap.Ferry() == game.FerryJustArrived || snap.RemainingMovement() <= 0 {
		return nil
	}

	goals := make(map[string]bool)
	for _, load := range snap.Carried() {
		for _, d := range snap.Hand() {
			if d.Load == load {
				goals[d.City] = true
			}
		}
	}
	for _, d := range snap.Hand() {
		for city, loads := range snapLoadSources(snap) {
			for _, l := range loads {
				if l == d.Load {
					goals[city] = true
				}
			}
		}
	}

	ordered := make([]string, 0, len(goals))
	for city := range goals {
		ordered = append(ordered, city)
	}
	sort.Strings(ordered)

	var options []Option
	for _, city := range ordered {
		if board.CityAt(snap.Position()) == city {
			continue
		}
		path := routeToward(snap, city)
		if len(path) < 2 {
			continue
		}
		result := game.ValidateMove(snap, path)
		if !result.OK {
			continue
		}
		options = append(options, Option{
			Action:   Move{Path: path, Distance: result.Cost, EndsTurn: result.EndsTurn},
			Feasible: true,
			Why:      fmt.Sprintf("head toward %s", city),
		})
	}
	return options
}

// snapLoadSources lists the cities currently offering each snapshot's loads.
func snapLoadSources(snap *game.Snapshot) map[string][]game.Load {
	out := make(map[string][]game.Load)
	for _, city := range snap.Board().Cities() {
		if loads := snap.LoadsAt(city); len(loads) > 0 {
			out[city] = loads
		}
	}
	return out
}

func pickupOptions(snap *game.Snapshot) []Option {
	if !snap.Placed() {
		return nil
	}
	city := snap.Board().CityAt(snap.Position())
	if city == "" {
		return nil
	}
	full := len(snap.Carried()) >= snap.Train().Capacity()

	var options []Option
	seen := make(map[game.Load]bool)
	for _, load := range snap.LoadsAt(city) {
		if seen[load] {
			continue
		}
		seen[load] = true
		opt := Option{
			Action:   Pickup{Load: load, City: city},
			Feasible: !full,
			Why:      fmt.Sprintf("%s is available at %s", load, city),
		}
		if full {
			opt.Why = fmt.Sprintf("train is full (%d loads)", snap.Train().Capacity())
		}
		options = append(options, opt)
	}
	return options
}

func deliverOptions(snap *game.Snapshot) []Option {
	if !snap.Placed() {
		return nil
	}
	city := snap.Board().CityAt(snap.Position())
	if city == "" {
		return nil
	}

	var options []Option
	for _, load := range snap.Carried() {
		for _, d := range snap.Hand() {
			if d.City != city || d.Load != load {
				continue
			}
			options = append(options, Option{
				Action:   Deliver{Load: load, City: city, CardID: d.CardID, Payment: d.Payment},
				Feasible: true,
				Why:      fmt.Sprintf("demand card pays %d for %s at %s", d.Payment, load, city),
			})
		}
	}
	return options
}

func dropOptions(snap *game.Snapshot) []Option {
	if !snap.Placed() {
		return nil
	}
	var options []Option
	seen := make(map[game.Load]bool)
	for _, load := range snap.Carried() {
		if seen[load] {
			continue
		}
		seen[load] = true
		options = append(options, Option{
			Action:   Drop{Load: load},
			Feasible: true,
			Why:      fmt.Sprintf("free a slot by dropping %s", load),
		})
	}
	return options
}

func upgradeOptions(snap *game.Snapshot) []Option {
	var options []Option
	for _, target := range snap.Train().Upgrades() {
		feasible := snap.Cash() >= game.UpgradeCost && !snap.UpgradedThisTurn()
		why := fmt.Sprintf("upgrade %s to %s", snap.Train(), target)
		if snap.UpgradedThisTurn() {
			why = "already upgraded this turn"
		} else if snap.Cash() < game.UpgradeCost {
			why = fmt.Sprintf("cannot afford upgrade (%d < %d)", snap.Cash(), game.UpgradeCost)
		}
		options = append(options, Option{
			Action:   Upgrade{To: target, Cost: game.UpgradeCost},
			Feasible: feasible,
			Why:      why,
		})
	}
	return options
}

// routeToward finds the shortest legal path from the bot's position toward
// the named city over the union graph, truncated to this turn's remaining
// movement. Returns nil when no progress is possible.
func routeToward(snap *game.Snapshot, city string) []game.Coord {
	board := snap.Board()
	union := snap.Union()
	start := snap.Position()

	type entry struct {
		coord game.Coord
		cost  int
	}
	dist := map[game.Coord]int{start: 0}
	parent := make(map[game.Coord]game.Coord)
	queue := []entry{{start, 0}}

	var goal game.Coord
	found := false
	for len(queue) > 0 {
		// Pop the cheapest entry; the frontier stays small enough that
		// a linear scan beats maintaining a heap here.
		bi := 0
		for i := range queue {
			if queue[i].cost < queue[bi].cost {
				bi = i
			}
		}
		cur := queue[bi]
		queue = append(queue[:bi], queue[bi+1:]...)
		if cur.cost > dist[cur.coord] {
			continue
		}
		if board.CityAt(cur.coord) == city {
			goal, found = cur.coord, true
			break
		}

		neighbors := board.Neighbors(cur.coord)
		if partner, ok := board.FerryPartner(cur.coord); ok {
			neighbors = append(neighbors, partner)
		}
		for _, n := range neighbors {
			if !union.Connected(cur.coord, n) {
				continue
			}
			step := 1
			if board.SameCity(cur.coord, n) || board.IsFerryEdge(cur.coord, n) {
				step = 0
			}
			nd := cur.cost + step
			if d, seen := dist[n]; seen && nd >= d {
				continue
			}
			dist[n] = nd
			parent[n] = cur.coord
			queue = append(queue, entry{n, nd})
		}
	}
	if !found {
		return nil
	}

	var full []game.Coord
	for c := goal; ; c = parent[c] {
		full = append(full, c)
		if c == start {
			break
		}
	}
	for i, j := 0, len(full)-1; i < j; i, j = i+1, j-1 {
		full[i], full[j] = full[j], full[i]
	}

	// Truncate to the movement budget; a ferry crossing ends the turn.
	budget := snap.RemainingMovement()
	spent := 0
	end := 1
	for i := 1; i < len(full); i++ {
		from, to := full[i-1], full[i]
		step := 1
		if board.SameCity(from, to) || board.IsFerryEdge(from, to) {
			step = 0
		}
		if spent+step > budget {
			break
		}
		spent += step
		end = i + 1
		if board.IsFerryEdge(from, to) {
			break
		}
	}
	if end < 2 {
		return nil
	}
	return full[:end]
}
