package bot

import (
	"container/heap"
	"sort"

	"boxcars/game"
)

// BuildRequest describes one pathfinding run for new track.
type BuildRequest struct {
	// Sources are the coordinates the search grows from: the bot's track
	// endpoints, or major-city seeds when it owns no track yet.
	Sources []game.Coord
	// Existing is the bot's current network; its edges cost nothing to
	// traverse and are never re-bought.
	Existing []game.TrackSegment
	// Budget caps the total cost of the returned segments.
	Budget int
	// MaxSegments caps how many segments are returned; 0 means no cap.
	MaxSegments int
	// Blocked edges belong exclusively to opponents and are impassable.
	Blocked map[game.Edge]bool
	// Targets are cells of cities the bot's open demands want reached.
	// When empty, the search instead favors the longest affordable run.
	Targets []game.Coord
}

// buildNode is one heap entry of the Dijkstra frontier.
type buildNode struct {
	cost  int
	coord game.Coord
	seq   int // insertion order, breaks cost ties deterministically
}

type buildHeap []buildNode

func (h buildHeap) Len() int { return len(h) }
func (h buildHeap) Less(i, j int) bool {
	if h[i].cost != h[j].cost {
		return h[i].cost < h[j].cost
	}
	return h[i].seq < h[j].seq
}
func (h buildHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *buildHeap) Push(x any) { *h = append(*h, x.(buildNode)) }
func (h *buildHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// ComputeBuildSegments proposes a contiguous run of new track within budget.
// Multi-source Dijkstra over the hex grid: edge weight is the destination
// terrain cost (or ferry connection cost) plus any water-crossing surcharge;
// the bot's own edges cost nothing; opponents' exclusive edges are
// impassable. With targets, the chosen path ends geometrically closest to a
// not-yet-connected target; without, it adds the most new segments within
// budget. An empty result means no beneficial build exists, which is not an
// error.
func ComputeBuildSegments(board *game.Topology, req BuildRequest) []game.TrackSegment {
	if len(req.Sources) == 0 || req.Budget <= 0 {
		return nil
	}

	own := make(map[game.Edge]bool, len(req.Existing))
	for _, s := range req.Existing {
		own[s.Edge()] = true
	}

	dist := make(map[game.Coord]int)
	parent := make(map[game.Coord]game.Coord)
	hasParent := make(map[game.Coord]bool)
	newSegs := make(map[game.Coord]int)

	frontier := &buildHeap{}
	heap.Init(frontier)
	seq := 0
	// A source's city siblings and ferry partner are zero-cost sources too;
	// seeding them keeps extraction from starting on a free edge and stalling.
	pending := append([]game.Coord(nil), req.Sources...)
	for len(pending) > 0 {
		src := pending[0]
		pending = pending[1:]
		if board.TerrainAt(src) == game.Water {
			continue
		}
		if _, seeded := dist[src]; seeded {
			continue
		}
		dist[src] = 0
		heap.Push(frontier, buildNode{cost: 0, coord: src, seq: seq})
		seq++
		if city := board.CityAt(src); city != "" {
			pending = append(pending, board.CityCells(city)...)
		}
		if partner, ok := board.FerryPartner(src); ok {
			pending = append(pending, partner)
		}
	}

	settled := make(map[game.Coord]bool)
	for frontier.Len() > 0 {
		node := heap.Pop(frontier).(buildNode)
		u := node.coord
		if settled[u] || node.cost > dist[u] {
			continue
		}
		settled[u] = true

		neighbors := board.Neighbors(u)
		if partner, ok := board.FerryPartner(u); ok {
			neighbors = append(neighbors, partner)
		}
		for _, v := range neighbors {
			weight, isNew, passable := edgeWeight(board, own, req.Blocked, u, v)
			if !passable {
				continue
			}
			nd := dist[u] + weight
			if nd > req.Budget {
				continue
			}
			// Strict-less relaxation keeps every zero-cost source
			// as its own root, so paths begin at the frontier.
			if d, seen := dist[v]; seen && nd >= d {
				continue
			}
			dist[v] = nd
			parent[v] = u
			hasParent[v] = true
			if isNew {
				newSegs[v] = newSegs[u] + 1
			} else {
				newSegs[v] = newSegs[u]
			}
			heap.Push(frontier, buildNode{cost: nd, coord: v, seq: seq})
			seq++
		}
	}

	terminal, found := selectTerminal(board, req, dist, newSegs)
	if !found {
		return nil
	}
	return extractSegments(board, req, own, parent, hasParent, terminal)
}

// edgeWeight prices traversing u->v during the search. Own track and ferry
// links are free but add no new segment; city interiors are free because
// internal movement already covers them.
func edgeWeight(board *game.Topology, own, blocked map[game.Edge]bool, u, v game.Coord) (weight int, isNew, passable bool) {
	edge := game.NewEdge(u, v)
	if own[edge] {
		return 0, false, true
	}
	if board.IsFerryEdge(u, v) {
		return 0, false, true
	}
	if board.SameCity(u, v) {
		return 0, false, true
	}
	if blocked[edge] {
		return 0, false, false
	}
	cost, ok := board.BuildCost(u, v)
	if !ok {
		return 0, false, false
	}
	return cost, true, true
}

// selectTerminal applies the path selection policy over the settled cells.
// Candidates are scanned in row-major order so residual ties resolve the
// same way on every run.
func selectTerminal(board *game.Topology, req BuildRequest, dist, newSegs map[game.Coord]int) (game.Coord, bool) {
	targets := unconnectedTargets(board, req)

	candidates := make([]game.Coord, 0, len(dist))
	for c := range dist {
		if newSegs[c] > 0 {
			candidates = append(candidates, c)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Row != candidates[j].Row {
			return candidates[i].Row < candidates[j].Row
		}
		return candidates[i].Col < candidates[j].Col
	})

	var best game.Coord
	found := false
	bestDist2 := 0.0
	bestSegs := 0
	bestCost := 0

	for _, c := range candidates {
		segs := newSegs[c]
		if len(targets) > 0 {
			d2 := minDistance2(board, c, targets)
			if !found || d2 < bestDist2 || (d2 == bestDist2 && segs < bestSegs) {
				best, found = c, true
				bestDist2, bestSegs = d2, segs
			}
		} else {
			cost := dist[c]
			if !found || segs > bestSegs || (segs == bestSegs && cost < bestCost) {
				best, found = c, true
				bestSegs, bestCost = segs, cost
			}
		}
	}
	return best, found
}

// unconnectedTargets filters the requested targets down to those whose city
// the existing network does not already reach.
func unconnectedTargets(board *game.Topology, req BuildRequest) []game.Coord {
	var out []game.Coord
	for _, t := range req.Targets {
		city := board.CityAt(t)
		if city != "" && game.Reaches(board, req.Existing, city) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func minDistance2(board *game.Topology, c game.Coord, targets []game.Coord) float64 {
	best := board.Distance2(c, targets[0])
	for _, t := range targets[1:] {
		if d := board.Distance2(c, t); d < best {
			best = d
		}
	}
	return best
}

// extractSegments walks the chosen path from its root, emitting new segments
// until the budget, the segment cap, or a discontinuity (an already-built
// edge, a city interior, or a ferry crossing) is reached. Stopping rather
// than skipping keeps the returned list contiguous.
func extractSegments(board *game.Topology, req BuildRequest, own map[game.Edge]bool, parent map[game.Coord]game.Coord, hasParent map[game.Coord]bool, terminal game.Coord) []game.TrackSegment {
	var path []game.Coord
	for c := terminal; ; c = parent[c] {
		path = append(path, c)
		if !hasParent[c] {
			break
		}
	}
	// Reverse into root-first order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	var segments []game.TrackSegment
	spent := 0
	for i := 1; i < len(path); i++ {
		from, to := path[i-1], path[i]
		edge := game.NewEdge(from, to)
		if own[edge] || board.IsFerryEdge(from, to) || board.SameCity(from, to) {
			break
		}
		cost, ok := board.BuildCost(from, to)
		if !ok {
			break
		}
		if spent+cost > req.Budget {
			break
		}
		segments = append(segments, game.TrackSegment{From: from, To: to, Cost: cost})
		spent += cost
		if req.MaxSegments > 0 && len(segments) >= req.MaxSegments {
			break
		}
	}
	return segments
}
