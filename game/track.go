package game

import "boxcars/utils"

// TrackSegment is one undirected edge of built track. Segments are owned
// exclusively by one player; ownership lives in the per-player lists that
// carry them, not on the segment itself.
type TrackSegment struct {
	From Coord
	To   Coord
	Cost int
}

// Edge returns the canonical undirected edge of the segment.
func (s TrackSegment) Edge() Edge {
	return NewEdge(s.From, s.To)
}

// Endpoints returns the distinct coordinates touched by a segment list.
func Endpoints(segments []TrackSegment) []Coord {
	seen := make(map[Coord]bool, 2*len(segments))
	out := make([]Coord, 0, 2*len(segments))
	for _, s := range segments {
		for _, c := range []Coord{s.From, s.To} {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// SegmentCost sums the build cost of a segment list.
func SegmentCost(segments []TrackSegment) int {
	total := 0
	for _, s := range segments {
		total += s.Cost
	}
	return total
}

// UnionGraph merges every player's track into one movement-legality view.
// Ownership per edge is preserved for track-usage-fee accounting; city
// interiors and ferry links are legal for everyone and owned by no one.
type UnionGraph struct {
	board  *Topology
	owners map[Edge][]string
}

// BuildUnionGraph indexes all players' segments over the given board.
func BuildUnionGraph(board *Topology, networks map[string][]TrackSegment) *UnionGraph {
	g := &UnionGraph{
		board:  board,
		owners: make(map[Edge][]string),
	}
	for player, segments := range networks {
		for _, s := range segments {
			e := s.Edge()
			if !utils.Contains(g.owners[e], player) {
				g.owners[e] = append(g.owners[e], player)
			}
		}
	}
	return g
}

// Connected reports whether a train may traverse a-b: built track, the
// interior of a named city, or a ferry link.
func (g *UnionGraph) Connected(a, b Coord) bool {
	if len(g.owners[NewEdge(a, b)]) > 0 {
		return true
	}
	if g.board.SameCity(a, b) {
		return true
	}
	return g.board.IsFerryEdge(a, b)
}

// Owners returns the players whose track covers the edge a-b.
func (g *UnionGraph) Owners(a, b Coord) []string {
	owners := g.owners[NewEdge(a, b)]
	out := make([]string, len(owners))
	copy(out, owners)
	return out
}

// ExclusiveTo reports whether the edge is built and the given player has no
// claim to it, which makes it impassable for that player's builds.
func (g *UnionGraph) ExclusiveTo(a, b Coord, player string) bool {
	owners := g.owners[NewEdge(a, b)]
	return len(owners) > 0 && !utils.Contains(owners, player)
}

// Reaches reports whether the named city is attached to the network formed
// by the given segments, traversing own track, city interiors, and ferry
// links from the network's endpoints.
func Reaches(board *Topology, segments []TrackSegment, city string) bool {
	if len(segments) == 0 {
		return false
	}
	adj := make(map[Coord][]Coord, 2*len(segments))
	for _, s := range segments {
		adj[s.From] = append(adj[s.From], s.To)
		adj[s.To] = append(adj[s.To], s.From)
	}

	visited := make(map[Coord]bool)
	queue := Endpoints(segments)
	for _, c := range queue {
		visited[c] = true
	}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if board.CityAt(c) == city {
			return true
		}
		next := append([]Coord(nil), adj[c]...)
		if partner, ok := board.FerryPartner(c); ok {
			next = append(next, partner)
		}
		if name := board.CityAt(c); name != "" {
			next = append(next, board.CityCells(name)...)
		}
		for _, n := range next {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return false
}
