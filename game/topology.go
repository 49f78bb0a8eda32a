package game

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
)

// Coord identifies a hex grid cell by row and column.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Key returns the canonical "row,col" form used to key cached lookups.
func (c Coord) Key() string {
	return fmt.Sprintf("%d,%d", c.Row, c.Col)
}

func (c Coord) String() string {
	return c.Key()
}

// GridPoint is one immutable cell of the loaded board.
type GridPoint struct {
	Coord   Coord
	Terrain Terrain
	City    string // empty when the cell is not part of a named city
}

// Edge is an undirected pair of coordinates in canonical order.
type Edge struct {
	A, B Coord
}

// NewEdge builds the canonical form of the undirected edge between a and b.
func NewEdge(a, b Coord) Edge {
	if b.Row < a.Row || (b.Row == a.Row && b.Col < a.Col) {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// CellData, FerryData and CrossingData are the inbound static-data contract:
// the persistence collaborator hands these to NewTopology exactly once.
type CellData struct {
	Row     int     `json:"row"`
	Col     int     `json:"col"`
	Terrain Terrain `json:"terrain"`
	City    string  `json:"city,omitempty"`
}

type FerryData struct {
	A    Coord `json:"a"`
	B    Coord `json:"b"`
	Cost int   `json:"cost"`
}

type CrossingData struct {
	A    Coord    `json:"a"`
	B    Coord    `json:"b"`
	Kind Crossing `json:"kind"`
}

// Topology is the static hex board: cells, named cities, ferry links and
// water crossings. It is read-only after construction and safe to share
// across concurrent turns.
type Topology struct {
	points    map[Coord]GridPoint
	cities    map[string][]Coord
	ferries   map[Edge]int
	partners  map[Coord]Coord
	crossings map[Edge]Crossing
}

const (
	ferryCostMin = 4
	ferryCostMax = 16
)

// NewTopology validates and indexes the static board tables.
func NewTopology(cells []CellData, ferries []FerryData, crossings []CrossingData) (*Topology, error) {
	t := &Topology{
		points:    make(map[Coord]GridPoint, len(cells)),
		cities:    make(map[string][]Coord),
		ferries:   make(map[Edge]int, len(ferries)),
		partners:  make(map[Coord]Coord, 2*len(ferries)),
		crossings: make(map[Edge]Crossing, len(crossings)),
	}

	for _, cell := range cells {
		c := Coord{Row: cell.Row, Col: cell.Col}
		if _, ok := t.points[c]; ok {
			return nil, fmt.Errorf("duplicate cell at %s", c)
		}
		t.points[c] = GridPoint{Coord: c, Terrain: cell.Terrain, City: cell.City}
		if cell.City != "" {
			t.cities[cell.City] = append(t.cities[cell.City], c)
		}
	}

	for _, f := range ferries {
		for _, end := range []Coord{f.A, f.B} {
			p, ok := t.points[end]
			if !ok {
				return nil, fmt.Errorf("ferry endpoint %s is not on the board", end)
			}
			if p.Terrain != FerryPort {
				return nil, fmt.Errorf("ferry endpoint %s is %s, not a ferry port", end, p.Terrain)
			}
		}
		if f.Cost < ferryCostMin || f.Cost > ferryCostMax {
			return nil, fmt.Errorf("ferry %s-%s cost %d outside %d..%d", f.A, f.B, f.Cost, ferryCostMin, ferryCostMax)
		}
		t.ferries[NewEdge(f.A, f.B)] = f.Cost
		t.partners[f.A] = f.B
		t.partners[f.B] = f.A
	}

	for _, x := range crossings {
		if _, ok := t.points[x.A]; !ok {
			return nil, fmt.Errorf("crossing endpoint %s is not on the board", x.A)
		}
		if _, ok := t.points[x.B]; !ok {
			return nil, fmt.Errorf("crossing endpoint %s is not on the board", x.B)
		}
		t.crossings[NewEdge(x.A, x.B)] = x.Kind
	}

	return t, nil
}

// boardFile is the on-disk shape read by LoadTopology.
type boardFile struct {
	Cells     []CellData     `json:"cells"`
	Ferries   []FerryData    `json:"ferries"`
	Crossings []CrossingData `json:"crossings"`
}

// LoadTopology reads a board from a JSON file. A missing or malformed file is
// an error the caller should treat as fatal at startup.
func LoadTopology(path string) (*Topology, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read board file: %w", err)
	}
	var file boardFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse board file %s: %w", path, err)
	}
	t, err := NewTopology(file.Cells, file.Ferries, file.Crossings)
	if err != nil {
		return nil, fmt.Errorf("invalid board file %s: %w", path, err)
	}
	return t, nil
}

// At returns the grid point at c, if c is on the board.
func (t *Topology) At(c Coord) (GridPoint, bool) {
	p, ok := t.points[c]
	return p, ok
}

// TerrainAt returns the terrain at c. Off-board coordinates report Water,
// which nothing may build on or move through.
func (t *Topology) TerrainAt(c Coord) Terrain {
	p, ok := t.points[c]
	if !ok {
		return Water
	}
	return p.Terrain
}

// CityAt returns the city name at c, or "" when c carries no city.
func (t *Topology) CityAt(c Coord) string {
	return t.points[c].City
}

// CityCells returns every cell belonging to the named city.
func (t *Topology) CityCells(name string) []Coord {
	cells := t.cities[name]
	out := make([]Coord, len(cells))
	copy(out, cells)
	return out
}

// Cities returns the names of every city on the board, sorted.
func (t *Topology) Cities() []string {
	out := make([]string, 0, len(t.cities))
	for name := range t.cities {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SameCity reports whether a and b are two cells of the same named city.
func (t *Topology) SameCity(a, b Coord) bool {
	ca := t.points[a].City
	return ca != "" && ca == t.points[b].City && a != b
}

// MajorCities returns one entry per cell of MajorCity terrain, in row-major
// order so callers see a stable sequence.
func (t *Topology) MajorCities() []Coord {
	var out []Coord
	for c, p := range t.points {
		if p.Terrain == MajorCity {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Hex neighbor offsets. Even and odd rows stagger in opposite directions,
// so each parity carries its own pattern.
var (
	evenRowOffsets = [6]Coord{{-1, -1}, {-1, 0}, {0, -1}, {0, 1}, {1, -1}, {1, 0}}
	oddRowOffsets  = [6]Coord{{-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, 0}, {1, 1}}
)

// Neighbors returns the on-board, non-water hex neighbors of c.
// At most 6 cells are returned.
func (t *Topology) Neighbors(c Coord) []Coord {
	offsets := &evenRowOffsets
	if c.Row%2 != 0 {
		offsets = &oddRowOffsets
	}
	out := make([]Coord, 0, 6)
	for _, d := range offsets {
		n := Coord{Row: c.Row + d.Row, Col: c.Col + d.Col}
		p, ok := t.points[n]
		if !ok || p.Terrain == Water {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Adjacent reports whether a and b are hex neighbors (water included;
// callers filter buildability separately).
func (t *Topology) Adjacent(a, b Coord) bool {
	offsets := &evenRowOffsets
	if a.Row%2 != 0 {
		offsets = &oddRowOffsets
	}
	for _, d := range offsets {
		if b.Row == a.Row+d.Row && b.Col == a.Col+d.Col {
			return true
		}
	}
	return false
}

// Centroid converts grid coordinates to a canonical planar point. Only used
// for geometric tie-breaks in pathfinding, never for rules.
func (t *Topology) Centroid(c Coord) (x, y float64) {
	x = float64(c.Col)
	if c.Row%2 != 0 {
		x += 0.5
	}
	y = float64(c.Row) * math.Sqrt(3) / 2
	return x, y
}

// Distance2 returns the squared centroid distance between two cells.
func (t *Topology) Distance2(a, b Coord) float64 {
	ax, ay := t.Centroid(a)
	bx, by := t.Centroid(b)
	dx, dy := ax-bx, ay-by
	return dx*dx + dy*dy
}

// FerryCost returns the connection cost of the ferry between a and b.
func (t *Topology) FerryCost(a, b Coord) (int, bool) {
	cost, ok := t.ferries[NewEdge(a, b)]
	return cost, ok
}

// FerryPartner returns the far port of the ferry serving c.
func (t *Topology) FerryPartner(c Coord) (Coord, bool) {
	p, ok := t.partners[c]
	return p, ok
}

// IsFerryEdge reports whether a-b is a registered ferry link.
func (t *Topology) IsFerryEdge(a, b Coord) bool {
	_, ok := t.ferries[NewEdge(a, b)]
	return ok
}

// BuildCost prices a new track segment from a to b: the destination terrain
// cost, or the ferry connection cost when the segment terminates at a ferry
// port, plus any water-crossing surcharge on the edge. ok is false when the
// segment cannot be built at all: off-board or water destination, two cells
// of the same named city, or a non-adjacent pair.
func (t *Topology) BuildCost(from, to Coord) (cost int, ok bool) {
	dst, onBoard := t.points[to]
	if !onBoard || dst.Terrain == Water {
		return 0, false
	}
	if t.SameCity(from, to) {
		return 0, false
	}
	if !t.Adjacent(from, to) {
		return 0, false
	}
	if dst.Terrain == FerryPort {
		partner, hasFerry := t.partners[to]
		if !hasFerry {
			return 0, false
		}
		cost = t.ferries[NewEdge(to, partner)]
	} else {
		cost, ok = dst.Terrain.BuildCost()
		if !ok {
			return 0, false
		}
	}
	if x, crossed := t.crossings[NewEdge(from, to)]; crossed {
		cost += x.Surcharge()
	}
	return cost, true
}
