package game

import "sync"

// Default returns the process-wide standard board. It is built once from the
// compiled-in tables below and shared read-only across all games.
func Default() *Topology {
	defaultOnce.Do(func() {
		cells := make([]CellData, 0, defaultRows*defaultCols)
		for row := 0; row < defaultRows; row++ {
			for col := 0; col < defaultCols; col++ {
				cell := CellData{Row: row, Col: col, Terrain: Clear}
				if override, ok := defaultTerrain[Coord{row, col}]; ok {
					cell.Terrain = override.terrain
					cell.City = override.city
				}
				cells = append(cells, cell)
			}
		}
		t, err := NewTopology(cells, defaultFerries, defaultCrossings)
		if err != nil {
			panic("invalid compiled-in board: " + err.Error())
		}
		defaultBoard = t
	})
	return defaultBoard
}

var (
	defaultBoard *Topology
	defaultOnce  sync.Once
)

const (
	defaultRows = 10
	defaultCols = 12
)

type cellOverride struct {
	terrain Terrain
	city    string
}

// The standard board: a western/central-Europe grid. Row 0 is the northern
// coast; the Alpine band runs through rows 7-8.
var defaultTerrain = map[Coord]cellOverride{
	// North Sea and Baltic coast
	{0, 0}:  {terrain: Water},
	{0, 1}:  {terrain: Water},
	{0, 2}:  {terrain: Water},
	{0, 3}:  {terrain: Water},
	{0, 4}:  {terrain: FerryPort, city: "Sassnitz"},
	{0, 5}:  {terrain: Water},
	{0, 6}:  {terrain: Water},
	{0, 7}:  {terrain: Water},
	{0, 8}:  {terrain: FerryPort, city: "Trelleborg"},
	{0, 9}:  {terrain: Water},
	{0, 10}: {terrain: Water},
	{0, 11}: {terrain: Water},
	{1, 0}:  {terrain: Water},
	{1, 1}:  {terrain: Water},

	// Cities
	{1, 5}:  {terrain: MediumCity, city: "Hamburg"},
	{1, 10}: {terrain: SmallCity, city: "Gdansk"},
	{2, 7}:  {terrain: MajorCity, city: "Berlin"},
	{2, 8}:  {terrain: MajorCity, city: "Berlin"},
	{3, 7}:  {terrain: MajorCity, city: "Berlin"},
	{3, 3}:  {terrain: SmallCity, city: "Essen"},
	{3, 6}:  {terrain: SmallCity, city: "Leipzig"},
	{3, 10}: {terrain: SmallCity, city: "Krakow"},
	{4, 1}:  {terrain: MajorCity, city: "Paris"},
	{4, 2}:  {terrain: MajorCity, city: "Paris"},
	{5, 1}:  {terrain: MajorCity, city: "Paris"},
	{4, 4}:  {terrain: MediumCity, city: "Frankfurt"},
	{4, 8}:  {terrain: MediumCity, city: "Praha"},
	{5, 4}:  {terrain: SmallCity, city: "Strasbourg"},
	{6, 3}:  {terrain: SmallCity, city: "Zurich"},
	{6, 6}:  {terrain: MediumCity, city: "Munchen"},
	{6, 9}:  {terrain: MajorCity, city: "Wien"},
	{6, 10}: {terrain: MajorCity, city: "Wien"},
	{7, 9}:  {terrain: MajorCity, city: "Wien"},
	{7, 2}:  {terrain: SmallCity, city: "Lyon"},
	{9, 5}:  {terrain: MediumCity, city: "Milano"},

	// Mountain fringe and the Alpine band
	{5, 6}: {terrain: Mountain},
	{6, 5}: {terrain: Mountain},
	{7, 4}: {terrain: Mountain},
	{7, 8}: {terrain: Mountain},
	{8, 7}: {terrain: Mountain},
	{7, 5}: {terrain: Alpine},
	{7, 6}: {terrain: Alpine},
	{7, 7}: {terrain: Alpine},
	{8, 4}: {terrain: Alpine},
	{8, 5}: {terrain: Alpine},
	{8, 6}: {terrain: Alpine},
}

// One Baltic ferry between the two port cells.
var defaultFerries = []FerryData{
	{A: Coord{0, 4}, B: Coord{0, 8}, Cost: 8},
}

var defaultCrossings = []CrossingData{
	// Rhine
	{A: Coord{4, 3}, B: Coord{4, 4}, Kind: River},
	{A: Coord{5, 3}, B: Coord{5, 4}, Kind: River},
	// Elbe
	{A: Coord{2, 6}, B: Coord{2, 7}, Kind: River},
	// Donau
	{A: Coord{6, 8}, B: Coord{6, 9}, Kind: River},
	// Approach to the Sassnitz port crosses the bay
	{A: Coord{1, 4}, B: Coord{0, 4}, Kind: Inlet},
	// Lake Geneva
	{A: Coord{8, 2}, B: Coord{9, 2}, Kind: Lake},
}

// DefaultSources maps each city to the loads it produces on the standard
// board. Every load in the standard demand deck has at least one source here.
func DefaultSources() map[string][]Load {
	out := make(map[string][]Load, len(defaultSources))
	for city, loads := range defaultSources {
		cp := make([]Load, len(loads))
		copy(cp, loads)
		out[city] = cp
	}
	return out
}

var defaultSources = map[string][]Load{
	"Essen":     {Coal, Steel},
	"Krakow":    {Coal},
	"Wien":      {Steel},
	"Paris":     {Wine, Cheese},
	"Lyon":      {Wine},
	"Munchen":   {Beer},
	"Praha":     {Beer, Wheat},
	"Zurich":    {Cheese},
	"Gdansk":    {Wheat},
	"Frankfurt": {Cars},
	"Milano":    {Cars},
	"Berlin":    {Machinery},
	"Hamburg":   {Machinery},
}
