package game

// Terrain classifies a grid cell for building and movement purposes.
type Terrain int

const (
	Clear Terrain = iota
	Mountain
	Alpine
	SmallCity
	MediumCity
	MajorCity
	FerryPort
	Water
)

// Flat cost in currency units to terminate a new track segment on each
// terrain. Ferry ports carry a per-connection cost supplied by the ferry
// table instead, see Topology.BuildCost.
const (
	clearCost      = 1
	mountainCost   = 2
	alpineCost     = 5
	smallCityCost  = 3
	mediumCityCost = 3
	majorCityCost  = 5
)

func (t Terrain) String() string {
	switch t {
	case Clear:
		return "clear"
	case Mountain:
		return "mountain"
	case Alpine:
		return "alpine"
	case SmallCity:
		return "small city"
	case MediumCity:
		return "medium city"
	case MajorCity:
		return "major city"
	case FerryPort:
		return "ferry port"
	case Water:
		return "water"
	default:
		return "unknown"
	}
}

// BuildCost returns the flat cost of building a segment that ends on this
// terrain. ok is false for Water, which is never buildable.
func (t Terrain) BuildCost() (cost int, ok bool) {
	switch t {
	case Clear:
		return clearCost, true
	case Mountain:
		return mountainCost, true
	case Alpine:
		return alpineCost, true
	case SmallCity:
		return smallCityCost, true
	case MediumCity:
		return mediumCityCost, true
	case MajorCity:
		return majorCityCost, true
	case FerryPort:
		return 0, true
	default:
		return 0, false
	}
}

// IsCity reports whether a train may reverse direction on this terrain.
func (t Terrain) IsCity() bool {
	switch t {
	case SmallCity, MediumCity, MajorCity, FerryPort:
		return true
	default:
		return false
	}
}

// Crossing classifies a water feature crossed by a track segment.
type Crossing int

const (
	River Crossing = iota
	Lake
	Inlet
)

const (
	riverSurcharge = 2
	lakeSurcharge  = 3
	inletSurcharge = 3
)

// Surcharge returns the extra build cost for a segment crossing this feature.
func (c Crossing) Surcharge() int {
	switch c {
	case Lake:
		return lakeSurcharge
	case Inlet:
		return inletSurcharge
	default:
		return riverSurcharge
	}
}
