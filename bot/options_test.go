package bot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"boxcars/game"
)

// botSnapshot freezes a snapshot positioned at Berlin on the default board.
// Tests adjust the builder through mutate before the freeze.
func botSnapshot(t *testing.T, mutate func(*game.SnapshotData)) *game.Snapshot {
	t.Helper()
	data := game.SnapshotData{
		GameID:   "game-1",
		Status:   "active",
		Turn:     6,
		BotID:    "tester",
		Cash:     50,
		Placed:   true,
		Position: game.Coord{Row: 2, Col: 7},
		Train:    game.Freight,
		Loads:    game.DefaultSources(),
		Board:    game.Default(),
	}
	if mutate != nil {
		mutate(&data)
	}
	if data.AllSegments == nil && len(data.Segments) > 0 {
		data.AllSegments = map[string][]game.TrackSegment{data.BotID: data.Segments}
	}
	return data.Freeze()
}

// berlinLeipzig is one buildable segment from a Berlin cell to Leipzig.
func berlinLeipzig() game.TrackSegment {
	return game.TrackSegment{From: game.Coord{Row: 2, Col: 7}, To: game.Coord{Row: 3, Col: 6}, Cost: 3}
}

func kindsOf(options []Option) map[ActionKind]int {
	counts := make(map[ActionKind]int)
	for _, o := range options {
		counts[o.Action.Kind()]++
	}
	return counts
}

func TestGenerate(t *testing.T) {
	t.Run("unplaced bot gets one placement per major city, never cargo actions", func(t *testing.T) {
		snap := botSnapshot(t, func(d *game.SnapshotData) {
			d.Placed = false
		})
		options := Generate(snap)
		counts := kindsOf(options)

		require.Equal(t, len(snap.Board().MajorCities())/3, counts[MoveTrain],
			"one placement option per three-cell major city")
		for _, o := range options {
			if m, ok := o.Action.(Move); ok {
				require.Len(t, m.Path, 1, "placement paths hold a single cell")
				require.Equal(t, game.MajorCity, snap.Board().TerrainAt(m.Path[0]))
			}
		}
		require.Zero(t, counts[PickupLoad])
		require.Zero(t, counts[DeliverLoad])
		require.Zero(t, counts[DropLoad])
		require.Equal(t, 1, counts[DiscardHand])
		require.Equal(t, 1, counts[PassTurn])
	})

	t.Run("pass and discard are always offered", func(t *testing.T) {
		snap := botSnapshot(t, func(d *game.SnapshotData) {
			d.Cash = 0
			d.Ferry = game.FerryJustArrived
		})
		counts := kindsOf(Generate(snap))
		require.Equal(t, 1, counts[PassTurn])
		require.Equal(t, 1, counts[DiscardHand])
	})

	t.Run("pickup offered at the current city, infeasible when full", func(t *testing.T) {
		snap := botSnapshot(t, nil)
		var pickups []Option
		for _, o := range Generate(snap) {
			if _, ok := o.Action.(Pickup); ok {
				pickups = append(pickups, o)
			}
		}
		require.Len(t, pickups, 1, "Berlin offers exactly one load kind")
		require.True(t, pickups[0].Feasible)
		require.Equal(t, game.Machinery, pickups[0].Action.(Pickup).Load)

		full := botSnapshot(t, func(d *game.SnapshotData) {
			d.Carried = []game.Load{game.Coal, game.Wine}
		})
		for _, o := range Generate(full) {
			if _, ok := o.Action.(Pickup); ok {
				require.False(t, o.Feasible, "a freight train holding two loads is full")
				require.Contains(t, o.Why, "full")
			}
		}
	})

	t.Run("deliver offered only for a carried load with a matching demand here", func(t *testing.T) {
		snap := botSnapshot(t, func(d *game.SnapshotData) {
			d.Carried = []game.Load{game.Machinery}
			d.Hand = []game.Demand{
				{CardID: "c1", City: "Berlin", Load: game.Machinery, Payment: 25},
				{CardID: "c2", City: "Paris", Load: game.Machinery, Payment: 40},
			}
		})
		var delivers []Deliver
		for _, o := range Generate(snap) {
			if d, ok := o.Action.(Deliver); ok {
				require.True(t, o.Feasible)
				delivers = append(delivers, d)
			}
		}
		require.Len(t, delivers, 1, "only the Berlin demand matches the current city")
		require.Equal(t, "c1", delivers[0].CardID)
		require.Equal(t, 25, delivers[0].Payment)
	})

	t.Run("upgrade options track cash and the once-per-turn rule", func(t *testing.T) {
		snap := botSnapshot(t, nil)
		upgrades := 0
		for _, o := range Generate(snap) {
			if _, ok := o.Action.(Upgrade); ok {
				upgrades++
				require.True(t, o.Feasible, "50 cash affords the 20 upgrade")
			}
		}
		require.Equal(t, 2, upgrades, "a freight train has two upgrade targets")

		for _, o := range Generate(botSnapshot(t, func(d *game.SnapshotData) { d.Cash = 5 })) {
			if _, ok := o.Action.(Upgrade); ok {
				require.False(t, o.Feasible)
				require.Contains(t, o.Why, "afford")
			}
		}
		for _, o := range Generate(botSnapshot(t, func(d *game.SnapshotData) { d.UpgradedThisTurn = true })) {
			if _, ok := o.Action.(Upgrade); ok {
				require.False(t, o.Feasible)
				require.Contains(t, o.Why, "already upgraded")
			}
		}
	})

	t.Run("movement proposed along own track toward a deliverable city", func(t *testing.T) {
		snap := botSnapshot(t, func(d *game.SnapshotData) {
			d.Segments = []game.TrackSegment{berlinLeipzig()}
			d.Carried = []game.Load{game.Coal}
			d.Hand = []game.Demand{{CardID: "c1", City: "Leipzig", Load: game.Coal, Payment: 18}}
		})
		var moves []Move
		for _, o := range Generate(snap) {
			if m, ok := o.Action.(Move); ok {
				moves = append(moves, m)
			}
		}
		require.Len(t, moves, 1)
		require.Equal(t, game.Coord{Row: 3, Col: 6}, moves[0].Path[len(moves[0].Path)-1],
			"the path ends at Leipzig")
		require.Equal(t, 1, moves[0].Distance)
	})

	t.Run("no movement after a ferry arrival", func(t *testing.T) {
		snap := botSnapshot(t, func(d *game.SnapshotData) {
			d.Ferry = game.FerryJustArrived
			d.Segments = []game.TrackSegment{berlinLeipzig()}
			d.Carried = []game.Load{game.Coal}
			d.Hand = []game.Demand{{CardID: "c1", City: "Leipzig", Load: game.Coal, Payment: 18}}
		})
		require.Zero(t, kindsOf(Generate(snap))[MoveTrain])
	})

	t.Run("drop offered per distinct carried load", func(t *testing.T) {
		snap := botSnapshot(t, func(d *game.SnapshotData) {
			d.Carried = []game.Load{game.Wine, game.Wine}
		})
		counts := kindsOf(Generate(snap))
		require.Equal(t, 1, counts[DropLoad], "duplicate loads collapse to one drop option")
	})

	t.Run("build proposed within the cash and turn budgets", func(t *testing.T) {
		snap := botSnapshot(t, func(d *game.SnapshotData) {
			d.Segments = []game.TrackSegment{berlinLeipzig()}
			d.Hand = []game.Demand{{CardID: "c1", City: "Praha", Load: game.Beer, Payment: 22}}
		})
		var builds []Build
		for _, o := range Generate(snap) {
			if b, ok := o.Action.(Build); ok {
				require.True(t, o.Feasible)
				builds = append(builds, b)
			}
		}
		require.Len(t, builds, 1)
		require.LessOrEqual(t, builds[0].Cost, game.BuildBudget)
		require.LessOrEqual(t, builds[0].Cost, snap.Cash())
		require.Equal(t, game.SegmentCost(builds[0].Segments), builds[0].Cost)
	})

	t.Run("no build when cash is gone", func(t *testing.T) {
		snap := botSnapshot(t, func(d *game.SnapshotData) { d.Cash = 0 })
		require.Zero(t, kindsOf(Generate(snap))[BuildTrack])
	})
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		action Action
		want   string
	}{
		{Build{Segments: make([]game.TrackSegment, 2), Cost: 5}, "build 2 segments for 5"},
		{Move{Path: []game.Coord{{Row: 2, Col: 7}}}, "place train at"},
		{Pickup{Load: game.Coal, City: "Essen"}, "pick up Coal at Essen"},
		{Deliver{Load: game.Wine, City: "Paris", Payment: 30}, "deliver Wine to Paris for 30"},
		{Drop{Load: game.Wheat}, "drop Wheat"},
		{Upgrade{To: game.FastFreight}, "upgrade to"},
		{Discard{}, "discard hand"},
		{Pass{}, "pass"},
	}
	for _, c := range cases {
		require.Contains(t, Option{Action: c.action}.Describe(), c.want)
	}
}
