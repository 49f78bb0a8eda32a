package bot

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"boxcars/game"
)

func scoreOne(t *testing.T, snap *game.Snapshot, profile Profile, mem Memory, action Action) float64 {
	t.Helper()
	scored := Score([]Option{{Action: action, Feasible: true}}, snap, profile, mem)
	require.Len(t, scored, 1)
	return scored[0].Score
}

func TestScore(t *testing.T) {
	balanced := Profile{Name: "test", Archetype: Balanced, Skill: 0.8}

	t.Run("pass scores exactly zero, infeasible scores negative infinity", func(t *testing.T) {
		snap := botSnapshot(t, nil)
		scored := Score([]Option{
			{Action: Pass{}, Feasible: true},
			{Action: Upgrade{To: game.FastFreight, Cost: game.UpgradeCost}, Feasible: false},
		}, snap, balanced, Memory{})

		require.Equal(t, PassTurn, scored[0].Action.Kind(), "pass sorts above anything infeasible")
		require.Zero(t, scored[0].Score)
		require.True(t, math.IsInf(scored[1].Score, -1))
	})

	t.Run("delivery outranks pickup outranks build outranks bare movement", func(t *testing.T) {
		snap := botSnapshot(t, func(d *game.SnapshotData) {
			d.Segments = []game.TrackSegment{berlinLeipzig()}
			d.Hand = []game.Demand{{CardID: "c1", City: "Leipzig", Load: game.Machinery, Payment: 20}}
		})
		scored := Score([]Option{
			{Action: Pass{}, Feasible: true},
			{Action: Move{Path: []game.Coord{{Row: 2, Col: 7}, {Row: 3, Col: 6}}, Distance: 1}, Feasible: true},
			{Action: Build{Segments: []game.TrackSegment{berlinLeipzig()}, Cost: 3}, Feasible: true},
			{Action: Pickup{Load: game.Machinery, City: "Berlin"}, Feasible: true},
			{Action: Deliver{Load: game.Machinery, City: "Leipzig", CardID: "c1", Payment: 20}, Feasible: true},
		}, snap, balanced, Memory{})

		var kinds []ActionKind
		for _, o := range scored {
			kinds = append(kinds, o.Action.Kind())
		}
		require.Equal(t, []ActionKind{DeliverLoad, PickupLoad, BuildTrack, MoveTrain, PassTurn}, kinds)
	})

	t.Run("sorting is descending and stable", func(t *testing.T) {
		snap := botSnapshot(t, nil)
		scored := Score(Generate(snap), snap, balanced, Memory{})
		for i := 1; i < len(scored); i++ {
			require.GreaterOrEqual(t, scored[i-1].Score, scored[i].Score)
		}
	})

	t.Run("pickup with an unreachable destination is heavily discounted", func(t *testing.T) {
		pickup := Pickup{Load: game.Machinery, City: "Berlin"}

		reachable := botSnapshot(t, func(d *game.SnapshotData) {
			d.Segments = []game.TrackSegment{berlinLeipzig()}
			d.Hand = []game.Demand{{CardID: "c1", City: "Leipzig", Load: game.Machinery, Payment: 20}}
		})
		unreachable := botSnapshot(t, func(d *game.SnapshotData) {
			d.Segments = []game.TrackSegment{berlinLeipzig()}
			d.Hand = []game.Demand{{CardID: "c1", City: "Paris", Load: game.Machinery, Payment: 20}}
		})
		deadWeight := botSnapshot(t, func(d *game.SnapshotData) {
			d.Segments = []game.TrackSegment{berlinLeipzig()}
			d.Hand = []game.Demand{{CardID: "c1", City: "Paris", Load: game.Machinery, Payment: 20}}
			d.Carried = []game.Load{game.Wine}
		})

		full := scoreOne(t, reachable, balanced, Memory{}, pickup)
		cut := scoreOne(t, unreachable, balanced, Memory{}, pickup)
		relieved := scoreOne(t, deadWeight, balanced, Memory{}, pickup)

		require.Greater(t, full, relieved, "a reachable destination beats any discounted pickup")
		require.Greater(t, relieved, cut, "existing dead weight relaxes the penalty")
		require.Greater(t, cut, 0.0)
	})

	t.Run("discard pays off only for a provably unusable hand", func(t *testing.T) {
		unusable := botSnapshot(t, func(d *game.SnapshotData) {
			d.Segments = []game.TrackSegment{berlinLeipzig()}
			d.Hand = []game.Demand{
				{CardID: "c1", City: "Paris", Load: game.Wine, Payment: 20},
				{CardID: "c2", City: "Lyon", Load: game.Wine, Payment: 15},
			}
		})
		require.InDelta(t, discardScale, scoreOne(t, unusable, balanced, Memory{}, Discard{}), 1e-9)

		trackless := botSnapshot(t, func(d *game.SnapshotData) {
			d.Hand = []game.Demand{{CardID: "c1", City: "Paris", Load: game.Wine, Payment: 20}}
		})
		require.InDelta(t, discardBase, scoreOne(t, trackless, balanced, Memory{}, Discard{}), 1e-9,
			"no network is no evidence the hand is unusable")

		usable := botSnapshot(t, func(d *game.SnapshotData) {
			d.Segments = []game.TrackSegment{berlinLeipzig()}
			d.Hand = []game.Demand{{CardID: "c1", City: "Leipzig", Load: game.Wine, Payment: 20}}
		})
		require.Zero(t, scoreOne(t, usable, balanced, Memory{}, Discard{}))

		veteran := scoreOne(t, unusable, balanced, Memory{Deliveries: hoardDeliveries}, Discard{})
		require.InDelta(t, discardBase, veteran, 1e-9, "a delivering bot rides out a bad hand")
	})

	t.Run("upgrade timing: suppressed early, boosted when overdue or flush", func(t *testing.T) {
		upgrade := Upgrade{To: game.FastFreight, Cost: game.UpgradeCost}

		early := botSnapshot(t, func(d *game.SnapshotData) { d.Turn = 1 })
		require.Negative(t, scoreOne(t, early, balanced, Memory{}, upgrade))

		mid := botSnapshot(t, func(d *game.SnapshotData) { d.Turn = 6 })
		midScore := scoreOne(t, mid, balanced, Memory{Deliveries: 1}, upgrade)
		require.Positive(t, midScore)

		overdue := botSnapshot(t, func(d *game.SnapshotData) { d.Turn = 12 })
		overdueScore := scoreOne(t, overdue, balanced, Memory{Deliveries: 1}, upgrade)
		require.InDelta(t, overdueUpgradeBonus, overdueScore-midScore, 1e-9)

		flush := botSnapshot(t, func(d *game.SnapshotData) {
			d.Turn = 6
			d.Cash = flushCashFloor
		})
		require.InDelta(t, flushCashBoost,
			scoreOne(t, flush, balanced, Memory{Deliveries: 1}, upgrade)-midScore, 1e-9)
	})

	t.Run("hauler values extra capacity", func(t *testing.T) {
		snap := botSnapshot(t, func(d *game.SnapshotData) { d.Turn = 8 })
		hauler := Profile{Name: "h", Archetype: Hauler, Skill: 0.8}
		heavy := Upgrade{To: game.HeavyFreight, Cost: game.UpgradeCost}
		fast := Upgrade{To: game.FastFreight, Cost: game.UpgradeCost}

		require.Greater(t,
			scoreOne(t, snap, hauler, Memory{Deliveries: 1}, heavy),
			scoreOne(t, snap, hauler, Memory{Deliveries: 1}, fast),
			"heavy adds capacity, fast does not")
		require.InDelta(t,
			scoreOne(t, snap, balanced, Memory{Deliveries: 1}, heavy),
			scoreOne(t, snap, balanced, Memory{Deliveries: 1}, fast), 1e-9,
			"a balanced bot is indifferent between peers")
	})

	t.Run("builders credit each planned segment", func(t *testing.T) {
		snap := botSnapshot(t, func(d *game.SnapshotData) {
			d.Segments = []game.TrackSegment{berlinLeipzig()}
		})
		builder := Profile{Name: "b", Archetype: Builder, Skill: 0.8}
		build := Build{Segments: []game.TrackSegment{berlinLeipzig()}, Cost: 3}

		diff := scoreOne(t, snap, builder, Memory{}, build) - scoreOne(t, snap, balanced, Memory{}, build)
		require.InDelta(t, builderSegmentCredit, diff, 1e-9)
	})

	t.Run("persistent targets and restlessness shape building", func(t *testing.T) {
		snap := botSnapshot(t, func(d *game.SnapshotData) {
			d.Hand = []game.Demand{{CardID: "c1", City: "Paris", Load: game.Wine, Payment: 20}}
		})
		build := Build{Segments: []game.TrackSegment{berlinLeipzig()}, Cost: 3}

		base := scoreOne(t, snap, balanced, Memory{}, build)
		persistent := scoreOne(t, snap, balanced, Memory{TargetCity: "Leipzig", TargetTurns: 5}, build)
		require.InDelta(t, float64(targetPersistenceCap)*targetPersistenceBonus, persistent-base, 1e-9,
			"persistence credit is capped")

		restless := scoreOne(t, snap, balanced, Memory{ConsecutivePasses: 2}, build)
		require.InDelta(t, 2*restlessnessWeight, restless-base, 1e-9)
	})

	t.Run("placement prefers the major city nearest the demands", func(t *testing.T) {
		snap := botSnapshot(t, func(d *game.SnapshotData) {
			d.Placed = false
			d.Hand = []game.Demand{{CardID: "c1", City: "Berlin", Load: game.Machinery, Payment: 20}}
		})
		berlin := scoreOne(t, snap, balanced, Memory{}, Move{Path: []game.Coord{{Row: 2, Col: 7}}})
		wien := scoreOne(t, snap, balanced, Memory{}, Move{Path: []game.Coord{{Row: 6, Col: 9}}})

		require.InDelta(t, moveBase, berlin, 1e-9, "standing on the demand city costs nothing")
		require.Greater(t, berlin, wien)
	})

	t.Run("dropping dead weight beats dropping a deliverable load", func(t *testing.T) {
		snap := botSnapshot(t, func(d *game.SnapshotData) {
			d.Segments = []game.TrackSegment{berlinLeipzig()}
			d.Carried = []game.Load{game.Wine, game.Machinery}
			d.Hand = []game.Demand{{CardID: "c1", City: "Leipzig", Load: game.Machinery, Payment: 20}}
		})
		require.Greater(t,
			scoreOne(t, snap, balanced, Memory{}, Drop{Load: game.Wine}),
			scoreOne(t, snap, balanced, Memory{}, Drop{Load: game.Machinery}))
	})
}
