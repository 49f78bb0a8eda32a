package bot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"boxcars/game"
)

// pathBoard is a 3x4 fixture: a major city seed in the northwest, a small
// city goal in the southeast, one water cell in between.
func pathBoard(t *testing.T) *game.Topology {
	t.Helper()
	var cells []game.CellData
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			cells = append(cells, game.CellData{Row: row, Col: col, Terrain: game.Clear})
		}
	}
	for i := range cells {
		switch (game.Coord{Row: cells[i].Row, Col: cells[i].Col}) {
		case game.Coord{Row: 0, Col: 0}:
			cells[i].Terrain = game.MajorCity
			cells[i].City = "Start"
		case game.Coord{Row: 2, Col: 3}:
			cells[i].Terrain = game.SmallCity
			cells[i].City = "Goal"
		case game.Coord{Row: 1, Col: 1}:
			cells[i].Terrain = game.Water
		}
	}
	board, err := game.NewTopology(cells, nil, nil)
	require.NoError(t, err)
	return board
}

func requireContiguous(t *testing.T, segments []game.TrackSegment) {
	t.Helper()
	for i := 1; i < len(segments); i++ {
		require.Equal(t, segments[i-1].To, segments[i].From,
			"segment %d must continue where segment %d ended", i, i-1)
	}
}

func TestComputeBuildSegments(t *testing.T) {
	board := pathBoard(t)
	water := game.Coord{Row: 1, Col: 1}

	t.Run("reaches the target within budget, contiguously", func(t *testing.T) {
		segments := ComputeBuildSegments(board, BuildRequest{
			Sources: []game.Coord{{Row: 0, Col: 0}},
			Budget:  12,
			Targets: board.CityCells("Goal"),
		})
		require.NotEmpty(t, segments)
		requireContiguous(t, segments)
		require.LessOrEqual(t, game.SegmentCost(segments), 12)
		require.Equal(t, game.Coord{Row: 0, Col: 0}, segments[0].From, "run starts at the seed")
		require.Equal(t, game.Coord{Row: 2, Col: 3}, segments[len(segments)-1].To, "run ends at the goal")
		for _, s := range segments {
			require.NotEqual(t, water, s.From, "no segment may touch water")
			require.NotEqual(t, water, s.To, "no segment may touch water")
		}
	})

	t.Run("never exceeds the budget", func(t *testing.T) {
		segments := ComputeBuildSegments(board, BuildRequest{
			Sources: []game.Coord{{Row: 0, Col: 0}},
			Budget:  2,
			Targets: board.CityCells("Goal"),
		})
		requireContiguous(t, segments)
		require.LessOrEqual(t, game.SegmentCost(segments), 2)
	})

	t.Run("without targets builds the longest affordable run", func(t *testing.T) {
		segments := ComputeBuildSegments(board, BuildRequest{
			Sources: []game.Coord{{Row: 0, Col: 0}},
			Budget:  3,
		})
		requireContiguous(t, segments)
		require.Len(t, segments, 3, "three clear segments fit a budget of 3")
		require.Equal(t, 3, game.SegmentCost(segments))
	})

	t.Run("own track is traversed, never re-bought", func(t *testing.T) {
		existing := []game.TrackSegment{{From: game.Coord{Row: 0, Col: 0}, To: game.Coord{Row: 1, Col: 0}, Cost: 1}}
		segments := ComputeBuildSegments(board, BuildRequest{
			Sources:  game.Endpoints(existing),
			Existing: existing,
			Budget:   10,
			Targets:  board.CityCells("Goal"),
		})
		require.NotEmpty(t, segments)
		requireContiguous(t, segments)
		for _, s := range segments {
			require.NotEqual(t, existing[0].Edge(), s.Edge(), "existing track must not be re-bought")
		}
	})

	t.Run("opponent edges are impassable", func(t *testing.T) {
		var cells []game.CellData
		for col := 0; col < 3; col++ {
			cells = append(cells, game.CellData{Row: 0, Col: col, Terrain: game.Clear})
		}
		cells[0].Terrain = game.MajorCity
		cells[0].City = "Solo"
		line, err := game.NewTopology(cells, nil, nil)
		require.NoError(t, err)

		blocked := map[game.Edge]bool{
			game.NewEdge(game.Coord{Row: 0, Col: 0}, game.Coord{Row: 0, Col: 1}): true,
		}
		segments := ComputeBuildSegments(line, BuildRequest{
			Sources: []game.Coord{{Row: 0, Col: 0}},
			Budget:  10,
			Blocked: blocked,
		})
		require.Empty(t, segments, "the only exit edge is opponent-owned")
	})

	t.Run("segment cap truncates the run", func(t *testing.T) {
		segments := ComputeBuildSegments(board, BuildRequest{
			Sources:     []game.Coord{{Row: 0, Col: 0}},
			Budget:      12,
			MaxSegments: 1,
			Targets:     board.CityCells("Goal"),
		})
		require.Len(t, segments, 1)
	})

	t.Run("nothing to do is not an error", func(t *testing.T) {
		require.Empty(t, ComputeBuildSegments(board, BuildRequest{Budget: 10}), "no sources")
		require.Empty(t, ComputeBuildSegments(board, BuildRequest{
			Sources: []game.Coord{{Row: 0, Col: 0}},
		}), "no budget")
	})

	t.Run("connected targets no longer attract the search", func(t *testing.T) {
		// The network already reaches Goal; with Goal as the only
		// target the search falls back to the longest-run policy.
		existing := []game.TrackSegment{{From: game.Coord{Row: 2, Col: 2}, To: game.Coord{Row: 2, Col: 3}, Cost: 3}}
		segments := ComputeBuildSegments(board, BuildRequest{
			Sources:  game.Endpoints(existing),
			Existing: existing,
			Budget:   2,
			Targets:  board.CityCells("Goal"),
		})
		requireContiguous(t, segments)
		require.NotEmpty(t, segments, "longest-run fallback still proposes a build")
		require.LessOrEqual(t, game.SegmentCost(segments), 2)
	})
}
