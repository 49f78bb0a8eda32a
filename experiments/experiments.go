package experiments

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"boxcars/bot"
	"boxcars/engine"
	"boxcars/experiments/metrics"
	"boxcars/game"
	"boxcars/gamemaster"
)

const (
	// MaxTurns stops a game that neither bot manages to win.
	MaxTurns = 200
)

// RunExhibition plays numGames head-to-head games for every pairing of the
// given profiles and writes game and turn records as CSV.
func RunExhibition(name string, numGames int, profiles []bot.Profile) error {
	var matchUps [][2]bot.Profile
	for i := 0; i < len(profiles); i++ {
		for j := i + 1; j < len(profiles); j++ {
			matchUps = append(matchUps, [2]bot.Profile{profiles[i], profiles[j]})
		}
	}

	log.Info().Msgf("starting %s exhibition...", name)

	count := 0
	var gameRecords []metrics.GameRecord
	var turnRecords []metrics.TurnRecord
	for mi, matchup := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between %s and %s...", mi+1, len(matchUps), matchup[0].Name, matchup[1].Name)

		for i := 0; i < numGames; i++ {
			count++
			winner, metric, turns := RunGame(matchup[0], matchup[1], uint64(count))
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Profile1:   matchup[0].Name,
				Profile2:   matchup[1].Name,
				GameMetric: metric,
			})
			for _, tm := range turns {
				turnRecords = append(turnRecords, metrics.TurnRecord{Game: count, TurnMetric: tm})
			}
			log.Info().Msgf("completed matchup %d game %d of %d, winner: %s", mi+1, i+1, numGames, winner)
		}
	}

	log.Info().Msgf("completed %s exhibition", name)

	writer, err := metrics.NewWriter(name)
	if err != nil {
		return fmt.Errorf("failed to create exhibition writer: %w", err)
	}
	if err := writer.WriteProfiles(profiles); err != nil {
		return fmt.Errorf("failed to write profiles: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteTurnRecords(turnRecords); err != nil {
		return fmt.Errorf("failed to write turn records: %w", err)
	}
	return nil
}

// RunGame hosts one local game between two profiles until someone wins or
// MaxTurns passes. Returns the winner ("" for a draw) and the telemetry.
func RunGame(p1, p2 bot.Profile, seed uint64) (string, metrics.GameMetric, []metrics.TurnMetric) {
	profiles := []bot.Profile{p1, p2}
	gm := gamemaster.NewLocalGame(game.Default(), game.DefaultSources(), profiles, seed)
	recorder := metrics.NewRecorder()
	orch := engine.New(gm, gm, engine.WithObserver(recorder), engine.WithSeed(seed))

	byID := map[string]bot.Profile{p1.Name: p1, p2.Name: p2}
	start := time.Now()
	ctx := context.Background()

	for gm.Winner() == "" && gm.Turn() <= MaxTurns {
		for _, botID := range gm.Bots() {
			if _, err := orch.TakeTurn(ctx, gm.GameID(), botID, byID[botID]); err != nil {
				log.Warn().Msgf("turn abandoned for %s: %v", botID, err)
			}
			gm.EndTurn(botID)
			if gm.Winner() != "" {
				break
			}
		}
	}

	orch.Memory().ClearGame(gm.GameID())
	end := time.Now()
	return gm.Winner(), metrics.GameMetric{
		Winner:    gm.Winner(),
		Turns:     gm.Turn(),
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
	}, recorder.Turns()
}
