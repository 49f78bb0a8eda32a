package engine

import (
	"time"

	"boxcars/bot"
	"boxcars/game"
)

// SnapshotSource captures one frozen world view per decision cycle. It is
// supplied by the persistence collaborator; the returned snapshot must be
// fully resolved and self-consistent.
type SnapshotSource interface {
	Capture(gameID, botID string) (*game.Snapshot, error)
}

// Executor applies one committed action to authoritative game state and
// reports success or failure per action. The orchestrator never assumes
// atomicity across actions and tolerates partial failure.
type Executor interface {
	Apply(gameID, botID string, action bot.Action) error
}

// TurnSummary narrates one completed turn for observers.
type TurnSummary struct {
	GameID     string
	BotID      string
	Turn       int
	Actions    []string
	NetCash    int
	Commentary string
	// Err carries the degraded-to-pass explanation when something broke.
	Err string
}

// DecisionDebug is the telemetry payload alongside a summary. It is never
// consumed back into decisions.
type DecisionDebug struct {
	OptionsConsidered int
	PlansRejected     int
	Latency           time.Duration
	// TopAlternatives describes the best-scored options that were not
	// chosen, for external UIs.
	TopAlternatives []string
}

// Observer receives summaries and debug payloads after every turn.
type Observer interface {
	TurnCompleted(summary TurnSummary, debug DecisionDebug)
}

type noopObserver struct{}

// NewNoopObserver returns an observer that discards everything.
func NewNoopObserver() Observer { return noopObserver{} }

func (noopObserver) TurnCompleted(TurnSummary, DecisionDebug) {}
