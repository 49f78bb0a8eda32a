package metrics

import (
	"sync"
	"time"

	"boxcars/engine"
)

// TurnMetric is one bot decision's telemetry.
type TurnMetric struct {
	Turn     int
	Bot      string
	Action   string
	Options  int
	Rejected int
	Latency  time.Duration
	NetCash  int
}

// GameMetric summarizes one finished game.
type GameMetric struct {
	Winner    string
	Turns     int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// GameRecord ties a game's metric to the profiles that played it.
type GameRecord struct {
	ID       int
	Profile1 string
	Profile2 string
	GameMetric
}

// TurnRecord ties a turn metric to its game.
type TurnRecord struct {
	Game int // GameRecord.ID
	TurnMetric
}

// Recorder buffers one game's turn metrics as an engine observer.
// Safe for concurrent turns.
type Recorder struct {
	mu    sync.Mutex
	turns []TurnMetric
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// TurnCompleted implements engine.Observer.
func (r *Recorder) TurnCompleted(summary engine.TurnSummary, debug engine.DecisionDebug) {
	action := "pass"
	if len(summary.Actions) > 0 {
		action = summary.Actions[len(summary.Actions)-1]
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turns = append(r.turns, TurnMetric{
		Turn:     summary.Turn,
		Bot:      summary.BotID,
		Action:   action,
		Options:  debug.OptionsConsidered,
		Rejected: debug.PlansRejected,
		Latency:  debug.Latency,
		NetCash:  summary.NetCash,
	})
}

// Turns returns the buffered metrics in arrival order.
func (r *Recorder) Turns() []TurnMetric {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TurnMetric, len(r.turns))
	copy(out, r.turns)
	return out
}
