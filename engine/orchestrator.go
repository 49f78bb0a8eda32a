package engine

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"boxcars/bot"
)

// TurnPhase is where the orchestrator is within one decision cycle.
type TurnPhase int

const (
	Idle TurnPhase = iota
	Thinking
	Planning
	Validating
	Executing
	Reporting
)

func (p TurnPhase) String() string {
	switch p {
	case Thinking:
		return "thinking"
	case Planning:
		return "planning"
	case Validating:
		return "validating"
	case Executing:
		return "executing"
	case Reporting:
		return "reporting"
	default:
		return "idle"
	}
}

// Orchestrator sequences one bot turn: capture, generate, score, validate
// with retry, execute, persist memory, report. There is no terminal failure
// state; any internal fault degrades to a pass with an error note.
type Orchestrator struct {
	source   SnapshotSource
	executor Executor
	observer Observer
	memory   *bot.MemoryStore

	thinkDelay time.Duration

	mu  sync.Mutex // guards rng across concurrent turns
	rng *rand.Rand
}

type Option func(*Orchestrator)

// WithThinkDelay sets a deliberate pacing wait before deciding.
func WithThinkDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.thinkDelay = d
		}
	}
}

// WithObserver routes turn summaries and debug payloads to obs.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithSeed fixes the commentary randomness for reproducible runs.
func WithSeed(seed uint64) Option {
	return func(o *Orchestrator) {
		o.rng = rand.New(rand.NewSource(seed))
	}
}

func New(source SnapshotSource, executor Executor, options ...Option) *Orchestrator {
	o := &Orchestrator{
		source:   source,
		executor: executor,
		observer: NewNoopObserver(),
		memory:   bot.NewMemoryStore(),
		rng:      rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
	for _, option := range options {
		option(o)
	}
	return o
}

// Memory exposes the per-(game,bot) store so hosts can clear entries when a
// bot leaves or a game ends.
func (o *Orchestrator) Memory() *bot.MemoryStore { return o.memory }

// TakeTurn runs one full decision cycle for the bot. The returned error is
// non-nil only when ctx is canceled before any effect was committed; every
// other fault degrades to a pass recorded in the summary.
func (o *Orchestrator) TakeTurn(ctx context.Context, gameID, botID string, profile bot.Profile) (summary TurnSummary, err error) {
	start := time.Now()
	summary = TurnSummary{GameID: gameID, BotID: botID}
	debug := DecisionDebug{}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("game", gameID).Str("bot", botID).Msgf("turn panicked, degrading to pass: %v", r)
			summary.Actions = []string{"pass"}
			summary.Err = fmt.Sprintf("internal fault: %v", r)
			debug.Latency = time.Since(start)
			o.observer.TurnCompleted(summary, debug)
			err = nil
		}
	}()

	o.logPhase(gameID, botID, Idle, Thinking)
	if o.thinkDelay > 0 {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		case <-time.After(o.thinkDelay):
		}
	}

	snap, captureErr := o.source.Capture(gameID, botID)
	if captureErr != nil {
		log.Warn().Str("game", gameID).Str("bot", botID).Msgf("snapshot capture failed: %v", captureErr)
		summary.Actions = []string{"pass"}
		summary.Err = fmt.Sprintf("snapshot capture failed: %v", captureErr)
		debug.Latency = time.Since(start)
		o.observer.TurnCompleted(summary, debug)
		return summary, nil
	}
	summary.Turn = snap.Turn()

	o.logPhase(gameID, botID, Thinking, Planning)
	mem := o.memory.Get(gameID, botID)
	scored := bot.Score(bot.Generate(snap), snap, profile, mem)
	debug.OptionsConsidered = len(scored)

	o.logPhase(gameID, botID, Planning, Validating)
	chosen := bot.Option{Action: bot.Pass{}, Feasible: true, Why: "no validated option"}
	chosenIdx := -1
	for i, opt := range scored {
		if math.IsInf(opt.Score, -1) {
			continue
		}
		ok, reason := bot.ValidatePlan(snap, opt)
		if !ok {
			debug.PlansRejected++
			log.Debug().Str("game", gameID).Str("bot", botID).Msgf("plan rejected: %s (%s)", opt.Describe(), reason)
			continue
		}
		chosen = opt
		chosenIdx = i
		break
	}
	for i, opt := range scored {
		if len(debug.TopAlternatives) >= 3 {
			break
		}
		if i == chosenIdx || math.IsInf(opt.Score, -1) {
			continue
		}
		debug.TopAlternatives = append(debug.TopAlternatives, fmt.Sprintf("%s (%.1f)", opt.Describe(), opt.Score))
	}

	// Abandon cleanly if the game went away while we were deciding;
	// nothing has been committed yet.
	select {
	case <-ctx.Done():
		return summary, ctx.Err()
	default:
	}

	o.logPhase(gameID, botID, Validating, Executing)
	executed := o.execute(gameID, botID, chosen, &summary)

	o.memory.Update(gameID, botID, func(m *bot.Memory) {
		m.LastTurn = snap.Turn()
		m.LastAction = chosen.Action.Kind()
		if chosen.Action.Kind() == bot.PassTurn {
			m.ConsecutivePasses++
		} else {
			m.ConsecutivePasses = 0
		}
		if executed {
			switch a := chosen.Action.(type) {
			case bot.Deliver:
				m.Deliveries++
				m.Earnings += a.Payment
			case bot.Build:
				terminal := snap.Board().CityAt(a.Segments[len(a.Segments)-1].To)
				if terminal != "" && terminal != m.TargetCity {
					m.TargetCity = terminal
					m.TargetTurns = 1
				} else {
					m.TargetTurns++
				}
			}
		}
	})

	o.logPhase(gameID, botID, Executing, Reporting)
	summary.Commentary = o.flavor(profile)
	debug.Latency = time.Since(start)
	o.observer.TurnCompleted(summary, debug)
	o.logPhase(gameID, botID, Reporting, Idle)
	return summary, nil
}

// execute hands the chosen action to the execution collaborator. A failure
// is logged and noted, never fatal: the worst outcome is a skipped action.
func (o *Orchestrator) execute(gameID, botID string, chosen bot.Option, summary *TurnSummary) bool {
	if err := o.executor.Apply(gameID, botID, chosen.Action); err != nil {
		log.Warn().Str("game", gameID).Str("bot", botID).Msgf("execution failed for %s: %v", chosen.Describe(), err)
		summary.Err = fmt.Sprintf("execution failed: %v", err)
		return false
	}
	summary.Actions = append(summary.Actions, chosen.Describe())
	switch a := chosen.Action.(type) {
	case bot.Deliver:
		summary.NetCash += a.Payment
	case bot.Build:
		summary.NetCash -= a.Cost
	case bot.Upgrade:
		summary.NetCash -= a.Cost
	}
	return true
}

// flavor picks a commentary line; randomness here never touches legality.
func (o *Orchestrator) flavor(profile bot.Profile) string {
	lines := profile.Archetype.Commentary()
	o.mu.Lock()
	defer o.mu.Unlock()
	return lines[o.rng.Intn(len(lines))]
}

func (o *Orchestrator) logPhase(gameID, botID string, from, to TurnPhase) {
	log.Debug().Str("game", gameID).Str("bot", botID).Msgf("turn phase %s -> %s", from, to)
}
