package bot

import "sync"

// Memory is the persistent heuristic state a bot keeps across turns of one
// game. Zero value is the neutral starting state.
type Memory struct {
	// TargetCity is the city the bot is currently building toward.
	TargetCity string
	// TargetTurns counts consecutive turns spent pursuing TargetCity.
	TargetTurns int
	LastAction  ActionKind
	// ConsecutivePasses counts pass turns since the last real action.
	ConsecutivePasses int
	Deliveries        int
	Earnings          int
	LastTurn          int
}

type memoryKey struct {
	gameID string
	botID  string
}

// MemoryStore holds per-(game,bot) memory for the lifetime of the process.
// Entries are created lazily with neutral defaults, merged on update, and
// cleared when a bot leaves or a game ends. Safe for concurrent use across
// different bots; the turn scheduler guarantees at most one in-flight
// decision per bot.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[memoryKey]Memory
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[memoryKey]Memory)}
}

// Get returns the memory for (gameID, botID), zero-valued if never written.
func (s *MemoryStore) Get(gameID, botID string) Memory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[memoryKey{gameID, botID}]
}

// Update applies fn to the stored memory under the lock, merging the change
// rather than replacing the whole entry.
func (s *MemoryStore) Update(gameID, botID string, fn func(*Memory)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := memoryKey{gameID, botID}
	m := s.states[key]
	fn(&m)
	s.states[key] = m
}

// ClearBot removes the memory for one bot in one game.
func (s *MemoryStore) ClearBot(gameID, botID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, memoryKey{gameID, botID})
}

// ClearGame removes every bot's memory for the given game.
func (s *MemoryStore) ClearGame(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.states {
		if key.gameID == gameID {
			delete(s.states, key)
		}
	}
}

// Len reports the number of live entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}
