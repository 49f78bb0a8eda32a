package gamemaster

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"boxcars/bot"
	"boxcars/game"
	"boxcars/utils"
)

const (
	// StartingCash is each player's opening bankroll.
	StartingCash = 50
	// WinningCash ends the game in favor of the first player to reach it.
	WinningCash = 250
	// HandSize is how many demand cards a player holds.
	HandSize = 4
	// loadCopies is how many of each produced load a source city offers
	// at once.
	loadCopies = 2
)

type playerState struct {
	id       string
	cash     int
	placed   bool
	position game.Coord
	train    game.TrainClass
	segments []game.TrackSegment
	hand     []game.Demand
	carried  []game.Load

	movementUsed int
	buildSpent   int
	upgraded     bool
	ferry        game.FerryStatus

	deliveries int
}

// LocalGame hosts an authoritative game entirely in memory. It implements
// the snapshot source and execution sink the orchestrator needs, so local
// exhibitions and tests run without any transport or persistence.
type LocalGame struct {
	mu      sync.Mutex
	id      string
	board   *game.Topology
	sources map[string][]game.Load
	players []*playerState
	byID    map[string]*playerState
	loads   map[string][]game.Load
	deck    []game.Demand
	turn    int
	status  string
	winner  string
	rng     *rand.Rand
}

// NewLocalGame deals a fresh game on the given board. Bot ids are the
// profile names; sources seed per-city load availability and the demand deck.
func NewLocalGame(board *game.Topology, sources map[string][]game.Load, profiles []bot.Profile, seed uint64) *LocalGame {
	g := &LocalGame{
		id:      uuid.New().String(),
		board:   board,
		sources: sources,
		byID:    make(map[string]*playerState, len(profiles)),
		loads:   make(map[string][]game.Load, len(sources)),
		turn:    1,
		status:  "active",
		rng:     rand.New(rand.NewSource(seed)),
	}

	for city, produced := range sources {
		for _, load := range produced {
			for i := 0; i < loadCopies; i++ {
				g.loads[city] = append(g.loads[city], load)
			}
		}
	}

	g.deck = buildDeck(board, sources)
	g.rng.Shuffle(len(g.deck), func(i, j int) {
		g.deck[i], g.deck[j] = g.deck[j], g.deck[i]
	})

	for _, profile := range profiles {
		p := &playerState{
			id:    profile.Name,
			cash:  StartingCash,
			train: game.Freight,
		}
		for i := 0; i < HandSize; i++ {
			g.dealTo(p)
		}
		g.players = append(g.players, p)
		g.byID[p.id] = p
	}

	log.Info().Str("game", g.id).Int("players", len(profiles)).Msgf("local game dealt with %d demand cards", len(g.deck))
	return g
}

// buildDeck creates one demand card per (source load, major city) pair.
// Payment grows with the haul distance from the nearest source. Cities are
// walked in sorted order so the same seed always deals the same game.
func buildDeck(board *game.Topology, sources map[string][]game.Load) []game.Demand {
	seen := make(map[string]bool)
	var majors []string
	for _, c := range board.MajorCities() {
		name := board.CityAt(c)
		if name != "" && !seen[name] {
			seen[name] = true
			majors = append(majors, name)
		}
	}

	var deck []game.Demand
	for _, city := range sortedCities(sources) {
		produced := sources[city]
		from := board.CityCells(city)
		if len(from) == 0 {
			continue
		}
		for _, load := range produced {
			for _, dest := range majors {
				if dest == city {
					continue
				}
				best := math.Inf(1)
				for _, d := range board.CityCells(dest) {
					if d2 := board.Distance2(from[0], d); d2 < best {
						best = d2
					}
				}
				payment := 10 + int(2*math.Sqrt(best))
				deck = append(deck, game.Demand{
					CardID:  uuid.New().String(),
					City:    dest,
					Load:    load,
					Payment: payment,
				})
			}
		}
	}
	return deck
}

func (g *LocalGame) dealTo(p *playerState) {
	if len(g.deck) == 0 {
		return
	}
	p.hand = append(p.hand, g.deck[0])
	g.deck = g.deck[1:]
}

func (g *LocalGame) GameID() string { return g.id }

// Bots returns the player ids in seat order.
func (g *LocalGame) Bots() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.players))
	for i, p := range g.players {
		out[i] = p.id
	}
	return out
}

func (g *LocalGame) Turn() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.turn
}

func (g *LocalGame) Winner() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winner
}

// Cash reports a player's bankroll, for tests and summaries.
func (g *LocalGame) Cash(botID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.byID[botID]; ok {
		return p.cash
	}
	return 0
}

// Capture implements the snapshot source contract.
func (g *LocalGame) Capture(gameID, botID string) (*game.Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.captureLocked(gameID, botID)
}

func (g *LocalGame) captureLocked(gameID, botID string) (*game.Snapshot, error) {
	if gameID != g.id {
		return nil, fmt.Errorf("unknown game %s", gameID)
	}
	p, ok := g.byID[botID]
	if !ok {
		return nil, fmt.Errorf("bot %s not found in game %s", botID, gameID)
	}

	all := make(map[string][]game.TrackSegment, len(g.players))
	for _, other := range g.players {
		all[other.id] = other.segments
	}
	return game.SnapshotData{
		GameID:           g.id,
		Status:           g.status,
		Turn:             g.turn,
		BotID:            p.id,
		Cash:             p.cash,
		Placed:           p.placed,
		Position:         p.position,
		Train:            p.train,
		Segments:         p.segments,
		Hand:             p.hand,
		Carried:          p.carried,
		Loads:            g.loads,
		AllSegments:      all,
		MovementUsed:     p.movementUsed,
		BuildSpent:       p.buildSpent,
		UpgradedThisTurn: p.upgraded,
		Ferry:            p.ferry,
		Board:            g.board,
	}.Freeze(), nil
}

// Apply implements the execution sink contract: one action, applied
// atomically or not at all.
func (g *LocalGame) Apply(gameID, botID string, action bot.Action) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if gameID != g.id {
		return fmt.Errorf("unknown game %s", gameID)
	}
	if g.status != "active" {
		return fmt.Errorf("game %s is over", g.id)
	}
	p, ok := g.byID[botID]
	if !ok {
		return fmt.Errorf("bot %s not found", botID)
	}

	var err error
	switch a := action.(type) {
	case bot.Build:
		err = g.applyBuild(p, a)
	case bot.Move:
		err = g.applyMove(p, a)
	case bot.Pickup:
		err = g.applyPickup(p, a)
	case bot.Deliver:
		err = g.applyDeliver(p, a)
	case bot.Drop:
		err = g.applyDrop(p, a)
	case bot.Upgrade:
		err = g.applyUpgrade(p, a)
	case bot.Discard:
		g.applyDiscard(p)
	case bot.Pass:
		// Nothing to do.
	default:
		err = fmt.Errorf("unsupported action %T", action)
	}
	if err != nil {
		return err
	}

	if p.cash >= WinningCash && g.winner == "" {
		g.winner = p.id
		g.status = "finished"
		log.Info().Str("game", g.id).Str("bot", p.id).Msgf("game won with %d cash on turn %d", p.cash, g.turn)
	}
	return nil
}

func (g *LocalGame) applyBuild(p *playerState, a bot.Build) error {
	cost := game.SegmentCost(a.Segments)
	if len(a.Segments) == 0 {
		return fmt.Errorf("no segments to build")
	}
	if p.buildSpent+cost > game.BuildBudget {
		return fmt.Errorf("build cost %d exceeds the per-turn budget", p.buildSpent+cost)
	}
	if cost > p.cash {
		return fmt.Errorf("build cost %d exceeds cash %d", cost, p.cash)
	}
	if len(p.segments) == 0 && g.board.TerrainAt(a.Segments[0].From) != game.MajorCity {
		return fmt.Errorf("first segment must start at a major city")
	}
	p.segments = append(p.segments, a.Segments...)
	p.cash -= cost
	p.buildSpent += cost
	return nil
}

func (g *LocalGame) applyMove(p *playerState, a bot.Move) error {
	snap, err := g.captureLocked(g.id, p.id)
	if err != nil {
		return err
	}
	result := game.ValidateMove(snap, a.Path)
	if !result.OK {
		return fmt.Errorf("illegal move: %s", result.Reason)
	}

	// Track usage fees, once per foreign network ridden this move.
	union := snap.Union()
	foreign := make(map[string]bool)
	for i := 1; i < len(a.Path); i++ {
		for _, owner := range union.Owners(a.Path[i-1], a.Path[i]) {
			if owner != p.id {
				foreign[owner] = true
			}
		}
	}
	fee := len(foreign) * game.TrackUsageFee
	if fee > p.cash {
		return fmt.Errorf("track usage fee %d exceeds cash %d", fee, p.cash)
	}
	p.cash -= fee
	for owner := range foreign {
		g.byID[owner].cash += game.TrackUsageFee
	}

	p.position = a.Path[len(a.Path)-1]
	p.placed = true
	p.movementUsed += result.Cost
	if result.EndsTurn {
		// The crossing consumes the rest of the turn's movement.
		p.movementUsed = p.train.Speed()
		p.ferry = game.FerryJustArrived
	} else if g.board.TerrainAt(p.position) == game.FerryPort {
		p.ferry = game.FerryReadyToCross
	} else {
		p.ferry = game.FerryNone
	}
	return nil
}

func (g *LocalGame) applyPickup(p *playerState, a bot.Pickup) error {
	if !p.placed || g.board.CityAt(p.position) != a.City {
		return fmt.Errorf("the train is not at %s", a.City)
	}
	if len(p.carried) >= p.train.Capacity() {
		return fmt.Errorf("train is full")
	}
	idx := utils.FindIndex(g.loads[a.City], a.Load)
	if idx < 0 {
		return fmt.Errorf("no %s available at %s", a.Load, a.City)
	}
	g.loads[a.City] = append(g.loads[a.City][:idx], g.loads[a.City][idx+1:]...)
	p.carried = append(p.carried, a.Load)
	return nil
}

func (g *LocalGame) applyDeliver(p *playerState, a bot.Deliver) error {
	if !p.placed || g.board.CityAt(p.position) != a.City {
		return fmt.Errorf("the train is not at %s", a.City)
	}
	loadIdx := utils.FindIndex(p.carried, a.Load)
	if loadIdx < 0 {
		return fmt.Errorf("the train is not carrying %s", a.Load)
	}
	cardIdx := -1
	for i, d := range p.hand {
		if d.CardID == a.CardID && d.City == a.City && d.Load == a.Load {
			cardIdx = i
			break
		}
	}
	if cardIdx < 0 {
		return fmt.Errorf("no demand card %s for %s at %s", a.CardID, a.Load, a.City)
	}

	p.carried = append(p.carried[:loadIdx], p.carried[loadIdx+1:]...)
	p.cash += p.hand[cardIdx].Payment
	p.hand = append(p.hand[:cardIdx], p.hand[cardIdx+1:]...)
	p.deliveries++
	g.dealTo(p)
	g.respawn(a.Load)
	return nil
}

// respawn returns a delivered load to its first source city in sorted order.
func (g *LocalGame) respawn(load game.Load) {
	for _, city := range sortedCities(g.sources) {
		if utils.FindIndex(g.sources[city], load) >= 0 {
			g.loads[city] = append(g.loads[city], load)
			return
		}
	}
}

func sortedCities(sources map[string][]game.Load) []string {
	cities := make([]string, 0, len(sources))
	for city := range sources {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}

func (g *LocalGame) applyDrop(p *playerState, a bot.Drop) error {
	idx := utils.FindIndex(p.carried, a.Load)
	if idx < 0 {
		return fmt.Errorf("the train is not carrying %s", a.Load)
	}
	p.carried = append(p.carried[:idx], p.carried[idx+1:]...)
	if city := g.board.CityAt(p.position); city != "" {
		g.loads[city] = append(g.loads[city], a.Load)
	}
	return nil
}

func (g *LocalGame) applyUpgrade(p *playerState, a bot.Upgrade) error {
	if p.upgraded {
		return fmt.Errorf("already upgraded this turn")
	}
	if a.Cost > p.cash {
		return fmt.Errorf("upgrade costs %d, cash is %d", a.Cost, p.cash)
	}
	if !p.train.CanUpgradeTo(a.To) {
		return fmt.Errorf("%s cannot upgrade to %s", p.train, a.To)
	}
	p.train = a.To
	p.cash -= a.Cost
	p.upgraded = true
	return nil
}

func (g *LocalGame) applyDiscard(p *playerState) {
	g.deck = append(g.deck, p.hand...)
	p.hand = nil
	for i := 0; i < HandSize; i++ {
		g.dealTo(p)
	}
}

// EndTurn resets the per-turn counters for a bot. When the last seat ends
// its turn, the game's turn counter advances.
func (g *LocalGame) EndTurn(botID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.byID[botID]
	if !ok {
		return
	}
	p.movementUsed = 0
	p.buildSpent = 0
	p.upgraded = false
	if p.ferry == game.FerryJustArrived {
		p.ferry = game.FerryNone
	}
	if len(g.players) > 0 && p == g.players[len(g.players)-1] {
		g.turn++
	}
}
