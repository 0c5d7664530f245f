package main

import (
	"math/rand"
	"sync"

	"github.com/rs/zerolog"
)

// AIPlayer searches with fixed options. It reuses one cache across moves
// but clears it before every search.
type AIPlayer struct {
	mu      sync.Mutex
	name    string
	engine  *Engine
	options SearchOptions
	cache   *TranspositionCache
	last    SearchResult
	log     zerolog.Logger
}

func NewAIPlayer(name string, engine *Engine, options SearchOptions) *AIPlayer {
	return &AIPlayer{
		name:    name,
		engine:  engine,
		options: options,
		cache:   NewTranspositionCache(),
		log:     componentLogger("ai").With().Str("player", name).Logger(),
	}
}

func (a *AIPlayer) Name() string {
	return a.name
}

func (a *AIPlayer) ChooseMove(board Board, color PlayerColor) (Move, bool) {
	result := a.Think(board, color)
	return result.Move, result.HasMove
}

// Think runs a full search and returns the decision together with its stats.
func (a *AIPlayer) Think(board Board, color PlayerColor) SearchResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	result := a.engine.Search(board, color, a.options, a.cache)
	a.last = result
	if GetConfig().LogSearchStats {
		logSearchStats(a.log, "choose", result, a.options)
	}
	return result
}

func (a *AIPlayer) LastResult() SearchResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

func (a *AIPlayer) CacheSize() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cache.Count()
}

// RandomPlayer plays a uniformly random legal move. The arena uses it as a
// baseline opponent.
type RandomPlayer struct {
	name  string
	rules Rules
	rng   *rand.Rand
}

func NewRandomPlayer(name string, rules Rules, seed int64) *RandomPlayer {
	return &RandomPlayer{name: name, rules: rules, rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomPlayer) Name() string {
	return p.name
}

func (p *RandomPlayer) ChooseMove(board Board, color PlayerColor) (Move, bool) {
	moves := p.rules.LegalMoves(board, color)
	if len(moves) == 0 {
		return Move{}, false
	}
	return moves[p.rng.Intn(len(moves))], true
}
