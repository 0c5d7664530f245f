package main

import (
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Algorithm string

const (
	AlgorithmMinimax   Algorithm = "minimax"
	AlgorithmAlphaBeta Algorithm = "alphabeta"
)

func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "minimax", "mm":
		return AlgorithmMinimax, nil
	case "alphabeta", "alpha-beta", "ab", "":
		return AlgorithmAlphaBeta, nil
	default:
		return "", errors.Errorf("unknown algorithm %q", name)
	}
}

// UnboundedDepth searches to the end of the game.
const UnboundedDepth = -1

// unboundedSearchDepth is larger than any ply count a board can reach.
const unboundedSearchDepth = math.MaxInt32

const (
	negInf = math.MinInt
	posInf = math.MaxInt
)

type SearchOptions struct {
	Algorithm Algorithm `json:"algorithm"`
	Depth     int       `json:"depth"`
	Caching   bool      `json:"caching"`
	Ordering  bool      `json:"ordering"`
}

type SearchResult struct {
	Decision
	Stats SearchStats `json:"stats"`
}

// Engine selects moves by game-tree search. An Engine holds no per-search
// state and can be shared between goroutines.
type Engine struct {
	rules Rules
	eval  Evaluator
}

// NewEngine uses eval at depth-truncated leaves and at terminal positions.
// A nil eval falls back to the disk differential.
func NewEngine(rules Rules, eval Evaluator) *Engine {
	if eval == nil {
		eval = UtilityEvaluator(rules)
	}
	return &Engine{rules: rules, eval: eval}
}

// Search runs one top-level selection for color. cache is cleared before
// use; pass nil to have a fresh one allocated.
func (e *Engine) Search(pos Position, color PlayerColor, opts SearchOptions, cache *TranspositionCache) SearchResult {
	board := pos.ToBoard()
	if cache == nil {
		cache = NewTranspositionCache()
	} else {
		cache.Clear()
	}
	depth := opts.Depth
	if depth < 0 {
		depth = unboundedSearchDepth
	}
	s := &searcher{
		rules:     e.rules,
		eval:      e.eval,
		cache:     cache,
		caching:   opts.Caching,
		ordering:  opts.Ordering,
		rootDepth: depth,
		stats:     SearchStats{Start: time.Now()},
	}
	var decision Decision
	switch {
	case opts.Algorithm == AlgorithmMinimax:
		decision = s.maxNode(board, color, depth)
	case opts.Ordering:
		decision = s.orderedRootAB(board, color, depth)
	default:
		decision = s.maxNodeAB(board, color, negInf, posInf, depth)
	}
	s.stats.Elapsed = time.Since(s.stats.Start)
	s.stats.CacheProbes, s.stats.CacheHits, s.stats.CacheStores = cache.Counters()
	s.stats.CacheEntries = cache.Count()
	return SearchResult{Decision: decision, Stats: s.stats}
}

// SelectMoveMinimax returns the minimax move for color, or ok=false when
// color has no legal move or depthLimit is zero.
func (e *Engine) SelectMoveMinimax(pos Position, color PlayerColor, depthLimit int, caching bool) (move Move, ok bool) {
	res := e.Search(pos, color, SearchOptions{Algorithm: AlgorithmMinimax, Depth: depthLimit, Caching: caching}, nil)
	return res.Move, res.HasMove
}

func (e *Engine) SelectMoveAlphaBeta(pos Position, color PlayerColor, depthLimit int, caching, ordering bool) (move Move, ok bool) {
	opts := SearchOptions{Algorithm: AlgorithmAlphaBeta, Depth: depthLimit, Caching: caching, Ordering: ordering}
	res := e.Search(pos, color, opts, nil)
	return res.Move, res.HasMove
}

// searcher carries the state of a single search. color passed through the
// node methods is always the maximizing player.
type searcher struct {
	rules     Rules
	eval      Evaluator
	cache     *TranspositionCache
	caching   bool
	ordering  bool
	rootDepth int
	stats     SearchStats
}

func (s *searcher) leaf(board Board, color PlayerColor, depth int) Decision {
	s.stats.LeafEvaluations++
	s.notePly(depth)
	return Decision{Utility: s.eval(board, color)}
}

func (s *searcher) legalMoves(board Board, player PlayerColor) []Move {
	s.stats.MoveGenerations++
	return s.rules.LegalMoves(board, player)
}

func (s *searcher) notePly(depth int) {
	if ply := s.rootDepth - depth; ply > s.stats.MaxPly {
		s.stats.MaxPly = ply
	}
}

func (s *searcher) probe(key CacheKey) (Decision, bool) {
	if !s.caching {
		return Decision{}, false
	}
	return s.cache.Probe(key)
}

func (s *searcher) store(key CacheKey, decision Decision) {
	if s.caching {
		s.cache.Store(key, decision)
	}
}
