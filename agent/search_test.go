package main

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// treeRules plays a fixed game tree. Every node is a distinct 1x1 board and
// Score reports the node's value as the dark total.
type treeRules struct {
	children map[Board][]Board
	values   map[Board]int
}

func treeNode(id byte) Board {
	return Board{size: 1, cells: string([]byte{id})}
}

func (r treeRules) LegalMoves(board Board, _ PlayerColor) []Move {
	moves := make([]Move, len(r.children[board]))
	for i := range moves {
		moves[i] = Move{X: i}
	}
	return moves
}

func (r treeRules) ApplyMove(board Board, _ PlayerColor, move Move) Board {
	return r.children[board][move.X]
}

func (r treeRules) Score(board Board) (int, int) {
	return r.values[board], 0
}

// pruningTree is root -> {A, B}; A -> {3, 5}; B -> {2, 9}. Minimax must look
// at all four leaves; alpha-beta can skip the 9.
func pruningTree() (treeRules, Board) {
	root, a, b := treeNode(0), treeNode(1), treeNode(2)
	leaves := []Board{treeNode(3), treeNode(4), treeNode(5), treeNode(6)}
	rules := treeRules{
		children: map[Board][]Board{
			root: {a, b},
			a:    {leaves[0], leaves[1]},
			b:    {leaves[2], leaves[3]},
		},
		values: map[Board]int{
			a: 1, b: 7,
			leaves[0]: 3, leaves[1]: 5, leaves[2]: 2, leaves[3]: 9,
		},
	}
	return rules, root
}

func TestAlphaBetaPrunesSyntheticTree(t *testing.T) {
	rules, root := pruningTree()
	engine := NewEngine(rules, nil)

	mm := engine.Search(root, PlayerDark, SearchOptions{Algorithm: AlgorithmMinimax, Depth: 2}, nil)
	ab := engine.Search(root, PlayerDark, SearchOptions{Algorithm: AlgorithmAlphaBeta, Depth: 2}, nil)

	require.True(t, mm.HasMove)
	require.True(t, ab.HasMove)
	assert.Equal(t, 3, mm.Utility)
	assert.Equal(t, 3, ab.Utility)
	assert.Equal(t, Move{X: 0}, mm.Move)
	assert.Equal(t, Move{X: 0}, ab.Move)
	assert.Equal(t, 4, mm.Stats.LeafEvaluations)
	assert.Equal(t, 3, ab.Stats.LeafEvaluations)
	assert.Equal(t, 1, ab.Stats.Cutoffs)
}

func TestAlphaBetaStoresUnderNarrowedWindow(t *testing.T) {
	rules, root := pruningTree()
	engine := NewEngine(rules, nil)
	cache := NewTranspositionCache()

	engine.Search(root, PlayerDark, SearchOptions{Algorithm: AlgorithmAlphaBeta, Depth: 2, Caching: true}, cache)

	require.Equal(t, 3, cache.Count())
	a, b := treeNode(1), treeNode(2)
	stored, ok := cache.Probe(boundedKey(a, PlayerLight, negInf, 3))
	require.True(t, ok, "A is stored with beta lowered to 3")
	assert.Equal(t, Decision{Move: Move{X: 0}, HasMove: true, Utility: 3}, stored)
	stored, ok = cache.Probe(boundedKey(b, PlayerLight, 3, 2))
	require.True(t, ok, "B is stored with the crossed window it pruned on")
	assert.Equal(t, 2, stored.Utility)
	stored, ok = cache.Probe(boundedKey(root, PlayerDark, 3, posInf))
	require.True(t, ok)
	assert.Equal(t, 3, stored.Utility)
	_, ok = cache.Probe(boundedKey(a, PlayerLight, negInf, posInf))
	assert.False(t, ok, "entry window must not be used as the store key")
}

func TestOrderingVisitsBestChildFirst(t *testing.T) {
	rules, root := pruningTree()
	engine := NewEngine(rules, nil)

	ordered := engine.Search(root, PlayerDark, SearchOptions{Algorithm: AlgorithmAlphaBeta, Depth: 2, Ordering: true}, nil)

	// B has the higher static value, so it is searched first and A still wins.
	assert.Equal(t, Move{X: 0}, ordered.Move)
	assert.Equal(t, 3, ordered.Utility)
	assert.Equal(t, 4, ordered.Stats.LeafEvaluations)
	assert.Equal(t, 6, ordered.Stats.OrderingEvaluations)
}

func TestOrderingKeepsEarliestTiedRootMove(t *testing.T) {
	root, a, b := treeNode(0), treeNode(1), treeNode(2)
	leaves := []Board{treeNode(3), treeNode(4), treeNode(5), treeNode(6)}
	rules := treeRules{
		children: map[Board][]Board{
			root: {a, b},
			a:    {leaves[0], leaves[1]},
			b:    {leaves[2], leaves[3]},
		},
		values: map[Board]int{
			a: 1, b: 7,
			leaves[0]: 4, leaves[1]: 6, leaves[2]: 4, leaves[3]: 8,
		},
	}
	engine := NewEngine(rules, nil)

	for _, caching := range []bool{false, true} {
		plain := engine.Search(root, PlayerDark, SearchOptions{Algorithm: AlgorithmAlphaBeta, Depth: 2, Caching: caching}, nil)
		ordered := engine.Search(root, PlayerDark, SearchOptions{Algorithm: AlgorithmAlphaBeta, Depth: 2, Caching: caching, Ordering: true}, nil)

		// A and B both back up 4. B is visited first but A comes first in
		// enumeration order.
		assert.Equal(t, Move{X: 0}, plain.Move)
		assert.Equal(t, plain.Decision, ordered.Decision)
	}
}

func TestOrderingNeverChangesRootMove(t *testing.T) {
	engine := NewEngine(NewRules(), nil)
	for seed := int64(1); seed <= 60; seed++ {
		board, color := randomPosition(6, 2+int(seed%12), seed)
		for _, caching := range []bool{false, true} {
			plain := engine.Search(board, color, SearchOptions{Algorithm: AlgorithmAlphaBeta, Depth: 3, Caching: caching}, nil)
			ordered := engine.Search(board, color, SearchOptions{Algorithm: AlgorithmAlphaBeta, Depth: 3, Caching: caching, Ordering: true}, nil)
			require.Equal(t, plain.Decision, ordered.Decision, "seed %d caching=%v", seed, caching)
		}
	}
}

func TestMinimaxIgnoresOrdering(t *testing.T) {
	engine := NewEngine(NewRules(), nil)
	result := engine.Search(NewStartingBoard(8), PlayerDark, SearchOptions{Algorithm: AlgorithmMinimax, Depth: 2, Ordering: true}, nil)
	assert.Zero(t, result.Stats.OrderingEvaluations)
}

func TestOpeningDepthOnePicksFirstTiedMove(t *testing.T) {
	engine := NewEngine(NewRules(), nil)
	board := Grid(NewStartingBoard(8).Rows())

	move, ok := engine.SelectMoveMinimax(board, PlayerDark, 1, false)
	require.True(t, ok)
	assert.Equal(t, Move{X: 2, Y: 3}, move)

	for _, caching := range []bool{false, true} {
		for _, ordering := range []bool{false, true} {
			move, ok := engine.SelectMoveAlphaBeta(board, PlayerDark, 1, caching, ordering)
			require.True(t, ok)
			assert.Equal(t, Move{X: 2, Y: 3}, move, "caching=%v ordering=%v", caching, ordering)
		}
	}
	result := engine.Search(board, PlayerDark, SearchOptions{Algorithm: AlgorithmAlphaBeta, Depth: 1}, nil)
	assert.Equal(t, 3, result.Utility)
}

func TestDepthZeroEvaluatesRootOnly(t *testing.T) {
	engine := NewEngine(NewRules(), nil)
	for _, algorithm := range []Algorithm{AlgorithmMinimax, AlgorithmAlphaBeta} {
		result := engine.Search(NewStartingBoard(8), PlayerDark, SearchOptions{Algorithm: algorithm, Depth: 0, Caching: true, Ordering: true}, nil)
		assert.False(t, result.HasMove, algorithm)
		assert.Equal(t, 0, result.Utility, algorithm)
		assert.Zero(t, result.Stats.MoveGenerations, algorithm)
		assert.Equal(t, 1, result.Stats.LeafEvaluations, algorithm)
	}
}

func TestNoLegalMoveReturnsNone(t *testing.T) {
	engine := NewEngine(NewRules(), nil)
	board := lightFloodBoard()

	_, ok := engine.SelectMoveMinimax(board, PlayerDark, 3, true)
	assert.False(t, ok)
	_, ok = engine.SelectMoveAlphaBeta(board, PlayerDark, UnboundedDepth, true, true)
	assert.False(t, ok)

	dark := engine.Search(board, PlayerDark, SearchOptions{Algorithm: AlgorithmAlphaBeta, Depth: 3}, nil)
	assert.Equal(t, -15, dark.Utility)
	light := engine.Search(board, PlayerLight, SearchOptions{Algorithm: AlgorithmMinimax, Depth: 3}, nil)
	assert.Equal(t, 15, light.Utility)
}

func TestTerminalUtilityIsScoreDifference(t *testing.T) {
	rules := NewRules()
	engine := NewEngine(rules, nil)
	board := NewBoardFromRows([][]int{
		{1, 1, 1, 1},
		{1, 1, 2, 2},
		{1, 1, 2, 2},
		{1, 1, 2, 2},
	})
	for _, algorithm := range []Algorithm{AlgorithmMinimax, AlgorithmAlphaBeta} {
		for _, depth := range []int{1, 4, UnboundedDepth} {
			result := engine.Search(board, PlayerDark, SearchOptions{Algorithm: algorithm, Depth: depth}, nil)
			assert.False(t, result.HasMove)
			assert.Equal(t, 4, result.Utility)
			result = engine.Search(board, PlayerLight, SearchOptions{Algorithm: algorithm, Depth: depth}, nil)
			assert.Equal(t, -4, result.Utility)
		}
	}
}

func TestInvalidColorScoresZero(t *testing.T) {
	engine := NewEngine(NewRules(), nil)
	result := engine.Search(lightFloodBoard(), PlayerColor(7), SearchOptions{Algorithm: AlgorithmMinimax, Depth: 2}, nil)
	assert.Equal(t, 0, result.Utility)
}

type searchCase struct {
	name  string
	board Board
	color PlayerColor
	depth int
}

// randomPosition plays seeded random moves from the starting position.
func randomPosition(size, plies int, seed int64) (Board, PlayerColor) {
	rules := NewRules()
	rng := rand.New(rand.NewSource(seed))
	board := NewStartingBoard(size)
	toMove := PlayerDark
	for i := 0; i < plies; i++ {
		moves := rules.LegalMoves(board, toMove)
		if len(moves) == 0 {
			toMove = toMove.Opponent()
			if len(rules.LegalMoves(board, toMove)) == 0 {
				break
			}
			continue
		}
		board = rules.ApplyMove(board, toMove, moves[rng.Intn(len(moves))])
		toMove = toMove.Opponent()
	}
	return board, toMove
}

func propertyCases() []searchCase {
	cases := []searchCase{
		{name: "opening8-d2", board: NewStartingBoard(8), color: PlayerDark, depth: 2},
		{name: "opening8-d3-light", board: NewStartingBoard(8), color: PlayerLight, depth: 3},
	}
	for seed := int64(1); seed <= 6; seed++ {
		board, color := randomPosition(6, 4+int(seed), seed)
		cases = append(cases, searchCase{name: fmt.Sprintf("mid6-%d", seed), board: board, color: color, depth: 3})
	}
	for seed := int64(10); seed <= 13; seed++ {
		board, color := randomPosition(6, 26, seed)
		cases = append(cases, searchCase{name: fmt.Sprintf("end6-%d", seed), board: board, color: color, depth: UnboundedDepth})
	}
	board, color := randomPosition(8, 10, 42)
	cases = append(cases, searchCase{name: "mid8", board: board, color: color, depth: 3})
	return cases
}

// childMinimaxValue is the plain minimax value of playing move for color.
func childMinimaxValue(rules Rules, board Board, color PlayerColor, move Move, depth int) int {
	if depth < 0 {
		depth = unboundedSearchDepth
	}
	s := &searcher{rules: rules, eval: UtilityEvaluator(rules), cache: NewTranspositionCache(), rootDepth: depth}
	return s.minNode(rules.ApplyMove(board, color, move), color, depth-1).Utility
}

func TestSearchConfigurationsAgree(t *testing.T) {
	rules := NewRules()
	engine := NewEngine(rules, nil)
	for _, tc := range propertyCases() {
		t.Run(tc.name, func(t *testing.T) {
			search := func(opts SearchOptions) SearchResult {
				opts.Depth = tc.depth
				return engine.Search(tc.board, tc.color, opts, nil)
			}
			mm := search(SearchOptions{Algorithm: AlgorithmMinimax})
			mmc := search(SearchOptions{Algorithm: AlgorithmMinimax, Caching: true})
			ab := search(SearchOptions{Algorithm: AlgorithmAlphaBeta})
			abc := search(SearchOptions{Algorithm: AlgorithmAlphaBeta, Caching: true})
			abo := search(SearchOptions{Algorithm: AlgorithmAlphaBeta, Ordering: true})
			abco := search(SearchOptions{Algorithm: AlgorithmAlphaBeta, Caching: true, Ordering: true})

			for _, other := range []SearchResult{mmc, ab, abc, abo, abco} {
				assert.Equal(t, mm.Utility, other.Utility)
				assert.Equal(t, mm.HasMove, other.HasMove)
			}
			// Every engine keeps the first optimal move in enumeration order.
			for _, other := range []SearchResult{mmc, ab, abc, abo, abco} {
				assert.Equal(t, mm.Move, other.Move)
			}
			assert.Equal(t, ab.Move, abo.Move)
			assert.Equal(t, abc.Move, abco.Move)
			if abo.HasMove {
				assert.Equal(t, mm.Utility, childMinimaxValue(rules, tc.board, tc.color, abo.Move, tc.depth))
			}
			assert.LessOrEqual(t, ab.Stats.LeafEvaluations, mm.Stats.LeafEvaluations)
		})
	}
}

func TestSearchIsIdempotent(t *testing.T) {
	engine := NewEngine(NewRules(), nil)
	board, color := randomPosition(6, 8, 7)
	cache := NewTranspositionCache()
	for _, opts := range compareMatrix(3) {
		first := engine.Search(board, color, opts, cache)
		second := engine.Search(board, color, opts, cache)
		assert.Equal(t, first.Decision, second.Decision, opts.Label())
		assert.Equal(t, first.Stats.LeafEvaluations, second.Stats.LeafEvaluations, opts.Label())
		assert.Equal(t, first.Stats.CacheEntries, second.Stats.CacheEntries, opts.Label())
	}
}

func TestCachingSavesWork(t *testing.T) {
	engine := NewEngine(NewRules(), nil)
	board := NewStartingBoard(8)
	plain := engine.Search(board, PlayerDark, SearchOptions{Algorithm: AlgorithmMinimax, Depth: 6}, nil)
	cached := engine.Search(board, PlayerDark, SearchOptions{Algorithm: AlgorithmMinimax, Depth: 6, Caching: true}, nil)
	assert.Positive(t, cached.Stats.CacheHits)
	assert.Less(t, cached.Stats.LeafEvaluations, plain.Stats.LeafEvaluations)
	assert.Zero(t, plain.Stats.CacheProbes)
}

func TestWeightedHeuristicEnginesAgree(t *testing.T) {
	rules := NewRules()
	engine := NewEngine(rules, WeightedHeuristic(rules))
	board, color := randomPosition(6, 6, 3)
	mm := engine.Search(board, color, SearchOptions{Algorithm: AlgorithmMinimax, Depth: 3}, nil)
	abco := engine.Search(board, color, SearchOptions{Algorithm: AlgorithmAlphaBeta, Depth: 3, Caching: true, Ordering: true}, nil)
	assert.Equal(t, mm.Utility, abco.Utility)
}

func TestParseAlgorithm(t *testing.T) {
	for name, want := range map[string]Algorithm{
		"minimax":    AlgorithmMinimax,
		"MM":         AlgorithmMinimax,
		"alphabeta":  AlgorithmAlphaBeta,
		"alpha-beta": AlgorithmAlphaBeta,
	} {
		got, err := ParseAlgorithm(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseAlgorithm("mcts")
	assert.Error(t, err)
}
