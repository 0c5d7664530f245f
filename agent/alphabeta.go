package main

import (
	"sort"

	"github.com/samber/lo"
)

func (s *searcher) maxNodeAB(board Board, color PlayerColor, alpha, beta, depth int) Decision {
	if cached, ok := s.probe(boundedKey(board, color, alpha, beta)); ok {
		return cached
	}
	if depth == 0 {
		return s.leaf(board, color, depth)
	}
	moves := s.legalMoves(board, color)
	if len(moves) == 0 {
		return s.leaf(board, color, depth)
	}
	if s.ordering {
		moves = s.orderMoves(board, color, color, moves, true)
	}
	s.stats.Nodes++
	best := Decision{Utility: negInf}
	for _, move := range moves {
		child := s.rules.ApplyMove(board, color, move)
		value := s.minNodeAB(child, color, alpha, beta, depth-1)
		if value.Utility > best.Utility {
			best = Decision{Move: move, HasMove: true, Utility: value.Utility}
		}
		alpha = max(alpha, best.Utility)
		if alpha >= beta {
			s.stats.Cutoffs++
			break
		}
	}
	// Stored under the narrowed window, so only an identical later probe hits.
	s.store(boundedKey(board, color, alpha, beta), best)
	return best
}

// orderedRootAB is maxNodeAB for the root of an ordered search. Ordering
// visits children out of enumeration order, so ties are settled by the
// enumeration index instead of by visit order. A child enumerated before the
// current best is searched with alpha one below the best utility; utilities
// are integers, so a result equal to the best is an exact tie.
func (s *searcher) orderedRootAB(board Board, color PlayerColor, depth int) Decision {
	alpha, beta := negInf, posInf
	if cached, ok := s.probe(boundedKey(board, color, alpha, beta)); ok {
		return cached
	}
	if depth == 0 {
		return s.leaf(board, color, depth)
	}
	moves := s.legalMoves(board, color)
	if len(moves) == 0 {
		return s.leaf(board, color, depth)
	}
	rank := make(map[Move]int, len(moves))
	for i, move := range moves {
		rank[move] = i
	}
	moves = s.orderMoves(board, color, color, moves, true)
	s.stats.Nodes++
	best := Decision{Utility: negInf}
	bestRank := len(moves)
	for _, move := range moves {
		child := s.rules.ApplyMove(board, color, move)
		floor := alpha
		earlier := rank[move] < bestRank
		if best.HasMove && earlier {
			floor = best.Utility - 1
		}
		value := s.minNodeAB(child, color, floor, beta, depth-1)
		if value.Utility > best.Utility || (best.HasMove && earlier && value.Utility == best.Utility) {
			best = Decision{Move: move, HasMove: true, Utility: value.Utility}
			bestRank = rank[move]
		}
		alpha = max(alpha, best.Utility)
		if alpha >= beta {
			s.stats.Cutoffs++
			break
		}
	}
	s.store(boundedKey(board, color, alpha, beta), best)
	return best
}

func (s *searcher) minNodeAB(board Board, color PlayerColor, alpha, beta, depth int) Decision {
	opponent := color.Opponent()
	if cached, ok := s.probe(boundedKey(board, opponent, alpha, beta)); ok {
		return cached
	}
	if depth == 0 {
		return s.leaf(board, color, depth)
	}
	moves := s.legalMoves(board, opponent)
	if len(moves) == 0 {
		return s.leaf(board, color, depth)
	}
	if s.ordering {
		moves = s.orderMoves(board, color, opponent, moves, false)
	}
	s.stats.Nodes++
	best := Decision{Utility: posInf}
	for _, move := range moves {
		child := s.rules.ApplyMove(board, opponent, move)
		value := s.maxNodeAB(child, color, alpha, beta, depth-1)
		if value.Utility < best.Utility {
			best = Decision{Move: move, HasMove: true, Utility: value.Utility}
		}
		beta = min(beta, best.Utility)
		if alpha >= beta {
			s.stats.Cutoffs++
			break
		}
	}
	s.store(boundedKey(board, opponent, alpha, beta), best)
	return best
}

type scoredMove struct {
	move  Move
	score int
}

// orderMoves sorts by the static utility of each child for color, best
// first for the max player and worst first for the min player. Equal scores
// keep enumeration order.
func (s *searcher) orderMoves(board Board, color, mover PlayerColor, moves []Move, descending bool) []Move {
	s.stats.OrderingEvaluations += len(moves)
	scored := lo.Map(moves, func(move Move, _ int) scoredMove {
		child := s.rules.ApplyMove(board, mover, move)
		return scoredMove{move: move, score: Utility(s.rules, child, color)}
	})
	sort.SliceStable(scored, func(i, j int) bool {
		if descending {
			return scored[i].score > scored[j].score
		}
		return scored[i].score < scored[j].score
	})
	return lo.Map(scored, func(sm scoredMove, _ int) Move { return sm.move })
}
