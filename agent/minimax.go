package main

func (s *searcher) maxNode(board Board, color PlayerColor, depth int) Decision {
	key := plainKey(board, color)
	if cached, ok := s.probe(key); ok {
		return cached
	}
	if depth == 0 {
		return s.leaf(board, color, depth)
	}
	moves := s.legalMoves(board, color)
	if len(moves) == 0 {
		return s.leaf(board, color, depth)
	}
	s.stats.Nodes++
	best := Decision{Utility: negInf}
	for _, move := range moves {
		child := s.rules.ApplyMove(board, color, move)
		value := s.minNode(child, color, depth-1)
		if value.Utility > best.Utility {
			best = Decision{Move: move, HasMove: true, Utility: value.Utility}
		}
	}
	s.store(key, best)
	return best
}

func (s *searcher) minNode(board Board, color PlayerColor, depth int) Decision {
	opponent := color.Opponent()
	key := plainKey(board, opponent)
	if cached, ok := s.probe(key); ok {
		return cached
	}
	if depth == 0 {
		return s.leaf(board, color, depth)
	}
	moves := s.legalMoves(board, opponent)
	if len(moves) == 0 {
		return s.leaf(board, color, depth)
	}
	s.stats.Nodes++
	best := Decision{Utility: posInf}
	for _, move := range moves {
		child := s.rules.ApplyMove(board, opponent, move)
		value := s.maxNode(child, color, depth-1)
		if value.Utility < best.Utility {
			best = Decision{Move: move, HasMove: true, Utility: value.Utility}
		}
	}
	s.store(key, best)
	return best
}
