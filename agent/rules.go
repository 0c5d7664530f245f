package main

// Rules is the move enumerator the search engines consult. Implementations
// must be pure: the same inputs always produce the same outputs.
type Rules interface {
	LegalMoves(board Board, player PlayerColor) []Move
	ApplyMove(board Board, player PlayerColor, move Move) Board
	Score(board Board) (dark, light int)
}

var othelloDirections = [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}

// OthelloRules implements standard Othello flipping on any square board.
type OthelloRules struct{}

func NewRules() OthelloRules {
	return OthelloRules{}
}

// LegalMoves scans columns in the outer loop and rows in the inner loop.
// Search tie-breaking depends on this order.
func (r OthelloRules) LegalMoves(board Board, player PlayerColor) []Move {
	var moves []Move
	size := board.Size()
	playerCell := CellFromPlayer(player)
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			if board.At(x, y) != CellEmpty {
				continue
			}
			if r.hasCapture(board, Move{X: x, Y: y}, playerCell) {
				moves = append(moves, NewMove(x, y))
			}
		}
	}
	return moves
}

func (r OthelloRules) IsLegal(board Board, player PlayerColor, move Move) bool {
	if !move.IsValid(board.Size()) || board.At(move.X, move.Y) != CellEmpty {
		return false
	}
	return r.hasCapture(board, move, CellFromPlayer(player))
}

// ApplyMove places the disk and flips every bracketed line. The input
// board is left untouched.
func (r OthelloRules) ApplyMove(board Board, player PlayerColor, move Move) Board {
	playerCell := CellFromPlayer(player)
	flips := r.FindFlips(board, move, playerCell)
	return board.mutate(func(cells []byte) {
		cells[board.index(move.X, move.Y)] = byte(playerCell)
		for _, flip := range flips {
			cells[board.index(flip.X, flip.Y)] = byte(playerCell)
		}
	})
}

func (r OthelloRules) Score(board Board) (dark, light int) {
	return board.Count(CellDark), board.Count(CellLight)
}

// IsTerminal reports whether neither side has a legal move.
func (r OthelloRules) IsTerminal(board Board) bool {
	return len(r.LegalMoves(board, PlayerDark)) == 0 && len(r.LegalMoves(board, PlayerLight)) == 0
}

func (r OthelloRules) FindFlips(board Board, move Move, playerCell Cell) []Move {
	return r.FindFlipsInto(board, move, playerCell, nil)
}

func (r OthelloRules) FindFlipsInto(board Board, move Move, playerCell Cell, flips []Move) []Move {
	flips = flips[:0]
	for _, dir := range othelloDirections {
		start := len(flips)
		x, y := move.X+dir[0], move.Y+dir[1]
		closed := false
		for board.InBounds(x, y) {
			cell := board.At(x, y)
			if cell == CellEmpty {
				break
			}
			if cell == playerCell {
				closed = true
				break
			}
			flips = append(flips, Move{X: x, Y: y})
			x += dir[0]
			y += dir[1]
		}
		if !closed {
			flips = flips[:start]
		}
	}
	return flips
}

func (r OthelloRules) hasCapture(board Board, move Move, playerCell Cell) bool {
	for _, dir := range othelloDirections {
		x, y := move.X+dir[0], move.Y+dir[1]
		run := 0
		for board.InBounds(x, y) {
			cell := board.At(x, y)
			if cell == CellEmpty {
				break
			}
			if cell == playerCell {
				if run > 0 {
					return true
				}
				break
			}
			run++
			x += dir[0]
			y += dir[1]
		}
	}
	return false
}

func (r OthelloRules) String() string {
	return "othello"
}
