package main

type PlayerColor int

const (
	PlayerNone  PlayerColor = 0
	PlayerDark  PlayerColor = 1
	PlayerLight PlayerColor = 2
)

func (p PlayerColor) Opponent() PlayerColor {
	return 3 - p
}

func (p PlayerColor) Valid() bool {
	return p == PlayerDark || p == PlayerLight
}

func (p PlayerColor) String() string {
	switch p {
	case PlayerDark:
		return "dark"
	case PlayerLight:
		return "light"
	default:
		return "none"
	}
}

// IPlayer picks a move for color on board; ok is false when it passes.
type IPlayer interface {
	Name() string
	ChooseMove(board Board, color PlayerColor) (move Move, ok bool)
}
