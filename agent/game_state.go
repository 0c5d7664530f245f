package main

type GameStatus int

const (
	StatusNotStarted GameStatus = iota
	StatusRunning
	StatusDarkWon
	StatusLightWon
	StatusDraw
)

func (s GameStatus) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusDarkWon:
		return "dark_won"
	case StatusLightWon:
		return "light_won"
	case StatusDraw:
		return "draw"
	default:
		return "not_started"
	}
}

func (s GameStatus) Finished() bool {
	return s == StatusDarkWon || s == StatusLightWon || s == StatusDraw
}

type GameSettings struct {
	BoardSize int `json:"board_size"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{BoardSize: 8}
}

type GameState struct {
	Board       Board
	ToMove      PlayerColor
	Status      GameStatus
	HasLastMove bool
	LastMove    Move
	// Passes counts consecutive turns skipped for lack of a legal move.
	Passes      int
	LastMessage string
}

func DefaultGameState(settings GameSettings) GameState {
	state := GameState{}
	state.Reset(settings)
	return state
}

func (s *GameState) Reset(settings GameSettings) {
	s.Board = NewStartingBoard(settings.BoardSize)
	s.ToMove = PlayerDark
	s.Status = StatusNotStarted
	s.HasLastMove = false
	s.LastMove = Move{}
	s.Passes = 0
	s.LastMessage = ""
}
