package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Game referees one Othello game between two players.
type Game struct {
	settings  GameSettings
	rules     OthelloRules
	state     GameState
	history   MoveHistory
	turnStart time.Time
}

func NewGame(settings GameSettings) Game {
	g := Game{}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	g.settings = settings
	g.rules = NewRules()
	g.state = DefaultGameState(settings)
	g.history.Clear()
	g.turnStart = time.Now()
}

func (g *Game) Start() {
	if g.state.Status == StatusNotStarted {
		g.state.Status = StatusRunning
		g.turnStart = time.Now()
		g.updateStatus()
	}
}

func (g *Game) State() GameState {
	return g.state
}

func (g *Game) History() MoveHistory {
	return g.history
}

func (g *Game) Score() (dark, light int) {
	return g.rules.Score(g.state.Board)
}

func (g *Game) LegalMoves() []Move {
	return g.rules.LegalMoves(g.state.Board, g.state.ToMove)
}

func (g *Game) TryApplyMove(move Move) (bool, string) {
	if g.state.Status != StatusRunning {
		return false, "game not running"
	}
	if !g.rules.IsLegal(g.state.Board, g.state.ToMove, move) {
		g.state.LastMessage = "Illegal move: " + move.String()
		return false, g.state.LastMessage
	}
	g.state.LastMessage = ""
	flips := g.rules.FindFlips(g.state.Board, move, CellFromPlayer(g.state.ToMove))
	g.history.Push(HistoryEntry{
		Move:         move,
		Player:       g.state.ToMove,
		FlippedCount: len(flips),
		ElapsedMs:    float64(time.Since(g.turnStart).Microseconds()) / 1000.0,
	})
	g.state.Board = g.rules.ApplyMove(g.state.Board, g.state.ToMove, move)
	g.state.LastMove = move
	g.state.HasLastMove = true
	g.state.Passes = 0
	g.advanceTurn()
	return true, ""
}

// Pass skips the current player's turn. It is only allowed when that player
// has no legal move.
func (g *Game) Pass() (bool, string) {
	if g.state.Status != StatusRunning {
		return false, "game not running"
	}
	if len(g.LegalMoves()) > 0 {
		g.state.LastMessage = "Illegal pass: legal moves available"
		return false, g.state.LastMessage
	}
	g.history.Push(HistoryEntry{Player: g.state.ToMove, Passed: true})
	g.state.Passes++
	g.advanceTurn()
	return true, ""
}

// Play runs the game to completion. ctx is checked between turns.
func (g *Game) Play(ctx context.Context, dark, light IPlayer) (GameStatus, error) {
	g.Start()
	for g.state.Status == StatusRunning {
		if err := ctx.Err(); err != nil {
			return g.state.Status, err
		}
		player := dark
		if g.state.ToMove == PlayerLight {
			player = light
		}
		move, ok := player.ChooseMove(g.state.Board, g.state.ToMove)
		if !ok {
			if passed, reason := g.Pass(); !passed {
				return g.state.Status, errors.Errorf("%s passed with moves available: %s", player.Name(), reason)
			}
			continue
		}
		if applied, reason := g.TryApplyMove(move); !applied {
			return g.state.Status, errors.Errorf("%s played %v: %s", player.Name(), move, reason)
		}
	}
	return g.state.Status, nil
}

func (g *Game) advanceTurn() {
	g.state.ToMove = g.state.ToMove.Opponent()
	g.turnStart = time.Now()
	g.updateStatus()
}

// updateStatus ends the game once neither side can move. A lone pass
// leaves the game running.
func (g *Game) updateStatus() {
	if g.state.Status != StatusRunning {
		return
	}
	if g.state.Board.CountEmpty() > 0 && g.state.Passes < 2 && !g.rules.IsTerminal(g.state.Board) {
		return
	}
	dark, light := g.Score()
	switch {
	case dark > light:
		g.state.Status = StatusDarkWon
	case light > dark:
		g.state.Status = StatusLightWon
	default:
		g.state.Status = StatusDraw
	}
}
