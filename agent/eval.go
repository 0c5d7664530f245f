package main

import (
	"strings"

	"github.com/pkg/errors"
)

// Evaluator scores board from color's point of view. Positive favours color.
type Evaluator func(board Board, color PlayerColor) int

const (
	HeuristicUtility  = "utility"
	HeuristicWeighted = "weighted"
)

// Utility is the disk differential for color. Colors other than dark and
// light score zero.
func Utility(rules Rules, board Board, color PlayerColor) int {
	dark, light := rules.Score(board)
	switch color {
	case PlayerDark:
		return dark - light
	case PlayerLight:
		return light - dark
	default:
		return 0
	}
}

func UtilityEvaluator(rules Rules) Evaluator {
	return func(board Board, color PlayerColor) int {
		return Utility(rules, board, color)
	}
}

// WeightedHeuristic adds mobility and edge control to the disk differential:
// mobility + 2*utility + 3*(edge runs).
func WeightedHeuristic(rules Rules) Evaluator {
	return func(board Board, color PlayerColor) int {
		if !color.Valid() {
			return 0
		}
		mobility := len(rules.LegalMoves(board, color)) - len(rules.LegalMoves(board, color.Opponent()))
		utility := Utility(rules, board, color)
		return mobility + 2*utility + 3*edgeRuns(board, CellFromPlayer(color))
	}
}

// edgeRuns counts the disks of cell anchored to a corner along each of the
// four edges. A fully owned edge counts once per disk.
func edgeRuns(board Board, cell Cell) int {
	n := board.Size()
	total := 0
	for _, line := range [2]int{0, n - 1} {
		total += anchoredRun(n, cell, func(i int) Cell { return board.At(i, line) })
		total += anchoredRun(n, cell, func(i int) Cell { return board.At(line, i) })
	}
	return total
}

func anchoredRun(n int, cell Cell, at func(i int) Cell) int {
	head := 0
	for head < n && at(head) == cell {
		head++
	}
	tail := 0
	for tail < n && head+tail < n && at(n-1-tail) == cell {
		tail++
	}
	return head + tail
}

func EvaluatorByName(name string, rules Rules) (Evaluator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", HeuristicUtility:
		return UtilityEvaluator(rules), nil
	case HeuristicWeighted:
		return WeightedHeuristic(rules), nil
	default:
		return nil, errors.Errorf("unknown heuristic %q", name)
	}
}
