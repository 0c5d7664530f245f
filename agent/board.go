package main

import (
	"strings"
)

type Cell uint8

const (
	CellEmpty Cell = iota
	CellDark
	CellLight
)

// Board is an immutable square grid stored one byte per cell, row-major.
// Boards are comparable values, so equal positions are equal map keys.
type Board struct {
	size  int
	cells string
}

func NewBoard(boardSize int) Board {
	return Board{size: boardSize, cells: string(make([]byte, boardSize*boardSize))}
}

// NewStartingBoard places the four centre disks of a fresh Othello game.
func NewStartingBoard(boardSize int) Board {
	cells := make([]byte, boardSize*boardSize)
	mid := boardSize / 2
	if boardSize >= 2 {
		cells[(mid-1)*boardSize+(mid-1)] = byte(CellLight)
		cells[mid*boardSize+mid] = byte(CellLight)
		cells[(mid-1)*boardSize+mid] = byte(CellDark)
		cells[mid*boardSize+(mid-1)] = byte(CellDark)
	}
	return Board{size: boardSize, cells: string(cells)}
}

// NewBoardFromRows converts a grid indexed rows[row][col]. The grid is
// assumed square; values outside 0..2 are stored as given.
func NewBoardFromRows(rows [][]int) Board {
	size := len(rows)
	cells := make([]byte, size*size)
	for y, row := range rows {
		for x := 0; x < size && x < len(row); x++ {
			cells[y*size+x] = byte(row[x])
		}
	}
	return Board{size: size, cells: string(cells)}
}

func (b Board) At(x, y int) Cell {
	return Cell(b.cells[b.index(x, y)])
}

// With returns a copy of the board with one cell changed.
func (b Board) With(x, y int, value Cell) Board {
	return b.mutate(func(cells []byte) {
		cells[b.index(x, y)] = byte(value)
	})
}

func (b Board) mutate(fn func(cells []byte)) Board {
	cells := []byte(b.cells)
	fn(cells)
	return Board{size: b.size, cells: string(cells)}
}

func (b Board) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.size && y < b.size
}

func (b Board) IsEmpty(x, y int) bool {
	return b.InBounds(x, y) && b.At(x, y) == CellEmpty
}

func (b Board) Count(cell Cell) int {
	return strings.Count(b.cells, string([]byte{byte(cell)}))
}

func (b Board) CountEmpty() int {
	return b.Count(CellEmpty)
}

func (b Board) Size() int {
	return b.size
}

// Rows returns a fresh mutable grid indexed rows[row][col].
func (b Board) Rows() [][]int {
	rows := make([][]int, b.size)
	for y := range rows {
		rows[y] = make([]int, b.size)
		for x := range rows[y] {
			rows[y][x] = int(b.At(x, y))
		}
	}
	return rows
}

// ToBoard lets a Board be passed wherever a Position is expected.
func (b Board) ToBoard() Board {
	return b
}

func (b Board) String() string {
	var sb strings.Builder
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			switch b.At(x, y) {
			case CellDark:
				sb.WriteByte('X')
			case CellLight:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		if y < b.size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (b Board) index(x, y int) int {
	return y*b.size + x
}

func (c Cell) String() string {
	switch c {
	case CellDark:
		return "Dark"
	case CellLight:
		return "Light"
	default:
		return "Empty"
	}
}

func CellFromPlayer(player PlayerColor) Cell {
	if player == PlayerDark {
		return CellDark
	}
	return CellLight
}

// Grid is the mutable row-major representation used by the game manager.
type Grid [][]int

func (g Grid) ToBoard() Board {
	return NewBoardFromRows(g)
}

// Position is anything the selectors can search from.
type Position interface {
	ToBoard() Board
}
