package main

import "sync"

type ZobristTable struct {
	size  int
	cells []uint64
}

type zobristStore struct {
	mu     sync.Mutex
	tables map[int]*ZobristTable
}

var zobristTables = &zobristStore{tables: make(map[int]*ZobristTable)}

func GetZobrist(size int) *ZobristTable {
	zobristTables.mu.Lock()
	defer zobristTables.mu.Unlock()
	if table, ok := zobristTables.tables[size]; ok {
		return table
	}
	rng := splitmix64{state: uint64(0x9e3779b97f4a7c15) ^ uint64(size)}
	table := &ZobristTable{size: size, cells: make([]uint64, size*size*2)}
	for i := range table.cells {
		table.cells[i] = rng.next()
	}
	zobristTables.tables[size] = table
	return table
}

func (z *ZobristTable) disk(x, y int, cell Cell) uint64 {
	idx := (y*z.size + x) * 2
	if cell == CellLight {
		idx++
	}
	return z.cells[idx]
}

// Fingerprint hashes the disks on the board. It ignores whose turn it is,
// which is all log correlation and opening dedupe need.
func (b Board) Fingerprint() uint64 {
	z := GetZobrist(b.size)
	var hash uint64
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			cell := b.At(x, y)
			if cell != CellDark && cell != CellLight {
				continue
			}
			hash ^= z.disk(x, y, cell)
		}
	}
	return hash
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
