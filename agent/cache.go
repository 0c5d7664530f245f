package main

// CacheKey identifies a searched node. Plain minimax keys leave Bounded
// false; alpha-beta keys also carry the window the node finished with.
type CacheKey struct {
	Board   Board
	Acting  PlayerColor
	Alpha   int
	Beta    int
	Bounded bool
}

func plainKey(board Board, acting PlayerColor) CacheKey {
	return CacheKey{Board: board, Acting: acting}
}

func boundedKey(board Board, acting PlayerColor, alpha, beta int) CacheKey {
	return CacheKey{Board: board, Acting: acting, Alpha: alpha, Beta: beta, Bounded: true}
}

// Decision is a node result: the best move (if any) and its utility for the
// maximizing player of the whole search.
type Decision struct {
	Move    Move `json:"move"`
	HasMove bool `json:"has_move"`
	Utility int  `json:"utility"`
}

// TranspositionCache memoizes node results within one search. It is not
// safe for concurrent use; each search owns its own.
type TranspositionCache struct {
	entries map[CacheKey]Decision
	probes  int
	hits    int
	stores  int
}

func NewTranspositionCache() *TranspositionCache {
	return &TranspositionCache{entries: make(map[CacheKey]Decision)}
}

func (tc *TranspositionCache) Probe(key CacheKey) (Decision, bool) {
	tc.probes++
	entry, ok := tc.entries[key]
	if ok {
		tc.hits++
	}
	return entry, ok
}

func (tc *TranspositionCache) Store(key CacheKey, entry Decision) {
	tc.stores++
	tc.entries[key] = entry
}

func (tc *TranspositionCache) Clear() {
	clear(tc.entries)
	tc.probes, tc.hits, tc.stores = 0, 0, 0
}

func (tc *TranspositionCache) Count() int {
	return len(tc.entries)
}

func (tc *TranspositionCache) Counters() (probes, hits, stores int) {
	return tc.probes, tc.hits, tc.stores
}
