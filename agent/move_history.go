package main

type HistoryEntry struct {
	Move         Move        `json:"move"`
	Player       PlayerColor `json:"player"`
	Passed       bool        `json:"passed,omitempty"`
	FlippedCount int         `json:"flipped"`
	ElapsedMs    float64     `json:"elapsed_ms"`
}

type MoveHistory struct {
	entries []HistoryEntry
}

func (h *MoveHistory) Clear() {
	h.entries = nil
}

func (h *MoveHistory) Push(entry HistoryEntry) {
	h.entries = append(h.entries, entry)
}

func (h MoveHistory) Size() int {
	return len(h.entries)
}

func (h MoveHistory) All() []HistoryEntry {
	return append([]HistoryEntry(nil), h.entries...)
}

// Plies counts placed disks, ignoring passes.
func (h MoveHistory) Plies() int {
	count := 0
	for _, entry := range h.entries {
		if !entry.Passed {
			count++
		}
	}
	return count
}
