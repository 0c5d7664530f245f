package main

import (
	"time"

	"github.com/rs/zerolog"
)

// SearchStats counts the work done by one top-level search.
type SearchStats struct {
	Nodes               int           `json:"nodes"`
	LeafEvaluations     int           `json:"leaf_evaluations"`
	MoveGenerations     int           `json:"move_generations"`
	OrderingEvaluations int           `json:"ordering_evaluations"`
	CacheProbes         int           `json:"cache_probes"`
	CacheHits           int           `json:"cache_hits"`
	CacheStores         int           `json:"cache_stores"`
	CacheEntries        int           `json:"cache_entries"`
	Cutoffs             int           `json:"cutoffs"`
	MaxPly              int           `json:"max_ply"`
	Start               time.Time     `json:"-"`
	Elapsed             time.Duration `json:"elapsed_ns"`
}

func (s SearchStats) CacheHitRate() float64 {
	if s.CacheProbes == 0 {
		return 0
	}
	return float64(s.CacheHits) * 100.0 / float64(s.CacheProbes)
}

func (s SearchStats) NodesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Nodes+s.LeafEvaluations) / s.Elapsed.Seconds()
}

func logSearchStats(log zerolog.Logger, tag string, result SearchResult, opts SearchOptions) {
	stats := result.Stats
	event := log.Info().
		Str("tag", tag).
		Str("algorithm", string(opts.Algorithm)).
		Int("depth", opts.Depth).
		Bool("caching", opts.Caching).
		Bool("ordering", opts.Ordering).
		Int("utility", result.Utility).
		Int("nodes", stats.Nodes).
		Int("leaves", stats.LeafEvaluations).
		Int("movegen", stats.MoveGenerations).
		Int("max_ply", stats.MaxPly).
		Dur("elapsed", stats.Elapsed).
		Float64("nps", stats.NodesPerSecond())
	if opts.Caching {
		event = event.
			Int("cache_probes", stats.CacheProbes).
			Int("cache_hits", stats.CacheHits).
			Int("cache_entries", stats.CacheEntries).
			Float64("cache_hit_pct", stats.CacheHitRate())
	}
	if opts.Algorithm == AlgorithmAlphaBeta {
		event = event.Int("cutoffs", stats.Cutoffs).Int("ordering_evals", stats.OrderingEvaluations)
	}
	if result.HasMove {
		event = event.Stringer("move", result.Move)
	} else {
		event = event.Str("move", "none")
	}
	event.Msg("search finished")
}
