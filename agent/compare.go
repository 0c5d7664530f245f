package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type CompareEntry struct {
	Label   string        `json:"label"`
	Options SearchOptions `json:"options"`
	Move    *Move         `json:"move"`
	Utility int           `json:"utility"`
	Stats   SearchStats   `json:"stats"`
}

// compareMatrix lists every engine configuration at one depth. Ordering is
// only meaningful for alpha-beta.
func compareMatrix(depth int) []SearchOptions {
	var matrix []SearchOptions
	for _, caching := range []bool{false, true} {
		matrix = append(matrix, SearchOptions{Algorithm: AlgorithmMinimax, Depth: depth, Caching: caching})
	}
	for _, caching := range []bool{false, true} {
		for _, ordering := range []bool{false, true} {
			matrix = append(matrix, SearchOptions{Algorithm: AlgorithmAlphaBeta, Depth: depth, Caching: caching, Ordering: ordering})
		}
	}
	return matrix
}

func (o SearchOptions) Label() string {
	label := string(o.Algorithm)
	if o.Caching {
		label += "+cache"
	}
	if o.Ordering {
		label += "+order"
	}
	if o.Depth < 0 {
		return label + "@full"
	}
	return fmt.Sprintf("%s@%d", label, o.Depth)
}

// CompareConfigurations searches board once per configuration, all in
// parallel. Each search gets its own cache.
func CompareConfigurations(ctx context.Context, engine *Engine, board Board, color PlayerColor, configs []SearchOptions) ([]CompareEntry, error) {
	if len(configs) == 0 {
		return nil, errors.New("no configurations to compare")
	}
	entries := make([]CompareEntry, len(configs))
	g, gctx := errgroup.WithContext(ctx)
	for i, opts := range configs {
		i, opts := i, opts
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result := engine.Search(board, color, opts, nil)
			entries[i] = CompareEntry{
				Label:   opts.Label(),
				Options: opts,
				Utility: result.Utility,
				Stats:   result.Stats,
			}
			if result.HasMove {
				move := result.Move
				entries[i].Move = &move
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log := componentLogger("compare")
	for _, entry := range entries {
		log.Info().
			Str("config", entry.Label).
			Int("utility", entry.Utility).
			Int("leaves", entry.Stats.LeafEvaluations).
			Int("nodes", entry.Stats.Nodes).
			Dur("elapsed", entry.Stats.Elapsed).
			Msg("configuration searched")
	}
	distinct := lo.Uniq(lo.Map(entries, func(entry CompareEntry, _ int) int { return entry.Utility }))
	if len(distinct) > 1 {
		log.Warn().Ints("utilities", distinct).Msg("configurations disagree on root utility")
	}
	return entries, nil
}
