package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/rs/zerolog/log"
)

const (
	modeAgent   = "agent"
	modeArena   = "arena"
	modeCompare = "compare"
)

type cliOptions struct {
	mode    string
	envFile string
	profile string
	board   string
	color   int
	matrix  bool
}

func main() {
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Error().Interface("panic", recovered).Msg("panic recovered in main")
			os.Exit(2)
		}
	}()
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Error().Err(err).Msg("agent failed")
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("othello-agent", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var cli cliOptions
	fs.StringVar(&cli.mode, "mode", modeAgent, "agent | arena | compare")
	fs.StringVar(&cli.envFile, "env", ".env", "optional env file with OTHELLO_* settings")
	fs.StringVar(&cli.profile, "profile", "", "write a cpu or mem profile to the working directory")
	fs.StringVar(&cli.board, "board", "", "compare: board rows, e.g. [[0,0],[0,0]]; default is the starting position")
	fs.IntVar(&cli.color, "color", int(PlayerDark), "compare: color to move (1 dark, 2 light)")
	fs.BoolVar(&cli.matrix, "matrix", false, "compare: search every configuration instead of the configured one")
	fs.Int("depth", 0, "compare: search depth, -1 for unbounded")
	fs.String("algorithm", "", "compare: minimax | alphabeta")
	fs.Bool("caching", false, "compare: enable the transposition cache")
	fs.Bool("ordering", false, "compare: enable alpha-beta move ordering")
	fs.String("heuristic", "", "utility | weighted")
	fs.String("log-level", "", "zerolog level")
	fs.String("first", "", "arena: first profile")
	fs.String("second", "", "arena: second profile")
	fs.Int("games", 0, "arena: number of openings, each played with both colors")
	fs.Int("workers", 0, "arena: concurrent games")
	fs.Int64("seed", 0, "arena: opening suite seed")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(err, "parse flags")
	}

	cfg, err := LoadConfig(cli.envFile)
	if err != nil {
		return err
	}
	applyFlagOverrides(fs, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	configStore.Update(cfg)
	if err := configureLogging(cfg, stderr); err != nil {
		return err
	}
	log.Debug().Stringer("cli", cli).Msg("starting")

	switch cli.profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	default:
		return errors.Errorf("unknown profile mode %q", cli.profile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cli.mode {
	case modeAgent:
		return RunProtocol(stdin, stdout, cfg)
	case modeArena:
		return runArena(ctx, cfg, stdout)
	case modeCompare:
		return runCompare(ctx, cfg, cli, stdout)
	default:
		return errors.Errorf("unknown mode %q", cli.mode)
	}
}

// applyFlagOverrides copies only flags set on the command line, so env and
// file settings survive when a flag is omitted.
func applyFlagOverrides(fs *flag.FlagSet, cfg *Config) {
	fs.Visit(func(f *flag.Flag) {
		getter, ok := f.Value.(flag.Getter)
		if !ok {
			return
		}
		switch value := getter.Get().(type) {
		case int:
			switch f.Name {
			case "depth":
				cfg.Depth = value
			case "games":
				cfg.Arena.Games = value
			case "workers":
				cfg.Arena.Workers = value
			}
		case int64:
			if f.Name == "seed" {
				cfg.Arena.Seed = value
			}
		case bool:
			switch f.Name {
			case "caching":
				cfg.Caching = value
			case "ordering":
				cfg.Ordering = value
			}
		case string:
			switch f.Name {
			case "algorithm":
				cfg.Algorithm = value
			case "heuristic":
				cfg.Heuristic = value
			case "log-level":
				cfg.LogLevel = value
			case "first":
				cfg.Arena.First = value
			case "second":
				cfg.Arena.Second = value
			}
		}
	})
}

func runArena(ctx context.Context, cfg Config, stdout io.Writer) error {
	first, err := ParseProfile(cfg.Arena.First)
	if err != nil {
		return err
	}
	second, err := ParseProfile(cfg.Arena.Second)
	if err != nil {
		return err
	}
	report, err := RunArena(ctx, first, second, ArenaSettingsFromConfig(cfg.Arena))
	if err != nil {
		return errors.Wrap(err, "arena")
	}
	return writeJSON(stdout, report)
}

func runCompare(ctx context.Context, cfg Config, cli cliOptions, stdout io.Writer) error {
	board := NewStartingBoard(8)
	if cli.board != "" {
		parsed, err := ParseBoard(cli.board)
		if err != nil {
			return err
		}
		board = parsed
	}
	color := PlayerColor(cli.color)
	if !color.Valid() {
		return errors.Errorf("compare: color must be 1 or 2, got %d", cli.color)
	}
	rules := NewRules()
	eval, err := EvaluatorByName(cfg.Heuristic, rules)
	if err != nil {
		return err
	}
	configs := compareMatrix(cfg.Depth)
	if !cli.matrix {
		opts, err := cfg.SearchOptions()
		if err != nil {
			return err
		}
		configs = []SearchOptions{opts}
	}
	entries, err := CompareConfigurations(ctx, NewEngine(rules, eval), board, color, configs)
	if err != nil {
		return errors.Wrap(err, "compare")
	}
	return writeJSON(stdout, entries)
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return errors.Wrap(err, "encode result")
	}
	return nil
}

func (c cliOptions) String() string {
	return fmt.Sprintf("mode=%s env=%s profile=%s matrix=%t", c.mode, c.envFile, c.profile, c.matrix)
}
