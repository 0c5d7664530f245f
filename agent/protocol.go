package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// ManagerSetup is the first line the game manager sends:
// "color,limit,minimax,caching,ordering".
type ManagerSetup struct {
	Color    PlayerColor
	Limit    int
	Minimax  bool
	Caching  bool
	Ordering bool
}

func (m ManagerSetup) SearchOptions() SearchOptions {
	algorithm := AlgorithmAlphaBeta
	if m.Minimax {
		algorithm = AlgorithmMinimax
	}
	return SearchOptions{Algorithm: algorithm, Depth: m.Limit, Caching: m.Caching, Ordering: m.Ordering}
}

func ParseManagerSetup(line string) (ManagerSetup, error) {
	fields := lo.Map(strings.Split(strings.TrimSpace(line), ","), func(field string, _ int) string {
		return strings.TrimSpace(field)
	})
	if len(fields) != 5 {
		return ManagerSetup{}, errors.Errorf("setup line %q: want 5 comma-separated fields, got %d", line, len(fields))
	}
	values := make([]int, len(fields))
	for i, field := range fields {
		value, err := strconv.Atoi(field)
		if err != nil {
			return ManagerSetup{}, errors.Wrapf(err, "setup line %q: field %d", line, i)
		}
		values[i] = value
	}
	setup := ManagerSetup{
		Color:    PlayerColor(values[0]),
		Limit:    values[1],
		Minimax:  values[2] == 1,
		Caching:  values[3] == 1,
		Ordering: values[4] == 1,
	}
	if !setup.Color.Valid() {
		return ManagerSetup{}, errors.Errorf("setup line %q: color must be 1 or 2", line)
	}
	return setup, nil
}

// ManagerStatus is a "SCORE d l" or "FINAL d l" line.
type ManagerStatus struct {
	Final bool
	Dark  int
	Light int
}

func ParseManagerStatus(line string) (ManagerStatus, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return ManagerStatus{}, errors.Errorf("status line %q: want 3 fields, got %d", line, len(fields))
	}
	var status ManagerStatus
	switch fields[0] {
	case "SCORE":
	case "FINAL":
		status.Final = true
	default:
		return ManagerStatus{}, errors.Errorf("status line %q: unknown status %q", line, fields[0])
	}
	var err error
	if status.Dark, err = strconv.Atoi(fields[1]); err != nil {
		return ManagerStatus{}, errors.Wrapf(err, "status line %q: dark score", line)
	}
	if status.Light, err = strconv.Atoi(fields[2]); err != nil {
		return ManagerStatus{}, errors.Wrapf(err, "status line %q: light score", line)
	}
	return status, nil
}

// ParseBoard reads a list of rows of 0/1/2. Both JSON brackets and tuple
// parentheses are accepted.
func ParseBoard(line string) (Board, error) {
	normalized := strings.NewReplacer("(", "[", ")", "]").Replace(strings.TrimSpace(line))
	var rows [][]int
	if err := json.Unmarshal([]byte(normalized), &rows); err != nil {
		return Board{}, errors.Wrap(err, "board line")
	}
	if len(rows) == 0 {
		return Board{}, errors.New("board line: empty board")
	}
	for y, row := range rows {
		if len(row) != len(rows) {
			return Board{}, errors.Errorf("board line: row %d has %d cells, want %d", y, len(row), len(rows))
		}
		for x, cell := range row {
			if cell < int(CellEmpty) || cell > int(CellLight) {
				return Board{}, errors.Errorf("board line: cell (%d,%d) has value %d", x, y, cell)
			}
		}
	}
	return NewBoardFromRows(rows), nil
}

// RunProtocol speaks the game-manager protocol until FINAL or end of input.
func RunProtocol(in io.Reader, out io.Writer, cfg Config) error {
	log := componentLogger("protocol")
	lines := bufio.NewScanner(in)
	lines.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if _, err := fmt.Fprintln(out, cfg.AgentName); err != nil {
		return errors.Wrap(err, "write agent name")
	}
	line, ok, err := nextLine(lines)
	if err != nil || !ok {
		return errors.Wrap(orEOF(err), "read setup")
	}
	setup, err := ParseManagerSetup(line)
	if err != nil {
		return err
	}
	logSetup(log, setup)

	rules := NewRules()
	eval, err := EvaluatorByName(cfg.Heuristic, rules)
	if err != nil {
		return err
	}
	player := NewAIPlayer(cfg.AgentName, NewEngine(rules, eval), setup.SearchOptions())

	for {
		line, ok, err := nextLine(lines)
		if err != nil {
			return errors.Wrap(err, "read status")
		}
		if !ok {
			log.Warn().Msg("input closed before FINAL")
			return nil
		}
		status, err := ParseManagerStatus(line)
		if err != nil {
			return err
		}
		if status.Final {
			log.Info().Int("dark", status.Dark).Int("light", status.Light).Msg("game over")
			return nil
		}
		line, ok, err = nextLine(lines)
		if err != nil || !ok {
			return errors.Wrap(orEOF(err), "read board")
		}
		board, err := ParseBoard(line)
		if err != nil {
			return err
		}
		move, ok := player.ChooseMove(board, setup.Color)
		reply := "pass"
		if ok {
			reply = fmt.Sprintf("%d %d", move.X, move.Y)
		}
		log.Debug().
			Int("dark", status.Dark).
			Int("light", status.Light).
			Uint64("board", board.Fingerprint()).
			Str("reply", reply).
			Msg("move sent")
		if _, err := fmt.Fprintln(out, reply); err != nil {
			return errors.Wrap(err, "write move")
		}
	}
}

// nextLine skips blank lines. ok is false at end of input.
func nextLine(lines *bufio.Scanner) (string, bool, error) {
	for lines.Scan() {
		if line := strings.TrimSpace(lines.Text()); line != "" {
			return line, true, nil
		}
	}
	return "", false, lines.Err()
}

func orEOF(err error) error {
	if err == nil {
		return io.ErrUnexpectedEOF
	}
	return err
}

func logSetup(log zerolog.Logger, setup ManagerSetup) {
	opts := setup.SearchOptions()
	event := log.Info().
		Stringer("color", setup.Color).
		Str("algorithm", string(opts.Algorithm)).
		Bool("caching", opts.Caching).
		Bool("ordering", opts.Ordering)
	if opts.Depth < 0 {
		event = event.Str("depth_limit", "off")
	} else {
		event = event.Int("depth_limit", opts.Depth)
	}
	event.Msg("agent configured")
	if setup.Minimax && setup.Ordering {
		log.Warn().Msg("node ordering has no effect on minimax")
	}
}
