package main

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const arenaBaseElo = 1500.0

// Profile describes one arena entrant, parsed from strings such as
// "alphabeta:depth=4:caching:ordering:heuristic=weighted" or "random".
type Profile struct {
	Name      string        `json:"name"`
	Random    bool          `json:"random,omitempty"`
	Options   SearchOptions `json:"options"`
	Heuristic string        `json:"heuristic"`
}

func ParseProfile(spec string) (Profile, error) {
	tokens := lo.Map(strings.Split(strings.TrimSpace(spec), ":"), func(token string, _ int) string {
		return strings.TrimSpace(token)
	})
	if len(tokens) == 0 || tokens[0] == "" {
		return Profile{}, errors.Errorf("profile %q: missing algorithm", spec)
	}
	profile := Profile{Name: strings.TrimSpace(spec), Heuristic: HeuristicUtility, Options: SearchOptions{Depth: 4}}
	if tokens[0] == "random" {
		profile.Random = true
	} else {
		algorithm, err := ParseAlgorithm(tokens[0])
		if err != nil {
			return Profile{}, errors.Wrapf(err, "profile %q", spec)
		}
		profile.Options.Algorithm = algorithm
	}
	for _, token := range tokens[1:] {
		key, value, _ := strings.Cut(token, "=")
		switch key {
		case "depth":
			depth, err := strconv.Atoi(value)
			if err != nil {
				return Profile{}, errors.Wrapf(err, "profile %q: depth", spec)
			}
			profile.Options.Depth = depth
		case "caching":
			profile.Options.Caching = true
		case "ordering":
			profile.Options.Ordering = true
		case "heuristic":
			if _, err := EvaluatorByName(value, NewRules()); err != nil {
				return Profile{}, errors.Wrapf(err, "profile %q", spec)
			}
			profile.Heuristic = value
		case "name":
			profile.Name = value
		default:
			return Profile{}, errors.Errorf("profile %q: unknown option %q", spec, token)
		}
	}
	return profile, nil
}

// NewPlayer builds a fresh player, so concurrent games never share a cache.
func (p Profile) NewPlayer(rules Rules, seed int64) (IPlayer, error) {
	if p.Random {
		return NewRandomPlayer(p.Name, rules, seed), nil
	}
	eval, err := EvaluatorByName(p.Heuristic, rules)
	if err != nil {
		return nil, err
	}
	return NewAIPlayer(p.Name, NewEngine(rules, eval), p.Options), nil
}

type contender struct {
	Profile Profile `json:"profile"`
	Elo     float64 `json:"elo"`
	Wins    int     `json:"wins"`
	Draws   int     `json:"draws"`
	Losses  int     `json:"losses"`
	Points  float64 `json:"points"`
}

type ArenaSettings struct {
	Games        int
	BoardSize    int
	OpeningPlies int
	Workers      int
	Seed         int64
	EloK         float64
}

func ArenaSettingsFromConfig(cfg ArenaConfig) ArenaSettings {
	return ArenaSettings{
		Games:        cfg.Games,
		BoardSize:    cfg.BoardSize,
		OpeningPlies: cfg.OpeningPlies,
		Workers:      cfg.Workers,
		Seed:         cfg.Seed,
		EloK:         cfg.EloK,
	}
}

type MatchResult struct {
	Opening   int        `json:"opening"`
	DarkName  string     `json:"dark"`
	LightName string     `json:"light"`
	FirstDark bool       `json:"first_dark"`
	Status    GameStatus `json:"-"`
	Result    string     `json:"result"`
	Dark      int        `json:"dark_disks"`
	Light     int        `json:"light_disks"`
	Plies     int        `json:"plies"`
	Passes    int        `json:"passes"`
}

// pointsForFirst is 1 for a win by the first profile, 0.5 for a draw.
func (m MatchResult) pointsForFirst() float64 {
	switch {
	case m.Status == StatusDraw:
		return 0.5
	case (m.Status == StatusDarkWon) == m.FirstDark:
		return 1
	default:
		return 0
	}
}

type ArenaReport struct {
	Standings []contender   `json:"standings"`
	Matches   []MatchResult `json:"matches"`
}

// RunArena plays every opening twice, once with each profile as dark, and
// rates the two profiles. Ratings are applied in opening order so the
// report does not depend on game scheduling.
func RunArena(ctx context.Context, first, second Profile, settings ArenaSettings) (ArenaReport, error) {
	log := componentLogger("arena")
	rules := NewRules()
	openings := buildOpeningSuite(rules, settings.BoardSize, settings.Games, settings.OpeningPlies, settings.Seed)
	results := make([]MatchResult, 2*len(openings))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(settings.Workers, 1))
	for i, opening := range openings {
		for side := 0; side < 2; side++ {
			idx := 2*i + side
			opening := opening
			openingIdx := i
			firstDark := side == 0
			g.Go(func() error {
				dark, light := first, second
				if !firstDark {
					dark, light = second, first
				}
				result, err := playArenaGame(gctx, rules, settings, opening, dark, light, settings.Seed+int64(idx))
				if err != nil {
					return errors.Wrapf(err, "opening %d", openingIdx)
				}
				result.Opening = openingIdx
				result.FirstDark = firstDark
				results[idx] = result
				log.Debug().
					Int("opening", openingIdx).
					Str("dark", result.DarkName).
					Str("light", result.LightName).
					Str("result", result.Result).
					Int("dark_disks", result.Dark).
					Int("light_disks", result.Light).
					Msg("game finished")
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return ArenaReport{}, err
	}

	a := &contender{Profile: first, Elo: arenaBaseElo}
	b := &contender{Profile: second, Elo: arenaBaseElo}
	for _, result := range results {
		points := result.pointsForFirst()
		updateElo(a, b, points, settings.EloK)
		a.Points += points
		b.Points += 1 - points
		switch points {
		case 1:
			a.Wins++
			b.Losses++
		case 0:
			a.Losses++
			b.Wins++
		default:
			a.Draws++
			b.Draws++
		}
	}
	standings := []contender{*a, *b}
	sortContendersByElo(standings)
	log.Info().
		Int("games", len(results)).
		Str("leader", standings[0].Profile.Name).
		Float64("leader_elo", standings[0].Elo).
		Float64("first_points", a.Points).
		Float64("second_points", b.Points).
		Msg("arena finished")
	return ArenaReport{Standings: standings, Matches: results}, nil
}

func playArenaGame(ctx context.Context, rules Rules, settings ArenaSettings, opening []Move, dark, light Profile, seed int64) (MatchResult, error) {
	darkPlayer, err := dark.NewPlayer(rules, seed)
	if err != nil {
		return MatchResult{}, err
	}
	lightPlayer, err := light.NewPlayer(rules, seed+1)
	if err != nil {
		return MatchResult{}, err
	}
	game := NewGame(GameSettings{BoardSize: settings.BoardSize})
	game.Start()
	for _, move := range opening {
		if len(game.LegalMoves()) == 0 {
			game.Pass()
		}
		if ok, reason := game.TryApplyMove(move); !ok {
			return MatchResult{}, errors.Errorf("opening move %v: %s", move, reason)
		}
	}
	status, err := game.Play(ctx, darkPlayer, lightPlayer)
	if err != nil {
		return MatchResult{}, err
	}
	darkDisks, lightDisks := game.Score()
	history := game.History()
	return MatchResult{
		DarkName:  dark.Name,
		LightName: light.Name,
		Status:    status,
		Result:    status.String(),
		Dark:      darkDisks,
		Light:     lightDisks,
		Plies:     history.Plies(),
		Passes:    history.Size() - history.Plies(),
	}, nil
}

// buildOpeningSuite plays random legal moves from the starting position and
// keeps sequences that reach distinct boards. Small boards may not offer
// count distinct openings; the suite then repeats from the start.
func buildOpeningSuite(rules Rules, boardSize, count, plies int, seed int64) [][]Move {
	rng := rand.New(rand.NewSource(seed))
	seen := map[uint64]bool{}
	var suite [][]Move
	for attempt := 0; attempt < count*20 && len(suite) < count; attempt++ {
		board := NewStartingBoard(boardSize)
		toMove := PlayerDark
		var moves []Move
		for len(moves) < plies {
			legal := rules.LegalMoves(board, toMove)
			if len(legal) == 0 {
				toMove = toMove.Opponent()
				if len(rules.LegalMoves(board, toMove)) == 0 {
					break
				}
				continue
			}
			move := legal[rng.Intn(len(legal))]
			board = rules.ApplyMove(board, toMove, move)
			moves = append(moves, move)
			toMove = toMove.Opponent()
		}
		if seen[board.Fingerprint()] {
			continue
		}
		seen[board.Fingerprint()] = true
		suite = append(suite, moves)
	}
	for i := 0; len(suite) < count; i++ {
		suite = append(suite, suite[i])
	}
	return suite
}

func sortContendersByElo(list []contender) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Elo > list[j].Elo
	})
}

func updateElo(a *contender, b *contender, resultForA float64, k float64) {
	expA := 1.0 / (1.0 + math.Pow(10, (b.Elo-a.Elo)/400.0))
	expB := 1.0 / (1.0 + math.Pow(10, (a.Elo-b.Elo)/400.0))
	a.Elo += k * (resultForA - expA)
	b.Elo += k * ((1.0 - resultForA) - expB)
}
