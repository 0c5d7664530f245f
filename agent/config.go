package main

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type Config struct {
	AgentName      string      `json:"agent_name"`
	Depth          int         `json:"depth"`
	Algorithm      string      `json:"algorithm"`
	Caching        bool        `json:"caching"`
	Ordering       bool        `json:"ordering"`
	Heuristic      string      `json:"heuristic"`
	LogLevel       string      `json:"log_level"`
	LogFormat      string      `json:"log_format"`
	LogSearchStats bool        `json:"log_search_stats"`
	Arena          ArenaConfig `json:"arena"`
}

type ArenaConfig struct {
	First        string  `json:"first"`
	Second       string  `json:"second"`
	Games        int     `json:"games"`
	BoardSize    int     `json:"board_size"`
	OpeningPlies int     `json:"opening_plies"`
	Workers      int     `json:"workers"`
	Seed         int64   `json:"seed"`
	EloK         float64 `json:"elo_k"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		AgentName: "Othello AI",
		Depth:     4,
		Algorithm: string(AlgorithmAlphaBeta),
		Caching:   true,
		Ordering:  true,
		Heuristic: HeuristicUtility,
		LogLevel:  "info",
		LogFormat: "console",

		// Stats lines go to stderr and are cheap; the manager ignores them.
		LogSearchStats: false,

		Arena: ArenaConfig{
			First:        "alphabeta:depth=4:caching:ordering",
			Second:       "minimax:depth=2",
			Games:        8,
			BoardSize:    8,
			OpeningPlies: 4,
			Workers:      runtime.NumCPU(),
			Seed:         1,
			EloK:         24,
		},
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}

func (c Config) SearchOptions() (SearchOptions, error) {
	algorithm, err := ParseAlgorithm(c.Algorithm)
	if err != nil {
		return SearchOptions{}, err
	}
	// Minimax has no ordering step.
	ordering := c.Ordering && algorithm == AlgorithmAlphaBeta
	return SearchOptions{Algorithm: algorithm, Depth: c.Depth, Caching: c.Caching, Ordering: ordering}, nil
}

func (c Config) Validate() error {
	if _, err := ParseAlgorithm(c.Algorithm); err != nil {
		return errors.Wrap(err, "config")
	}
	if _, err := EvaluatorByName(c.Heuristic, NewRules()); err != nil {
		return errors.Wrap(err, "config")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return errors.Wrapf(err, "config: log level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return errors.Errorf("config: log format must be console or json, got %q", c.LogFormat)
	}
	if c.Arena.Games <= 0 {
		return errors.Errorf("config: arena games must be positive, got %d", c.Arena.Games)
	}
	if c.Arena.BoardSize < 4 || c.Arena.BoardSize%2 != 0 {
		return errors.Errorf("config: arena board size must be even and at least 4, got %d", c.Arena.BoardSize)
	}
	if c.Arena.OpeningPlies < 0 {
		return errors.Errorf("config: arena opening plies must not be negative, got %d", c.Arena.OpeningPlies)
	}
	if c.Arena.Workers <= 0 {
		return errors.Errorf("config: arena workers must be positive, got %d", c.Arena.Workers)
	}
	if c.Arena.EloK <= 0 {
		return errors.Errorf("config: arena elo k must be positive, got %v", c.Arena.EloK)
	}
	return nil
}

// LoadConfig layers OTHELLO_* variables over the defaults. Variables set in
// the process environment win over those read from envFile; a missing
// envFile is not an error.
func LoadConfig(envFile string) (Config, error) {
	fileEnv := map[string]string{}
	if envFile != "" {
		values, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileEnv = values
		case os.IsNotExist(errors.Cause(err)):
		default:
			return Config{}, errors.Wrapf(err, "read env file %s", envFile)
		}
	}
	env := &envReader{file: fileEnv}
	cfg := DefaultConfig()
	cfg.AgentName = env.getenv("OTHELLO_AGENT_NAME", cfg.AgentName)
	cfg.Depth = env.getenvInt("OTHELLO_DEPTH", cfg.Depth)
	cfg.Algorithm = env.getenv("OTHELLO_ALGORITHM", cfg.Algorithm)
	cfg.Caching = env.getenvBool("OTHELLO_CACHING", cfg.Caching)
	cfg.Ordering = env.getenvBool("OTHELLO_ORDERING", cfg.Ordering)
	cfg.Heuristic = env.getenv("OTHELLO_HEURISTIC", cfg.Heuristic)
	cfg.LogLevel = env.getenv("OTHELLO_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = env.getenv("OTHELLO_LOG_FORMAT", cfg.LogFormat)
	cfg.LogSearchStats = env.getenvBool("OTHELLO_LOG_SEARCH_STATS", cfg.LogSearchStats)
	cfg.Arena.First = env.getenv("OTHELLO_ARENA_FIRST", cfg.Arena.First)
	cfg.Arena.Second = env.getenv("OTHELLO_ARENA_SECOND", cfg.Arena.Second)
	cfg.Arena.Games = env.getenvInt("OTHELLO_ARENA_GAMES", cfg.Arena.Games)
	cfg.Arena.BoardSize = env.getenvInt("OTHELLO_ARENA_BOARD_SIZE", cfg.Arena.BoardSize)
	cfg.Arena.OpeningPlies = env.getenvInt("OTHELLO_ARENA_OPENING_PLIES", cfg.Arena.OpeningPlies)
	cfg.Arena.Workers = env.getenvInt("OTHELLO_ARENA_WORKERS", cfg.Arena.Workers)
	cfg.Arena.Seed = int64(env.getenvInt("OTHELLO_ARENA_SEED", int(cfg.Arena.Seed)))
	cfg.Arena.EloK = env.getenvFloat("OTHELLO_ARENA_ELO_K", cfg.Arena.EloK)
	if env.err != nil {
		return Config{}, env.err
	}
	return cfg, nil
}

// envReader keeps the first parse failure so callers get one error for the
// whole load.
type envReader struct {
	file map[string]string
	err  error
}

func (r *envReader) lookup(key string) (string, bool) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value, true
	}
	value := strings.TrimSpace(r.file[key])
	return value, value != ""
}

func (r *envReader) fail(key, value string, err error) {
	if r.err == nil {
		r.err = errors.Wrapf(err, "parse %s=%q", key, value)
	}
}

func (r *envReader) getenv(key, fallback string) string {
	value, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	return value
}

func (r *envReader) getenvInt(key string, fallback int) int {
	value, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		r.fail(key, value, err)
		return fallback
	}
	return parsed
}

func (r *envReader) getenvFloat(key string, fallback float64) float64 {
	value, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		r.fail(key, value, err)
		return fallback
	}
	return parsed
}

func (r *envReader) getenvBool(key string, fallback bool) bool {
	value, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		r.fail(key, value, err)
		return fallback
	}
	return parsed
}
