package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"zerosum/game"
	"zerosum/searcher"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

var Modes = []string{"selfplay", "match", "train", "serve"}

type Config struct {
	Game     string         `yaml:"game"`
	Mode     string         `yaml:"mode"`
	Log      LogConfig      `yaml:"log"`
	Search   SearchConfig   `yaml:"search"`
	Match    MatchConfig    `yaml:"match"`
	Training TrainingConfig `yaml:"training"`
	Server   ServerConfig   `yaml:"server"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// SearchConfig describes one MCTS player; Random swaps it for a uniformly
// random mover.
type SearchConfig struct {
	Random            bool          `yaml:"random"`
	Iterations        int           `yaml:"iterations"`
	Duration          time.Duration `yaml:"duration"`
	Processes         int           `yaml:"processes"`
	ExplorationWindow int           `yaml:"exploration_window"`
	ExplorationWeight float64       `yaml:"exploration_weight"`
	Seed              uint64        `yaml:"seed"`
}

// MatchConfig pits the search config against each opponent.
type MatchConfig struct {
	Games       int            `yaml:"games"`
	Concurrency int            `yaml:"concurrency"`
	Opponents   []SearchConfig `yaml:"opponents"`
	Output      string         `yaml:"output"`
}

type TrainingConfig struct {
	Iterations int    `yaml:"iterations"`
	Size       int    `yaml:"size"`
	WholeGames bool   `yaml:"whole_games"`
	Output     string `yaml:"output"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

func Default() Config {
	return Config{
		Game: "tictactoe",
		Mode: "selfplay",
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
		Search: SearchConfig{
			Iterations:        1000,
			Processes:         1,
			ExplorationWindow: searcher.DefaultExplorationWindow,
			ExplorationWeight: searcher.DefaultExplorationWeight,
		},
		Match: MatchConfig{
			Games:       10,
			Concurrency: 1,
			Output:      "experiments",
		},
		Training: TrainingConfig{
			Iterations: 200,
			Size:       1000,
			Output:     "experiments",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads and validates a YAML file over the defaults.
func Load(path string) (Config, error) {
	return Resolve(path, "", "")
}

// Resolve builds the config a run uses: the defaults, then the YAML file at
// path if any, then non-empty mode and game overrides. Validation runs last.
func Resolve(path, mode, gameName string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if mode != "" {
		cfg.Mode = mode
	}
	if gameName != "" {
		cfg.Game = gameName
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if !slices.Contains(game.Names(), c.Game) {
		return fmt.Errorf("%w: game %q is not one of %v", ErrInvalidConfig, c.Game, game.Names())
	}
	if !slices.Contains(Modes, c.Mode) {
		return fmt.Errorf("%w: mode %q is not one of %v", ErrInvalidConfig, c.Mode, Modes)
	}
	if err := c.Search.validate("search"); err != nil {
		return err
	}
	for i, opponent := range c.Match.Opponents {
		if err := opponent.validate(fmt.Sprintf("match.opponents[%d]", i)); err != nil {
			return err
		}
	}
	if c.Mode == "match" && len(c.Match.Opponents) == 0 {
		return fmt.Errorf("%w: match mode needs at least one opponent", ErrInvalidConfig)
	}
	if c.Mode == "train" && (c.Training.Iterations <= 0 || c.Training.Size <= 0) {
		return fmt.Errorf("%w: training needs positive iterations and size", ErrInvalidConfig)
	}
	return nil
}

func (s SearchConfig) validate(field string) error {
	if s.Random {
		return nil
	}
	if s.Iterations <= 0 && s.Duration <= 0 {
		return fmt.Errorf("%w: %s needs iterations or a duration", ErrInvalidConfig, field)
	}
	if s.Processes < 0 || s.ExplorationWindow < 0 || s.ExplorationWeight < 0 {
		return fmt.Errorf("%w: %s has a negative setting", ErrInvalidConfig, field)
	}
	return nil
}

// Options turns the search settings into player options.
func (s SearchConfig) Options() []searcher.Option {
	options := []searcher.Option{
		searcher.WithIterations(s.Iterations),
		searcher.WithDuration(s.Duration),
		searcher.WithProcessCount(s.Processes),
		searcher.WithExplorationWindow(s.ExplorationWindow),
		searcher.WithExplorationWeight(s.ExplorationWeight),
		searcher.WithMetrics(),
	}
	if s.Seed != 0 {
		options = append(options, searcher.WithSeed(s.Seed))
	}
	return options
}
