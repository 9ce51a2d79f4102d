package experiments

import (
	"context"
	"fmt"
	"time"

	"zerosum/config"
	"zerosum/engine"
	"zerosum/game"
	"zerosum/searcher"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type AgentConfig struct {
	ID     int                 `json:"id"`
	Search config.SearchConfig `json:"search"`
}

type GameRecord struct {
	ID          int
	AgentX      int // AgentConfig.ID
	AgentO      int // AgentConfig.ID
	WinnerAgent int // AgentConfig.ID, -1 for a draw
	engine.GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	engine.MoveMetric
}

// Experiment plays NumGames games for every match-up, alternating which
// agent moves first.
type Experiment struct {
	Name        string
	Game        string
	NumGames    int
	Concurrency int
	Agents      []AgentConfig
	MatchUps    [][2]AgentConfig
}

type Result struct {
	Games []GameRecord
	Moves []MoveRecord
}

// NewMatchExperiment pairs the configured search against every opponent.
func NewMatchExperiment(cfg config.Config) Experiment {
	baseline := AgentConfig{ID: 0, Search: cfg.Search}
	exp := Experiment{
		Name:        "match",
		Game:        cfg.Game,
		NumGames:    cfg.Match.Games,
		Concurrency: cfg.Match.Concurrency,
		Agents:      []AgentConfig{baseline},
	}
	for i, opponent := range cfg.Match.Opponents {
		agent := AgentConfig{ID: i + 1, Search: opponent}
		exp.Agents = append(exp.Agents, agent)
		exp.MatchUps = append(exp.MatchUps, [2]AgentConfig{baseline, agent})
	}
	return exp
}

// NewSelfPlayExperiment plays the configured search against itself.
func NewSelfPlayExperiment(cfg config.Config) Experiment {
	agent := AgentConfig{ID: 0, Search: cfg.Search}
	return Experiment{
		Name:        "selfplay",
		Game:        cfg.Game,
		NumGames:    cfg.Match.Games,
		Concurrency: cfg.Match.Concurrency,
		Agents:      []AgentConfig{agent},
		MatchUps:    [][2]AgentConfig{{agent, agent}},
	}
}

func Run(ctx context.Context, exp Experiment) (Result, error) {
	start, err := game.New(exp.Game)
	if err != nil {
		return Result{}, err
	}

	type job struct {
		id     int
		x, o   AgentConfig
		result GameRecord
		moves  []engine.MoveMetric
	}
	var jobs []*job
	for _, matchUp := range exp.MatchUps {
		for i := 0; i < exp.NumGames; i++ {
			x, o := matchUp[0], matchUp[1]
			if i%2 == 1 {
				x, o = o, x
			}
			jobs = append(jobs, &job{id: len(jobs) + 1, x: x, o: o})
		}
	}

	log.Info().Msgf("starting %s experiment with %d games...", exp.Name, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(exp.Concurrency, 1))
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			winner, gameMetric, moveMetrics, err := runGame(ctx, start, j.x, j.o)
			if err != nil {
				return fmt.Errorf("game %d failed: %w", j.id, err)
			}

			j.result = GameRecord{ID: j.id, AgentX: j.x.ID, AgentO: j.o.ID, WinnerAgent: -1, GameMetric: gameMetric}
			switch winner {
			case game.XPlayer:
				j.result.WinnerAgent = j.x.ID
			case game.OPlayer:
				j.result.WinnerAgent = j.o.ID
			}
			j.moves = moveMetrics

			log.Info().Msgf("completed game %d of %d with winner: %s", j.id, len(jobs), winner)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var result Result
	for _, j := range jobs {
		result.Games = append(result.Games, j.result)
		for _, m := range j.moves {
			result.Moves = append(result.Moves, MoveRecord{Game: j.id, MoveMetric: m})
		}
	}

	log.Info().Msgf("completed %s experiment", exp.Name)
	return result, nil
}

// runGame executes a single game between two agents and returns the winner
func runGame(ctx context.Context, start game.State, x, o AgentConfig) (game.Player, engine.GameMetric, []engine.MoveMetric, error) {
	e := engine.NewLocalEngine(start, newAgent(start, x), newAgent(start, o))
	return e.Run(ctx)
}

func newAgent(start game.State, agent AgentConfig) engine.Agent {
	if agent.Search.Random {
		return engine.NewRandomAgent(agent.Search.Seed)
	}
	return searcher.NewPlayer(start, agent.Search.Options()...)
}

// Save stores the experiment's setup and records under root.
func Save(root string, exp Experiment, result Result, startTime, endTime time.Time) (string, error) {
	writer, err := NewWriter(root, exp.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	setup := Setup{
		Name:      exp.Name,
		Game:      exp.Game,
		Agents:    exp.Agents,
		NumGames:  exp.NumGames,
		StartTime: startTime,
		EndTime:   endTime,
		Duration:  endTime.Sub(startTime),
	}
	for _, matchUp := range exp.MatchUps {
		setup.MatchUps = append(setup.MatchUps, [2]int{matchUp[0].ID, matchUp[1].ID})
	}
	if err := writer.WriteSetup(setup); err != nil {
		return "", err
	}
	if err := writer.WriteAgentConfigs(exp.Agents); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(result.Games); err != nil {
		return "", fmt.Errorf("failed to store game records: %w", err)
	}
	if err := writer.WriteMoveRecords(result.Moves); err != nil {
		return "", fmt.Errorf("failed to store move records: %w", err)
	}

	log.Info().Str("dir", writer.Dir()).Msg("stored experiment records")
	return writer.Dir(), nil
}

// CreateDataset self-plays with the configured search and stores the
// resulting training data under root.
func CreateDataset(ctx context.Context, cfg config.Config, root string) (string, error) {
	start, err := game.New(cfg.Game)
	if err != nil {
		return "", err
	}

	manager := searcher.NewSearchManager(start, nil, cfg.Search.Options()...)
	var data searcher.Dataset
	if cfg.Training.WholeGames {
		data, err = manager.CreateTrainingDataMin(ctx, cfg.Training.Iterations, cfg.Training.Size)
	} else {
		data, err = manager.CreateTrainingData(ctx, cfg.Training.Iterations, cfg.Training.Size)
	}
	if err != nil {
		return "", fmt.Errorf("failed to create training data: %w", err)
	}

	writer, err := NewWriter(root, "training")
	if err != nil {
		return "", fmt.Errorf("failed to create dataset writer: %w", err)
	}
	if err := writer.WriteDataset(data); err != nil {
		return "", err
	}

	log.Info().Int("positions", data.Len()).Str("dir", writer.Dir()).Msg("stored training data")
	return writer.Dir(), nil
}
