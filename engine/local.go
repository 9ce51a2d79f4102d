package engine

import (
	"context"
	"fmt"
	"slices"
	"time"

	"zerosum/game"

	"github.com/rs/zerolog/log"
)

type LocalEngine struct {
	start  game.State
	agents map[game.Player]Agent
}

func NewLocalEngine(start game.State, x, o Agent) *LocalEngine {
	if x == nil || o == nil {
		panic("need an agent for each player")
	}
	return &LocalEngine{
		start:  start,
		agents: map[game.Player]Agent{game.XPlayer: x, game.OPlayer: o},
	}
}

// Run executes the entire game loop until the game ends.
func (e *LocalEngine) Run(ctx context.Context) (game.Player, GameMetric, []MoveMetric, error) {
	board := e.start
	gameMetric := GameMetric{
		StartingPlayer: board.Player(),
		StartTime:      time.Now(),
	}
	var moveMetrics []MoveMetric

	log.Info().Msgf("player %s is starting", board.Player())

	step := 1
	for !board.IsEnded() && step <= MaxMoves {
		player := board.Player()
		move, err := e.agents[player].ChooseMove(ctx, board)
		if err != nil {
			return game.NoPlayer, gameMetric, moveMetrics, fmt.Errorf("player %s failed to choose move %d: %w", player, step, err)
		}
		if !slices.Contains(board.LegalMoves(), move) {
			return game.NoPlayer, gameMetric, moveMetrics, fmt.Errorf("player %s chose %s: %w", player, board.FormatMove(move), game.ErrInvalidMove)
		}

		moveMetrics = append(moveMetrics, MoveMetric{
			Step:         step,
			Player:       player,
			Move:         board.FormatMove(move),
			SearchMetric: e.agents[player].Metrics(),
		})
		log.Debug().Int("step", step).Str("player", player.String()).Str("move", board.FormatMove(move)).Msg("played move")

		board = board.Play(move)
		step++
	}

	if !board.IsEnded() {
		log.Warn().Msgf("stopped after %d moves without a result", MaxMoves)
	}

	gameMetric.Winner = board.Winner()
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	return gameMetric.Winner, gameMetric, moveMetrics, nil
}
