package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"zerosum/game"
	"zerosum/searcher"
	"zerosum/server"
)

// RemoteAgent asks a move server for every move.
type RemoteAgent struct {
	baseURL string
	game    string
	client  *http.Client
	metric  searcher.SearchMetric
}

func NewRemoteAgent(baseURL, gameName string, client *http.Client) *RemoteAgent {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteAgent{
		baseURL: baseURL,
		game:    gameName,
		client:  client,
	}
}

// ChooseMove posts the board to /api/games/{game}/moves
func (a *RemoteAgent) ChooseMove(ctx context.Context, board game.State) (int, error) {
	body, err := json.Marshal(server.MoveRequest{Board: board.Display(false)})
	if err != nil {
		return 0, fmt.Errorf("failed to encode board: %w", err)
	}

	url := fmt.Sprintf("%s/api/games/%s/moves", a.baseURL, a.game)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create move request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to request move: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("move server returned status %d: %s", resp.StatusCode, bytes.TrimSpace(out))
	}

	var payload server.MoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("failed to decode move: %w", err)
	}
	move, err := board.ParseMove(payload.Move)
	if err != nil {
		return 0, fmt.Errorf("move server answered %q: %w", payload.Move, err)
	}

	a.metric = searcher.SearchMetric{
		Processes:  1,
		Iterations: payload.Iterations,
		Duration:   time.Duration(payload.DurationMs * float64(time.Millisecond)),
	}
	return move, nil
}

func (a *RemoteAgent) Metrics() searcher.SearchMetric {
	return a.metric
}
