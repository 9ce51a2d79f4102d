package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"zerosum/searcher"

	"github.com/stretchr/testify/require"
)

func post(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func encode(t *testing.T, board string) string {
	t.Helper()
	body, err := json.Marshal(MoveRequest{Board: board})
	require.NoError(t, err)
	return string(body)
}

func TestFindMove(t *testing.T) {
	router := New(searcher.WithIterations(200), searcher.WithSeed(1)).Router()

	t.Run("answering with the winning move", func(t *testing.T) {
		rec := post(t, router, "/api/games/tictactoe/moves", encode(t, "XX.\nOO.\n...\n"))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp MoveResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Equal(t, "1C", resp.Move)
		require.Equal(t, 2, resp.Index)
		require.Equal(t, 200, resp.Iterations, "Metrics are reported without asking for them")
		require.Positive(t, resp.DurationMs)
		require.Len(t, resp.Probabilities, 5, "One entry per legal move")
	})

	t.Run("accepting boards with coordinates", func(t *testing.T) {
		rec := post(t, router, "/api/games/connect4/moves", encode(t, "1234567\n.......\n.......\n.......\n.......\n.......\n...X...\n"))

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown game", func(t *testing.T) {
		rec := post(t, router, "/api/games/chess/moves", encode(t, "..."))

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "unknown game")
	})

	t.Run("malformed board", func(t *testing.T) {
		rec := post(t, router, "/api/games/tictactoe/moves", encode(t, "X?.\n...\n...\n"))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid board")
	})

	t.Run("malformed payload", func(t *testing.T) {
		rec := post(t, router, "/api/games/tictactoe/moves", "{")

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("finished game", func(t *testing.T) {
		rec := post(t, router, "/api/games/tictactoe/moves", encode(t, "XXX\nOO.\n...\n"))

		require.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestListGames(t *testing.T) {
	router := New(searcher.WithIterations(1)).Router()
	req := httptest.NewRequest(http.MethodGet, "/api/games", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"games":["connect4","othello","tictactoe"]}`, rec.Body.String())
}
