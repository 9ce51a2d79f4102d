package game

import (
	"fmt"
	"sort"
)

type rules struct {
	start func() State
	parse func(text string) (State, error)
}

var registry = map[string]rules{
	"tictactoe": {
		start: func() State { return NewTicTacToe() },
		parse: func(text string) (State, error) { return ParseTicTacToe(text) },
	},
	"connect4": {
		start: func() State { return NewConnect4() },
		parse: func(text string) (State, error) { return ParseConnect4(text) },
	},
	"othello": {
		start: func() State { return NewOthello() },
		parse: func(text string) (State, error) { return ParseOthello(text) },
	},
}

// New returns the starting position of the named game.
func New(name string) (State, error) {
	r, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known games: %v)", ErrUnknownGame, name, Names())
	}
	return r.start(), nil
}

// Parse reads a board of the named game from its text format.
func Parse(name, text string) (State, error) {
	r, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known games: %v)", ErrUnknownGame, name, Names())
	}
	return r.parse(text)
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
