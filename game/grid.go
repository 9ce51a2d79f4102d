package game

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"unicode"
)

// Grid is the board shared by all the grid games: rows*cols cells stored
// row by row, followed by any metadata cells a game needs.
type Grid struct {
	rows  int
	cols  int
	cells []Player
}

var lineDirections = [][2]int{
	{0, 1},  // row
	{1, 0},  // column
	{1, 1},  // diagonal
	{1, -1}, // anti-diagonal
}

func newGrid(rows, cols, metadata int) Grid {
	return Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]Player, rows*cols+metadata),
	}
}

func (g Grid) Rows() int {
	return g.rows
}

func (g Grid) Cols() int {
	return g.cols
}

func (g Grid) At(row, col int) Player {
	return g.cells[g.index(row, col)]
}

// Cells returns a copy of every cell, metadata included.
func (g Grid) Cells() []Player {
	cells := make([]Player, len(g.cells))
	copy(cells, g.cells)
	return cells
}

func (g Grid) index(row, col int) int {
	return row*g.cols + col
}

func (g Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g Grid) clone() Grid {
	return Grid{
		rows:  g.rows,
		cols:  g.cols,
		cells: g.Cells(),
	}
}

func (g Grid) counts() (x, o int) {
	for _, p := range g.cells[:g.rows*g.cols] {
		switch p {
		case XPlayer:
			x++
		case OPlayer:
			o++
		}
	}
	return x, o
}

// activeByCount derives the player to move from piece counts: X moves first,
// so whoever has placed fewer pieces moves next.
func (g Grid) activeByCount() Player {
	x, o := g.counts()
	if x > o {
		return OPlayer
	}
	return XPlayer
}

func (g Grid) PieceCount() int {
	x, o := g.counts()
	return x + o
}

func (g Grid) emptyCells() []int {
	moves := make([]int, 0, g.rows*g.cols)
	for i, p := range g.cells[:g.rows*g.cols] {
		if p == NoPlayer {
			moves = append(moves, i)
		}
	}
	return moves
}

// hasRun slides a window of the given length over every row, column and
// diagonal looking for cells all owned by player.
func (g Grid) hasRun(player Player, length int) bool {
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			for _, d := range lineDirections {
				endRow := row + d[0]*(length-1)
				endCol := col + d[1]*(length-1)
				if !g.inBounds(endRow, endCol) {
					continue
				}
				run := 0
				for i := 0; i < length; i++ {
					if g.At(row+d[0]*i, col+d[1]*i) != player {
						break
					}
					run++
				}
				if run == length {
					return true
				}
			}
		}
	}
	return false
}

func (g Grid) sameCells(other Grid) bool {
	if g.rows != other.rows || g.cols != other.cols || len(g.cells) != len(other.cells) {
		return false
	}
	for i, p := range g.cells {
		if other.cells[i] != p {
			return false
		}
	}
	return true
}

func (g Grid) Hash() uint64 {
	h := fnv.New64a()
	buf := make([]byte, 0, len(g.cells)+2)
	buf = append(buf, byte(g.rows), byte(g.cols))
	for _, p := range g.cells {
		buf = append(buf, byte(p))
	}
	h.Write(buf)
	return h.Sum64()
}

func (g Grid) Tensor() []float64 {
	tensor := make([]float64, len(g.cells))
	for i, p := range g.cells {
		tensor[i] = float64(p)
	}
	return tensor
}

// display renders the board cells, with a column-letter header and row
// numbers when showCoordinates is set.
func (g Grid) display(showCoordinates bool) string {
	var b strings.Builder
	if showCoordinates {
		b.WriteString("  ")
		for col := 0; col < g.cols; col++ {
			b.WriteByte(byte('A' + col))
		}
		b.WriteByte('\n')
	}
	for row := 0; row < g.rows; row++ {
		if showCoordinates {
			b.WriteString(strconv.Itoa(row+1) + " ")
		}
		g.writeRow(&b, row)
	}
	return b.String()
}

func (g Grid) writeRow(b *strings.Builder, row int) {
	for col := 0; col < g.cols; col++ {
		b.WriteString(g.At(row, col).String())
	}
	b.WriteByte('\n')
}

func (g Grid) formatCell(move int) string {
	return fmt.Sprintf("%d%c", move/g.cols+1, 'A'+move%g.cols)
}

// parseCell reads row digits followed by a column letter, like "2B".
func (g Grid) parseCell(text string) (int, error) {
	text = strings.TrimSpace(text)
	digits := 0
	for digits < len(text) && text[digits] >= '0' && text[digits] <= '9' {
		digits++
	}
	if digits == 0 || len(text)-digits != 1 {
		return 0, fmt.Errorf("%w: %q should be a row number followed by a column letter, like 1A", ErrInvalidMove, text)
	}
	row, err := strconv.Atoi(text[:digits])
	if err != nil || row < 1 || row > g.rows {
		return 0, fmt.Errorf("%w: row must be between 1 and %d", ErrInvalidMove, g.rows)
	}
	col := int(unicode.ToUpper(rune(text[digits])) - 'A')
	if col < 0 || col >= g.cols {
		return 0, fmt.Errorf("%w: column must be between A and %c", ErrInvalidMove, 'A'+g.cols-1)
	}
	return g.index(row-1, col), nil
}

func contains(moves []int, move int) bool {
	for _, m := range moves {
		if m == move {
			return true
		}
	}
	return false
}

// parseGrid reads a board of X, O and . characters. It skips an optional
// coordinate header and row labels, and returns a trailing ">X" style marker
// line separately. The grid gets metadata extra cells.
func parseGrid(text string, metadata int) (Grid, string, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	marker := ""
	if n := len(lines); n > 0 && strings.HasPrefix(strings.TrimSpace(lines[n-1]), ">") {
		marker = strings.TrimSpace(lines[n-1])
		lines = lines[:n-1]
	}
	if len(lines) > 0 && isHeader(lines[0]) {
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return Grid{}, "", fmt.Errorf("%w: no rows found", ErrInvalidBoard)
	}

	var rows [][]Player
	for i, line := range lines {
		content := strings.TrimLeft(line, "0123456789")
		if content != line {
			content = strings.TrimPrefix(content, " ")
		}
		row := make([]Player, 0, len(content))
		for _, ch := range content {
			switch unicode.ToUpper(ch) {
			case 'X':
				row = append(row, XPlayer)
			case 'O':
				row = append(row, OPlayer)
			case '.':
				row = append(row, NoPlayer)
			default:
				return Grid{}, "", fmt.Errorf("%w: unexpected character %q in row %d", ErrInvalidBoard, ch, i+1)
			}
		}
		if len(row) == 0 {
			return Grid{}, "", fmt.Errorf("%w: row %d is empty", ErrInvalidBoard, i+1)
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return Grid{}, "", fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidBoard, i+1, len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}

	g := newGrid(len(rows), len(rows[0]), metadata)
	for r, row := range rows {
		copy(g.cells[r*g.cols:], row)
	}
	return g, marker, nil
}

func isHeader(line string) bool {
	if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
		return true
	}
	for _, ch := range line {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
