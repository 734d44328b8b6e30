// Package board generates Bingo boards.
//
// A board of size N is split into N numeric bands of width R. Band i covers
// [i*R+1, i*R+R] and fills column i, so reading any column top to bottom
// yields numbers from a single band. The center cell is FREE.
package board

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/bingo/internal/grid"
	"github.com/lox/bingo/internal/randutil"
)

// Size limits for a board.
const (
	MinSize = 5
	MaxSize = 11
)

// Cell is one board value. Numbers are positive; Free marks the center.
type Cell int

// Free is the pre-marked center cell.
const Free Cell = 0

// IsFree reports whether c is the FREE cell.
func (c Cell) IsFree() bool {
	return c == Free
}

// String returns "FREE" or the number.
func (c Cell) String() string {
	if c.IsFree() {
		return "FREE"
	}
	return strconv.Itoa(int(c))
}

// MarshalJSON encodes FREE as a string and numbers as numbers.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.IsFree() {
		return []byte(`"FREE"`), nil
	}
	return []byte(strconv.Itoa(int(c))), nil
}

// UnmarshalJSON accepts the encoding produced by MarshalJSON.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "FREE" {
			return fmt.Errorf("invalid cell %q", s)
		}
		*c = Free
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid cell %s: %w", data, err)
	}
	if n <= 0 {
		return fmt.Errorf("invalid cell %d: numbers must be positive", n)
	}
	*c = Cell(n)
	return nil
}

// Board is an N×N matrix of cells indexed [row][col].
type Board [][]Cell

// Generate builds a board of the given size with bandRange numbers per band.
// The configuration is checked with Validate first.
func Generate(size, bandRange int, src randutil.Source) (Board, error) {
	if err := Validate(size, bandRange); err != nil {
		return nil, err
	}

	bands := make([][]Cell, size)
	for i := range bands {
		bands[i] = sampleBand(i, size, bandRange, src)
	}

	center := size / 2
	bands[center][center] = Free

	return transpose(bands), nil
}

// sampleBand draws size distinct values from band i without replacement.
func sampleBand(i, size, bandRange int, src randutil.Source) []Cell {
	lo, hi := Band(i, bandRange)
	pool := randutil.Sequence(lo, hi)

	out := make([]Cell, size)
	for k := range out {
		j := src.IntN(len(pool))
		out[k] = Cell(pool[j])
		pool[j] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}
	return out
}

func transpose(m [][]Cell) Board {
	out := make(Board, len(m[0]))
	for c := range out {
		out[c] = make([]Cell, len(m))
	}
	for r := range m {
		for c := range m[r] {
			out[c][r] = m[r][c]
		}
	}
	return out
}

// Band returns the inclusive value range of band (column) i.
func Band(i, bandRange int) (lo, hi int) {
	return i*bandRange + 1, i*bandRange + bandRange
}

// Size returns the side length.
func (b Board) Size() int {
	return len(b)
}

// Center returns the FREE cell position.
func (b Board) Center() grid.Coord {
	c := len(b) / 2
	return grid.Coord{Row: c, Col: c}
}

// At returns the cell at c.
func (b Board) At(c grid.Coord) Cell {
	return b[c.Row][c.Col]
}

// Find returns every coordinate holding n, in row-major order.
func (b Board) Find(n int) []grid.Coord {
	var out []grid.Coord
	for r, row := range b {
		for c, cell := range row {
			if !cell.IsFree() && int(cell) == n {
				out = append(out, grid.Coord{Row: r, Col: c})
			}
		}
	}
	return out
}

// Numbers returns every numeric cell in row-major order.
func (b Board) Numbers() []int {
	out := make([]int, 0, len(b)*len(b))
	for _, row := range b {
		for _, cell := range row {
			if !cell.IsFree() {
				out = append(out, int(cell))
			}
		}
	}
	return out
}

// Marks returns the initial mark matrix: only FREE is set.
func (b Board) Marks() grid.Marks {
	m := grid.NewMarks(len(b))
	for r, row := range b {
		for c, cell := range row {
			if cell.IsFree() {
				m[r][c] = true
			}
		}
	}
	return m
}

// Clone returns a deep copy.
func (b Board) Clone() Board {
	out := make(Board, len(b))
	for r := range b {
		out[r] = append([]Cell(nil), b[r]...)
	}
	return out
}

// String renders the board as right-aligned columns.
func (b Board) String() string {
	width := len("FREE")
	for _, row := range b {
		for _, cell := range row {
			if w := len(cell.String()); w > width {
				width = w
			}
		}
	}

	var sb strings.Builder
	for r, row := range b {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c, cell := range row {
			if c > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%*s", width, cell.String())
		}
	}
	return sb.String()
}
