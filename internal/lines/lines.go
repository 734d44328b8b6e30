// Package lines computes per-line state for a mark matrix.
package lines

import (
	"fmt"

	"github.com/lox/bingo/internal/grid"
)

// Kind identifies the family a line belongs to.
type Kind int

const (
	Row Kind = iota
	Column
	Diagonal     // top-left to bottom-right
	AntiDiagonal // top-right to bottom-left
)

func (k Kind) String() string {
	switch k {
	case Row:
		return "row"
	case Column:
		return "column"
	case Diagonal:
		return "diagonal"
	case AntiDiagonal:
		return "anti-diagonal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	for _, c := range []Kind{Row, Column, Diagonal, AntiDiagonal} {
		if c.String() == string(b) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown line kind %q", b)
}

// Status classifies a line by its unmarked cell count.
type Status int

const (
	None  Status = iota
	Reach        // exactly one cell unmarked
	Bingo        // every cell marked
)

func (s Status) String() string {
	switch s {
	case Reach:
		return "reach"
	case Bingo:
		return "bingo"
	default:
		return "none"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(b []byte) error {
	for _, c := range []Status{None, Reach, Bingo} {
		if c.String() == string(b) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown line status %q", b)
}

// Classify maps an unmarked count to a Status.
func Classify(falses int) Status {
	switch falses {
	case 0:
		return Bingo
	case 1:
		return Reach
	default:
		return None
	}
}

// LineState is one row, column or diagonal.
type LineState struct {
	Kind   Kind         `json:"kind"`
	Index  int          `json:"index"`
	Cells  []grid.Coord `json:"cells"`
	Falses int          `json:"falses"`
}

// Status classifies the line.
func (l LineState) Status() Status {
	return Classify(l.Falses)
}

// Summary aggregates line statuses.
type Summary struct {
	Bingo int `json:"bingo"`
	Reach int `json:"reach"`
}

// Count returns the number of lines on an n×n board.
func Count(n int) int {
	return 2*n + 2
}

// Analyze returns the 2N+2 lines of marks in fixed order: rows, columns,
// the main diagonal, then the anti-diagonal.
func Analyze(marks grid.Marks) []LineState {
	n := marks.Size()
	out := make([]LineState, 0, Count(n))

	for r := 0; r < n; r++ {
		out = append(out, walk(marks, Row, r, func(i int) grid.Coord { return grid.Coord{Row: r, Col: i} }))
	}
	for c := 0; c < n; c++ {
		out = append(out, walk(marks, Column, c, func(i int) grid.Coord { return grid.Coord{Row: i, Col: c} }))
	}
	out = append(out, walk(marks, Diagonal, 0, func(i int) grid.Coord { return grid.Coord{Row: i, Col: i} }))
	out = append(out, walk(marks, AntiDiagonal, 0, func(i int) grid.Coord { return grid.Coord{Row: i, Col: n - 1 - i} }))

	return out
}

func walk(marks grid.Marks, kind Kind, index int, at func(i int) grid.Coord) LineState {
	n := marks.Size()
	line := LineState{Kind: kind, Index: index, Cells: make([]grid.Coord, n)}
	for i := 0; i < n; i++ {
		c := at(i)
		line.Cells[i] = c
		if !marks.At(c) {
			line.Falses++
		}
	}
	return line
}

// Summarize counts bingo and reach lines using the same line set as Analyze.
func Summarize(marks grid.Marks) Summary {
	return Tally(Analyze(marks))
}

// Tally counts bingo and reach lines in states.
func Tally(states []LineState) Summary {
	var s Summary
	for _, l := range states {
		switch l.Status() {
		case Bingo:
			s.Bingo++
		case Reach:
			s.Reach++
		}
	}
	return s
}

// Highlighted returns the lines a renderer should paint: bingo and reach.
func Highlighted(states []LineState) []LineState {
	var out []LineState
	for _, l := range states {
		if l.Status() != None {
			out = append(out, l)
		}
	}
	return out
}
