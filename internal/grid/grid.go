// Package grid holds the coordinate and mark-matrix types shared by the
// board, the line analyzer and renderers.
package grid

import "encoding/json"

// Coord addresses one cell by row and column, both 0-indexed.
type Coord struct {
	Row int
	Col int
}

// MarshalJSON encodes a coordinate as a [row, col] pair.
func (c Coord) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.Row, c.Col})
}

// UnmarshalJSON decodes a [row, col] pair.
func (c *Coord) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	c.Row, c.Col = pair[0], pair[1]
	return nil
}

// Marks is a square matrix of match flags; true means matched or FREE.
type Marks [][]bool

// NewMarks returns an n×n matrix with every cell false.
func NewMarks(n int) Marks {
	m := make(Marks, n)
	for r := range m {
		m[r] = make([]bool, n)
	}
	return m
}

// Size returns the side length.
func (m Marks) Size() int {
	return len(m)
}

// At reports whether the cell at c is marked.
func (m Marks) At(c Coord) bool {
	return m[c.Row][c.Col]
}

// Set marks c and reports whether it flipped from false to true.
func (m Marks) Set(c Coord) bool {
	if m[c.Row][c.Col] {
		return false
	}
	m[c.Row][c.Col] = true
	return true
}

// Clone returns a deep copy.
func (m Marks) Clone() Marks {
	out := make(Marks, len(m))
	for r := range m {
		out[r] = append([]bool(nil), m[r]...)
	}
	return out
}

// Count returns the number of marked cells.
func (m Marks) Count() int {
	n := 0
	for _, row := range m {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}

// Full reports whether every cell is marked.
func (m Marks) Full() bool {
	return m.Count() == len(m)*len(m)
}
