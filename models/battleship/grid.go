package battleship

import (
	cerr "github.com/saeidalz13/battleship-elite/internal/error"
)

const (
	DefaultBoardSize int = 10

	// keeps boards addressable by a letter per row
	MaxBoardSize int = 26
)

// Board is a square grid addressed by a single index,
// row = index / Size and col = index % Size.
type Board struct {
	Size int `json:"size"`
}

func NewBoard(size int) Board {
	if size <= 0 {
		size = DefaultBoardSize
	}
	return Board{Size: size}
}

func (b Board) Cells() int {
	return b.Size * b.Size
}

func (b Board) Contains(index int) bool {
	return index >= 0 && index < b.Cells()
}

func (b Board) Row(index int) int {
	return index / b.Size
}

func (b Board) Col(index int) int {
	return index % b.Size
}

func (b Board) Index(row, col int) int {
	return row*b.Size + col
}

// ComputeLine returns the cells of a straight line starting at origin.
// A horizontal line is checked against the column of the origin, so a
// line that would wrap into the next row is rejected even when its last
// index is still on the board.
func (b Board) ComputeLine(origin, length int, horizontal bool) ([]int, error) {
	if length <= 0 || !b.Contains(origin) {
		return nil, cerr.ErrLineOutOfBound(origin, length, horizontal)
	}

	step := b.Size
	if horizontal {
		if b.Col(origin)+length-1 >= b.Size {
			return nil, cerr.ErrLineOutOfBound(origin, length, horizontal)
		}
		step = 1
	} else if b.Row(origin)+length-1 >= b.Size {
		return nil, cerr.ErrLineOutOfBound(origin, length, horizontal)
	}

	cells := make([]int, length)
	for i := 0; i < length; i++ {
		cells[i] = origin + i*step
	}
	return cells, nil
}

// Neighbors returns the in-bounds orthogonal neighbors of index
// in the order up, down, left, right.
func (b Board) Neighbors(index int) []int {
	if !b.Contains(index) {
		return nil
	}

	row, col := b.Row(index), b.Col(index)
	neighbors := make([]int, 0, 4)
	if row > 0 {
		neighbors = append(neighbors, index-b.Size)
	}
	if row < b.Size-1 {
		neighbors = append(neighbors, index+b.Size)
	}
	if col > 0 {
		neighbors = append(neighbors, index-1)
	}
	if col < b.Size-1 {
		neighbors = append(neighbors, index+1)
	}
	return neighbors
}
