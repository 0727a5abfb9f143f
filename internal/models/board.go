package models

const (
	Rows       = 6
	Cols       = 7
	WindowSize = 4
)

// Piece is the content of a single cell.
type Piece int

const (
	Empty Piece = iota
	Human
	AI
)

func (p Piece) String() string {
	switch p {
	case Human:
		return "human"
	case AI:
		return "ai"
	default:
		return "empty"
	}
}

// Opponent returns the other non-empty piece. Empty has no opponent.
func (p Piece) Opponent() Piece {
	switch p {
	case Human:
		return AI
	case AI:
		return Human
	default:
		return Empty
	}
}

// Board is the grid indexed [row][col]. Row 0 is the bottom row, pieces
// stack upward. Being an array, assigning a Board copies every cell.
type Board [Rows][Cols]Piece

func NewBoard() Board {
	return Board{}
}

func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

// At returns the piece at (row, col), or Empty outside the grid.
func (b *Board) At(row, col int) Piece {
	if !b.InBounds(row, col) {
		return Empty
	}
	return b[row][col]
}

// IsValidLocation reports whether a piece can still be dropped into col.
func (b *Board) IsValidLocation(col int) bool {
	if col < 0 || col >= Cols {
		return false
	}
	return b[Rows-1][col] == Empty
}

// NextOpenRow returns the lowest empty row of col. ok is false when the
// column is full.
func (b *Board) NextOpenRow(col int) (row int, ok bool) {
	for row := 0; row < Rows; row++ {
		if b[row][col] == Empty {
			return row, true
		}
	}
	return -1, false
}

// DropPiece writes piece at (row, col) without any checks. Callers obtain
// row from NextOpenRow on a column that IsValidLocation accepted.
func (b *Board) DropPiece(col, row int, piece Piece) {
	b[row][col] = piece
}

// ValidLocations lists the playable columns in ascending order.
func (b *Board) ValidLocations() []int {
	cols := make([]int, 0, Cols)
	for col := 0; col < Cols; col++ {
		if b.IsValidLocation(col) {
			cols = append(cols, col)
		}
	}
	return cols
}

func (b *Board) IsFull() bool {
	for col := 0; col < Cols; col++ {
		if b.IsValidLocation(col) {
			return false
		}
	}
	return true
}

// Count returns how many cells hold piece.
func (b *Board) Count(piece Piece) int {
	n := 0
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			if b[row][col] == piece {
				n++
			}
		}
	}
	return n
}

func (b *Board) Copy() Board {
	return *b
}
