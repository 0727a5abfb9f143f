package bot

import (
	"math/rand"
	"testing"

	"connect4/internal/models"
)

// boardFrom parses rows written top row first: 'H' human, 'A' AI, '.' empty.
func boardFrom(t *testing.T, lines ...string) models.Board {
	t.Helper()
	if len(lines) != models.Rows {
		t.Fatalf("need %d rows, got %d", models.Rows, len(lines))
	}
	b := models.NewBoard()
	for i, line := range lines {
		if len(line) != models.Cols {
			t.Fatalf("row %d: need %d cells, got %q", i, models.Cols, line)
		}
		row := models.Rows - 1 - i
		for col, ch := range line {
			switch ch {
			case 'H':
				b[row][col] = models.Human
			case 'A':
				b[row][col] = models.AI
			case '.':
			default:
				t.Fatalf("row %d: bad cell %q", i, ch)
			}
		}
	}
	return b
}

// randomBoard plays up to moves random legal moves, stopping early at a
// terminal position.
func randomBoard(rng *rand.Rand, moves int) models.Board {
	b := models.NewBoard()
	piece := models.Human
	if rng.Intn(2) == 0 {
		piece = models.AI
	}
	for i := 0; i < moves && !IsTerminalNode(b); i++ {
		cols := b.ValidLocations()
		col := cols[rng.Intn(len(cols))]
		row, _ := b.NextOpenRow(col)
		b.DropPiece(col, row, piece)
		piece = piece.Opponent()
	}
	return b
}

func swapPieces(b models.Board) models.Board {
	for row := 0; row < models.Rows; row++ {
		for col := 0; col < models.Cols; col++ {
			b[row][col] = b[row][col].Opponent()
		}
	}
	return b
}
