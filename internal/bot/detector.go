package bot

import "connect4/internal/models"

// IsWinningMove reports whether piece has WindowSize in a row anywhere on
// the board. It scans the whole grid, so it does not depend on which move
// was played last.
func IsWinningMove(board models.Board, piece models.Piece) bool {
	// horizontal
	for row := 0; row < models.Rows; row++ {
		for col := 0; col <= models.Cols-models.WindowSize; col++ {
			if runOf(board, piece, row, col, 0, 1) {
				return true
			}
		}
	}

	// vertical
	for row := 0; row <= models.Rows-models.WindowSize; row++ {
		for col := 0; col < models.Cols; col++ {
			if runOf(board, piece, row, col, 1, 0) {
				return true
			}
		}
	}

	// rising diagonal
	for row := 0; row <= models.Rows-models.WindowSize; row++ {
		for col := 0; col <= models.Cols-models.WindowSize; col++ {
			if runOf(board, piece, row, col, 1, 1) {
				return true
			}
		}
	}

	// falling diagonal
	for row := models.WindowSize - 1; row < models.Rows; row++ {
		for col := 0; col <= models.Cols-models.WindowSize; col++ {
			if runOf(board, piece, row, col, -1, 1) {
				return true
			}
		}
	}

	return false
}

// IsTerminalNode reports whether the game is over: either side has won or
// no column is playable.
func IsTerminalNode(board models.Board) bool {
	return IsWinningMove(board, models.Human) ||
		IsWinningMove(board, models.AI) ||
		board.IsFull()
}

func runOf(board models.Board, piece models.Piece, row, col, dRow, dCol int) bool {
	for i := 0; i < models.WindowSize; i++ {
		if board[row+i*dRow][col+i*dCol] != piece {
			return false
		}
	}
	return true
}
