package bot

import (
	"fmt"

	"connect4/internal/models"
)

// HeuristicMode selects how much of the position EvaluatePosition scores.
type HeuristicMode string

const (
	// HeuristicFull adds every window score to the center bonus.
	HeuristicFull HeuristicMode = "full"
	// HeuristicCenter scores only the center column, which is how the
	// classic console bot plays.
	HeuristicCenter HeuristicMode = "center"
)

func ParseHeuristicMode(s string) (HeuristicMode, error) {
	switch HeuristicMode(s) {
	case HeuristicFull, HeuristicCenter:
		return HeuristicMode(s), nil
	default:
		return "", fmt.Errorf("unknown heuristic mode %q", s)
	}
}

const (
	centerWeight  = 6
	fourScore     = 100
	threeScore    = 5
	twoScore      = 2
	oppThreeScore = -4
)

type Evaluator struct {
	Mode HeuristicMode
}

// ScoreWindow scores a run of WindowSize cells for piece.
func ScoreWindow(window [models.WindowSize]models.Piece, piece models.Piece) int {
	opponent := piece.Opponent()
	own, opp, empty := 0, 0, 0
	for _, cell := range window {
		switch cell {
		case piece:
			own++
		case opponent:
			opp++
		default:
			empty++
		}
	}

	score := 0
	switch {
	case own == models.WindowSize:
		score += fourScore
	case own == 3 && empty == 1:
		score += threeScore
	case own == 2 && empty == 2:
		score += twoScore
	}
	if opp == 3 && empty == 1 {
		score += oppThreeScore
	}
	return score
}

// EvaluatePosition scores a non-terminal board for piece. The result is an
// unbounded additive heuristic, not a probability.
func (e Evaluator) EvaluatePosition(board models.Board, piece models.Piece) int {
	score := 0

	center := models.Cols / 2
	for row := 0; row < models.Rows; row++ {
		if board[row][center] == piece {
			score += centerWeight
		}
	}

	if e.Mode == HeuristicCenter {
		return score
	}

	var window [models.WindowSize]models.Piece
	scan := func(row, col, dRow, dCol int) {
		for i := range window {
			window[i] = board[row+i*dRow][col+i*dCol]
		}
		score += ScoreWindow(window, piece)
	}

	for row := 0; row < models.Rows; row++ {
		for col := 0; col <= models.Cols-models.WindowSize; col++ {
			scan(row, col, 0, 1)
		}
	}
	for col := 0; col < models.Cols; col++ {
		for row := 0; row <= models.Rows-models.WindowSize; row++ {
			scan(row, col, 1, 0)
		}
	}
	for row := 0; row <= models.Rows-models.WindowSize; row++ {
		for col := 0; col <= models.Cols-models.WindowSize; col++ {
			scan(row, col, 1, 1)
			scan(row+models.WindowSize-1, col, -1, 1)
		}
	}

	return score
}
