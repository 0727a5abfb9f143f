// Package console runs a Connect-Four game against the bot on a text
// terminal.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"connect4/internal/bot"
	"connect4/internal/models"
	"connect4/pkg/logger"

	"go.uber.org/zap"
)

var ErrInputClosed = errors.New("input closed before the game ended")

type Game struct {
	bot   *bot.Bot
	in    *bufio.Scanner
	out   io.Writer
	board models.Board

	// HumanFirst decides the starter; nil means a coin flip from the bot's
	// seeded source.
	HumanFirst *bool
}

func New(b *bot.Bot, in io.Reader, out io.Writer) *Game {
	return &Game{
		bot:   b,
		in:    bufio.NewScanner(in),
		out:   out,
		board: models.NewBoard(),
	}
}

func (g *Game) Board() models.Board {
	return g.board
}

// Play runs turns until someone wins or the board fills up.
func (g *Game) Play() (models.Outcome, error) {
	PrintBanner(g.out)

	humanTurn := g.bot.CoinFlip()
	if g.HumanFirst != nil {
		humanTurn = *g.HumanFirst
	}
	logger.Log.Info("Console game started", zap.Bool("human_first", humanTurn))

	for {
		RenderBoard(g.out, g.board)

		piece := models.AI
		var col int
		if humanTurn {
			piece = models.Human
			c, err := g.readColumn()
			if err != nil {
				return "", err
			}
			col = c
		} else {
			fmt.Fprint(g.out, "AI thinking...\n\n")
			col = g.bot.BestMove(g.board)
		}

		row, _ := g.board.NextOpenRow(col)
		g.board.DropPiece(col, row, piece)

		if bot.IsWinningMove(g.board, piece) {
			RenderBoard(g.out, g.board)
			if piece == models.Human {
				fmt.Fprint(g.out, "YOU WIN! You beat the AI. Congratulations!\n\n")
				return g.finish(models.OutcomeHumanWin), nil
			}
			fmt.Fprint(g.out, "The AI is victorious. Long live the machines!\n\n")
			return g.finish(models.OutcomeAIWin), nil
		}
		if g.board.IsFull() {
			RenderBoard(g.out, g.board)
			fmt.Fprint(g.out, "The board is full. It's a draw!\n\n")
			return g.finish(models.OutcomeDraw), nil
		}

		humanTurn = !humanTurn
	}
}

func (g *Game) finish(outcome models.Outcome) models.Outcome {
	logger.Log.Info("Console game finished",
		zap.String("outcome", string(outcome)),
		zap.Int("moves", models.Rows*models.Cols-g.board.Count(models.Empty)),
	)
	return outcome
}

// readColumn prompts until the player names a playable column. Columns are
// 1-based on screen.
func (g *Game) readColumn() (int, error) {
	for {
		fmt.Fprint(g.out, "Player 1, select a column: ")
		if !g.in.Scan() {
			if err := g.in.Err(); err != nil {
				return 0, fmt.Errorf("read column: %w", err)
			}
			return 0, ErrInputClosed
		}

		n, err := strconv.Atoi(strings.TrimSpace(g.in.Text()))
		if err != nil {
			fmt.Fprint(g.out, "\nSorry, only numbers are accepted. Please try again.\n")
			continue
		}
		col := n - 1
		if !g.board.IsValidLocation(col) {
			fmt.Fprintf(g.out, "\nSorry, valid columns are between 1 and %d and are not full. Please try again.\n", models.Cols)
			continue
		}

		fmt.Fprintln(g.out)
		return col, nil
	}
}

const logo = ` _____                             _       ___ 
/  __ \                           | |     /   |
| /  \/ ___  _ __  _ __   ___  ___| |_   / /| |
| |    / _ \| '_ \| '_ \ / _ \/ __| __| / /_| |
| \__/\ (_) | | | | | | |  __/ (__| |_  \___  |
 \____/\___/|_| |_|_| |_|\___|\___|\__|     |_/

`

func PrintBanner(w io.Writer) {
	fmt.Fprint(w, logo)
	fmt.Fprint(w, "Welcome to Connect 4!\n")
	fmt.Fprintf(w, "When it's your turn, please type a column number (1-%d) to drop a piece there.\n\n", models.Cols)
	fmt.Fprint(w, "Here's the board - your pieces appear as the number 1 and the AI's as number 2,\n")
	fmt.Fprint(w, "while available spaces are represented as 0:\n\n")
}

// RenderBoard prints the top row first so pieces appear to fall down.
func RenderBoard(w io.Writer, board models.Board) {
	var sb strings.Builder
	for row := models.Rows - 1; row >= 0; row-- {
		for col := 0; col < models.Cols; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.Itoa(int(board.At(row, col))))
		}
		sb.WriteByte('\n')
	}
	for col := 1; col <= models.Cols; col++ {
		if col > 1 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(col))
	}
	sb.WriteString("\n\n")
	fmt.Fprint(w, sb.String())
}
