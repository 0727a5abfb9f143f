package bot

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"connect4/internal/models"
	"connect4/pkg/logger"

	"go.uber.org/zap"
)

const (
	// NoColumn is returned by Search when no move is chosen (terminal
	// nodes and depth cutoffs).
	NoColumn = -1

	// WinScore outweighs any heuristic sum, so a forced result always
	// dominates positional play.
	WinScore = 1e12

	DefaultDepth = 6
)

type Options struct {
	Depth     int
	Seed      int64
	Heuristic HeuristicMode
}

type Bot struct {
	depth int
	eval  Evaluator

	rngMu sync.Mutex
	rng   *rand.Rand
}

type searchStats struct {
	nodes   int
	cutoffs int
}

// New builds a bot. A zero Seed seeds from the clock; a zero Depth uses
// DefaultDepth.
func New(opts Options) *Bot {
	if opts.Depth <= 0 {
		opts.Depth = DefaultDepth
	}
	if opts.Heuristic == "" {
		opts.Heuristic = HeuristicFull
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Bot{
		depth: opts.Depth,
		eval:  Evaluator{Mode: opts.Heuristic},
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// CoinFlip draws from the bot's seeded source, so a fixed seed also fixes
// who starts.
func (b *Bot) CoinFlip() bool {
	b.rngMu.Lock()
	defer b.rngMu.Unlock()
	return b.rng.Intn(2) == 0
}

func (b *Bot) Depth() int {
	return b.depth
}

func (b *Bot) Evaluator() Evaluator {
	return b.eval
}

// BestMove picks the AI's column for board. The board must not be terminal.
func (b *Bot) BestMove(board models.Board) int {
	start := time.Now()
	stats := &searchStats{}
	col, score := b.search(board, b.depth, math.Inf(-1), math.Inf(1), true, stats)

	logger.Log.Debug("Bot move selected",
		zap.Int("column", col),
		zap.Float64("score", score),
		zap.Int("depth", b.depth),
		zap.Int("nodes", stats.nodes),
		zap.Int("cutoffs", stats.cutoffs),
		zap.Duration("elapsed", time.Since(start)),
	)
	return col
}

// Search runs minimax with alpha-beta pruning. The AI maximizes and every
// score is from the AI's perspective. A depth of zero or less evaluates the
// board without expanding it.
func (b *Bot) Search(board models.Board, depth int, alpha, beta float64, maximizing bool) (int, float64) {
	return b.search(board, depth, alpha, beta, maximizing, &searchStats{})
}

func (b *Bot) search(board models.Board, depth int, alpha, beta float64, maximizing bool, stats *searchStats) (int, float64) {
	stats.nodes++

	if IsTerminalNode(board) {
		switch {
		case IsWinningMove(board, models.AI):
			return NoColumn, WinScore
		case IsWinningMove(board, models.Human):
			return NoColumn, -WinScore
		default:
			return NoColumn, 0
		}
	}
	if depth <= 0 {
		return NoColumn, float64(b.eval.EvaluatePosition(board, models.AI))
	}

	validLocations := board.ValidLocations()
	column := b.randomColumn(validLocations)

	if maximizing {
		value := math.Inf(-1)
		for _, col := range validLocations {
			row, _ := board.NextOpenRow(col)
			child := board.Copy()
			child.DropPiece(col, row, models.AI)
			_, score := b.search(child, depth-1, alpha, beta, false, stats)
			if score > value {
				value = score
				column = col
			}
			alpha = math.Max(alpha, value)
			if alpha >= beta {
				stats.cutoffs++
				break
			}
		}
		return column, value
	}

	value := math.Inf(1)
	for _, col := range validLocations {
		row, _ := board.NextOpenRow(col)
		child := board.Copy()
		child.DropPiece(col, row, models.Human)
		_, score := b.search(child, depth-1, alpha, beta, true, stats)
		if score < value {
			value = score
			column = col
		}
		beta = math.Min(beta, value)
		if alpha >= beta {
			stats.cutoffs++
			break
		}
	}
	return column, value
}

func (b *Bot) randomColumn(cols []int) int {
	b.rngMu.Lock()
	defer b.rngMu.Unlock()
	return cols[b.rng.Intn(len(cols))]
}
