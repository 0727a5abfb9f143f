package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"connect4/internal/bot"
	"connect4/internal/models"
)

type recordingPublisher struct {
	mu        sync.Mutex
	started   []models.GameStartedEvent
	moves     []models.MoveMadeEvent
	completed []models.GameCompletedEvent
	err       error
}

func (p *recordingPublisher) PublishGameStarted(e models.GameStartedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = append(p.started, e)
	return p.err
}

func (p *recordingPublisher) PublishMoveMade(e models.MoveMadeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.moves = append(p.moves, e)
	return p.err
}

func (p *recordingPublisher) PublishGameCompleted(e models.GameCompletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed = append(p.completed, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func newTestService(pub EventPublisher) *GameService {
	return NewGameService(bot.New(bot.Options{Depth: 2, Seed: 1}), pub)
}

func boolPtr(b bool) *bool { return &b }

func TestStartGameHumanFirst(t *testing.T) {
	pub := &recordingPublisher{}
	gs := newTestService(pub)

	game, opening, err := gs.StartGame("alice", boolPtr(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opening != nil {
		t.Fatalf("human starts, expected no opening move")
	}
	if game.CurrentTurn != models.Human || game.Status != models.GameStatusActive {
		t.Fatalf("unexpected state: %+v", game)
	}
	if len(pub.started) != 1 || pub.started[0].Username != "alice" {
		t.Fatalf("expected one GAME_STARTED event, got %+v", pub.started)
	}
}

func TestStartGameAIFirstPlaysOpening(t *testing.T) {
	pub := &recordingPublisher{}
	gs := newTestService(pub)

	game, opening, err := gs.StartGame("bob", boolPtr(false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opening == nil || opening.Piece != models.AI {
		t.Fatalf("expected an AI opening move, got %+v", opening)
	}
	if game.MoveCount != 1 || game.CurrentTurn != models.Human {
		t.Fatalf("expected human to move after the opening, got %+v", game)
	}
	if game.Board.Count(models.AI) != 1 {
		t.Fatalf("expected exactly one AI piece")
	}
	if len(pub.moves) != 1 {
		t.Fatalf("expected one MOVE_MADE event, got %d", len(pub.moves))
	}
}

func TestStartGameRandomStarter(t *testing.T) {
	gs := newTestService(nil)
	gs.coinFlip = func() bool { return true }
	game, _, err := gs.StartGame("carol", nil)
	if err != nil || !game.HumanFirst {
		t.Fatalf("coin flip should decide the starter: %+v %v", game, err)
	}
}

func TestSeededStarterRepeats(t *testing.T) {
	starters := func() []bool {
		gs := NewGameService(bot.New(bot.Options{Depth: 1, Seed: 11}), nil)
		var got []bool
		for i := 0; i < 16; i++ {
			game, _, err := gs.StartGame("dana", nil)
			if err != nil {
				t.Fatalf("start: %v", err)
			}
			got = append(got, game.HumanFirst)
		}
		return got
	}
	first, second := starters(), starters()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("game %d: starter differs between services with the same seed", i)
		}
	}
}

func TestMakeMoveValidation(t *testing.T) {
	gs := newTestService(nil)
	game, _, _ := gs.StartGame("dave", boolPtr(true))

	if _, _, err := gs.MakeMove(game.GameID, models.Cols); !errors.Is(err, ErrInvalidColumn) {
		t.Fatalf("expected ErrInvalidColumn, got %v", err)
	}
	if _, _, err := gs.MakeBotMove(game.GameID); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("bot must wait for the human, got %v", err)
	}

	move, over, err := gs.MakeMove(game.GameID, 3)
	if err != nil || over != nil {
		t.Fatalf("unexpected result: %v %+v", err, over)
	}
	if move.Row != 0 || move.Piece != models.Human || move.NextTurn != models.AI {
		t.Fatalf("unexpected move payload: %+v", move)
	}
	if _, _, err := gs.MakeMove(game.GameID, 3); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}

	botMove, _, err := gs.MakeBotMove(game.GameID)
	if err != nil {
		t.Fatalf("unexpected bot error: %v", err)
	}
	if botMove.NextTurn != models.Human {
		t.Fatalf("expected human turn after bot move, got %v", botMove.NextTurn)
	}
}

func TestMakeMoveColumnFull(t *testing.T) {
	gs := newTestService(nil)
	game, _, _ := gs.StartGame("erin", boolPtr(true))

	gs.gamesMutex.Lock()
	g := gs.activeGames[game.GameID]
	for row := 0; row < models.Rows; row++ {
		g.Board.DropPiece(0, row, models.Piece(1+row%2))
	}
	gs.gamesMutex.Unlock()

	if _, _, err := gs.MakeMove(game.GameID, 0); !errors.Is(err, ErrColumnFull) {
		t.Fatalf("expected ErrColumnFull, got %v", err)
	}
}

func TestHumanWinEndsGame(t *testing.T) {
	pub := &recordingPublisher{}
	gs := newTestService(pub)
	game, _, _ := gs.StartGame("frank", boolPtr(true))

	gs.gamesMutex.Lock()
	g := gs.activeGames[game.GameID]
	for col := 0; col < 3; col++ {
		g.Board.DropPiece(col, 0, models.Human)
	}
	g.Board.DropPiece(6, 0, models.AI)
	g.Board.DropPiece(6, 1, models.AI)
	gs.gamesMutex.Unlock()

	_, over, err := gs.MakeMove(game.GameID, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if over == nil || over.Outcome != models.OutcomeHumanWin {
		t.Fatalf("expected human win, got %+v", over)
	}
	state, _ := gs.GetGame(game.GameID)
	if state.Status != models.GameStatusCompleted || state.CurrentTurn != models.Empty {
		t.Fatalf("unexpected final state: %+v", state)
	}
	if _, _, err := gs.MakeMove(game.GameID, 4); !errors.Is(err, ErrGameNotActive) {
		t.Fatalf("expected ErrGameNotActive, got %v", err)
	}
	if len(pub.completed) != 1 || pub.completed[0].Outcome != models.OutcomeHumanWin {
		t.Fatalf("expected one GAME_COMPLETED event, got %+v", pub.completed)
	}
}

func TestBotTakesWin(t *testing.T) {
	gs := newTestService(nil)
	game, _, _ := gs.StartGame("gina", boolPtr(true))

	gs.gamesMutex.Lock()
	g := gs.activeGames[game.GameID]
	for row := 0; row < 3; row++ {
		g.Board.DropPiece(5, row, models.AI)
	}
	g.Board.DropPiece(0, 0, models.Human)
	g.Board.DropPiece(1, 0, models.Human)
	gs.gamesMutex.Unlock()

	if _, _, err := gs.MakeMove(game.GameID, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	move, over, err := gs.MakeBotMove(game.GameID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if move.Column != 5 || over == nil || over.Outcome != models.OutcomeAIWin {
		t.Fatalf("expected AI to win in column 5, got %+v %+v", move, over)
	}
}

func TestForfeitAndPrune(t *testing.T) {
	gs := newTestService(nil)
	game, _, _ := gs.StartGame("hank", boolPtr(true))

	over, err := gs.ForfeitGame(game.GameID)
	if err != nil || over.Outcome != models.OutcomeForfeit {
		t.Fatalf("unexpected forfeit result: %+v %v", over, err)
	}
	if _, err := gs.ForfeitGame(game.GameID); !errors.Is(err, ErrGameNotActive) {
		t.Fatalf("expected ErrGameNotActive, got %v", err)
	}

	if n := gs.PruneFinished(time.Hour); n != 0 {
		t.Fatalf("fresh game must not be pruned, removed %d", n)
	}
	if n := gs.PruneFinished(-time.Second); n != 1 {
		t.Fatalf("expected one pruned game, got %d", n)
	}
	if _, err := gs.GetGame(game.GameID); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestPublisherErrorsDoNotFailMoves(t *testing.T) {
	gs := newTestService(&recordingPublisher{err: errors.New("broker down")})
	game, _, err := gs.StartGame("ivy", boolPtr(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := gs.MakeMove(game.GameID, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetGameReturnsSnapshot(t *testing.T) {
	gs := newTestService(nil)
	game, _, _ := gs.StartGame("jo", boolPtr(true))
	game.Board.DropPiece(0, 0, models.AI)

	again, _ := gs.GetGame(game.GameID)
	if again.Board.At(0, 0) != models.Empty {
		t.Fatalf("caller writes must not reach the stored game")
	}
}
