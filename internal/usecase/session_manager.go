package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/xo-engine/internal/apperror"
	"github.com/rocketscienceinc/xo-engine/internal/entity"
	"github.com/rocketscienceinc/xo-engine/internal/repository"
	"github.com/rocketscienceinc/xo-engine/internal/tictactoe"
)

const (
	maxNameLength  = 32
	storeTimeout   = 2 * time.Second
	subscriberSize = 4
)

var defaultNames = [2]string{"Player 1", "Player 2"}

type scoreboardRepo interface {
	CreateOrUpdate(ctx context.Context, scoreboard *entity.Scoreboard) error
	GetByID(ctx context.Context, sessionID string) (*entity.Scoreboard, error)
	DeleteByID(ctx context.Context, sessionID string) error
}

type eventLoop interface {
	Do(ctx context.Context, fn func() error) error
	AfterFunc(delay time.Duration, fn func())
}

// SeatRequest describes one side of a new session.
type SeatRequest struct {
	Name      string `json:"name"`
	Automated bool   `json:"automated"`
}

type session struct {
	id     string
	round  int
	seats  [2]*entity.Seat
	engine *tictactoe.Engine

	subscribers map[*subscriber]struct{}
}

type subscriber struct {
	ch chan *entity.Session
}

// SessionManager runs sessions of consecutive rounds between two seats. All
// session state lives on the event loop; exported methods hop onto it.
type SessionManager struct {
	logger  *slog.Logger
	loop    eventLoop
	repo    scoreboardRepo
	aiDelay time.Duration

	sessions map[string]*session
}

func NewSessionManager(logger *slog.Logger, loop eventLoop, repo scoreboardRepo, aiDelay time.Duration) *SessionManager {
	return &SessionManager{
		logger:  logger.With("component", "session_manager"),
		loop:    loop,
		repo:    repo,
		aiDelay: aiDelay,

		sessions: make(map[string]*session),
	}
}

// Start creates a session and its first round. The first seat plays X and moves first.
func (that *SessionManager) Start(ctx context.Context, seats [2]SeatRequest) (*entity.Session, error) {
	for i := range seats {
		if seats[i].Name == "" {
			seats[i].Name = defaultNames[i]
		}

		if utf8.RuneCountInString(seats[i].Name) > maxNameLength {
			return nil, fmt.Errorf("%w: name of seat %d is longer than %d", apperror.ErrInvalidPlayers, i+1, maxNameLength)
		}
	}

	s := &session{
		id: uuid.NewString(),
		seats: [2]*entity.Seat{
			{Name: seats[0].Name, Mark: entity.PlayerA.Mark(), Automated: seats[0].Automated},
			{Name: seats[1].Name, Mark: entity.PlayerB.Mark(), Automated: seats[1].Automated},
		},
		subscribers: make(map[*subscriber]struct{}),
	}

	if err := that.repo.CreateOrUpdate(ctx, scoreboardOf(s)); err != nil {
		return nil, fmt.Errorf("failed to create scoreboard: %w", err)
	}

	var snapshot *entity.Session
	err := that.loop.Do(ctx, func() error {
		that.sessions[s.id] = s
		that.newRound(s)
		snapshot = s.snapshot()

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	that.logger.Info("session started", "session", s.id, "automated", [2]bool{seats[0].Automated, seats[1].Automated})

	return snapshot, nil
}

// Next starts a new round once the current one is finished. Scores are kept.
func (that *SessionManager) Next(ctx context.Context, sessionID string) (*entity.Session, error) {
	var snapshot *entity.Session
	err := that.loop.Do(ctx, func() error {
		s, ok := that.sessions[sessionID]
		if !ok {
			return apperror.ErrSessionNotFound
		}

		if s.engine.IsRunning() {
			return apperror.ErrRoundInProgress
		}

		that.newRound(s)
		snapshot = s.snapshot()
		that.publish(s)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start next round: %w", err)
	}

	return snapshot, nil
}

// Reset ends the session: scores are dropped and subscribers are closed.
func (that *SessionManager) Reset(ctx context.Context, sessionID string) error {
	err := that.loop.Do(ctx, func() error {
		s, ok := that.sessions[sessionID]
		if !ok {
			return apperror.ErrSessionNotFound
		}

		delete(that.sessions, sessionID)
		for sub := range s.subscribers {
			delete(s.subscribers, sub)
			close(sub.ch)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}

	if err = that.repo.DeleteByID(ctx, sessionID); err != nil && !errors.Is(err, repository.ErrScoreboardNotFound) {
		return fmt.Errorf("failed to delete scoreboard: %w", err)
	}

	that.logger.Info("session reset", "session", sessionID)

	return nil
}

// RequestMove forwards a human move to the engine. Moves are refused while
// the turn owner is automated.
func (that *SessionManager) RequestMove(ctx context.Context, sessionID string, row, col int) (*entity.Session, error) {
	var snapshot *entity.Session
	err := that.loop.Do(ctx, func() error {
		s, ok := that.sessions[sessionID]
		if !ok {
			return apperror.ErrSessionNotFound
		}

		if s.engine.IsRunning() && s.engine.CurrentPlayer().Automated {
			return apperror.ErrNotYourTurn
		}

		if err := s.engine.TryTurn(row, col); err != nil {
			return err
		}

		snapshot = s.snapshot()

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	return snapshot, nil
}

// State returns the current snapshot of a session.
func (that *SessionManager) State(ctx context.Context, sessionID string) (*entity.Session, error) {
	var snapshot *entity.Session
	err := that.loop.Do(ctx, func() error {
		s, ok := that.sessions[sessionID]
		if !ok {
			return apperror.ErrSessionNotFound
		}

		snapshot = s.snapshot()

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get session state: %w", err)
	}

	return snapshot, nil
}

// Scoreboard reads the persisted scores of a session.
func (that *SessionManager) Scoreboard(ctx context.Context, sessionID string) (*entity.Scoreboard, error) {
	scoreboard, err := that.repo.GetByID(ctx, sessionID)
	if errors.Is(err, repository.ErrScoreboardNotFound) {
		return nil, apperror.ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get scoreboard: %w", err)
	}

	return scoreboard, nil
}

// Subscribe delivers a snapshot after every accepted move and every new
// round. The channel is closed by unsubscribe, by Reset, or when the
// subscriber falls behind.
func (that *SessionManager) Subscribe(ctx context.Context, sessionID string) (<-chan *entity.Session, func(), error) {
	sub := &subscriber{ch: make(chan *entity.Session, subscriberSize)}

	err := that.loop.Do(ctx, func() error {
		s, ok := that.sessions[sessionID]
		if !ok {
			return apperror.ErrSessionNotFound
		}

		s.subscribers[sub] = struct{}{}
		sub.ch <- s.snapshot()

		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	unsubscribe := func() {
		err := that.loop.Do(context.Background(), func() error {
			if s, ok := that.sessions[sessionID]; ok {
				if _, subscribed := s.subscribers[sub]; subscribed {
					delete(s.subscribers, sub)
					close(sub.ch)
				}
			}

			return nil
		})
		if err != nil {
			that.logger.Debug("unsubscribe skipped", "session", sessionID, "error", err)
		}
	}

	return sub.ch, unsubscribe, nil
}

// newRound replaces the engine of s. Runs on the loop.
func (that *SessionManager) newRound(s *session) {
	s.round++

	engine := tictactoe.NewEngine(that.logger, that.loop, that.aiDelay,
		entity.NewPlayer(entity.PlayerA, s.seats[0].Automated),
		entity.NewPlayer(entity.PlayerB, s.seats[1].Automated),
	)
	engine.OnTurnComplete(func(row, col int) {
		// a timer armed in an earlier round, or before a reset, may still fire
		if s.engine != engine || that.sessions[s.id] != s {
			return
		}

		that.onTurnComplete(s, row, col)
	})

	s.engine = engine
	engine.Start()
}

func (that *SessionManager) onTurnComplete(s *session, row, col int) {
	log := that.logger.With("method", "onTurnComplete", "session", s.id, "round", s.round)
	log.Debug("turn complete", "row", row, "col", col)

	if !s.engine.IsRunning() {
		if s.engine.IsWon() {
			if seat := s.snapshot().SeatByMark(s.engine.Winner().Mark()); seat >= 0 {
				s.seats[seat].Score++
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		if err := that.repo.CreateOrUpdate(ctx, scoreboardOf(s)); err != nil {
			log.Error("failed to save scoreboard", "error", err)
		}
		cancel()

		log.Info("round finished", "won", s.engine.IsWon(), "winner", s.engine.Winner().Mark())
	}

	that.publish(s)
}

// publish fans the snapshot out; subscribers that are not keeping up are dropped.
func (that *SessionManager) publish(s *session) {
	snapshot := s.snapshot()

	for sub := range s.subscribers {
		select {
		case sub.ch <- snapshot:
		default:
			delete(s.subscribers, sub)
			close(sub.ch)
			that.logger.Warn("dropped slow subscriber", "session", s.id)
		}
	}
}

func (that *session) snapshot() *entity.Session {
	snapshot := &entity.Session{
		ID:    that.id,
		Round: that.round,
	}

	for i, seat := range that.seats {
		seatCopy := *seat
		snapshot.Seats[i] = &seatCopy
	}

	if that.engine != nil {
		snapshot.Game = that.engine.State()
	}

	return snapshot
}

func scoreboardOf(s *session) *entity.Scoreboard {
	return &entity.Scoreboard{
		SessionID: s.id,
		Names:     [2]string{s.seats[0].Name, s.seats[1].Name},
		Scores:    [2]int{s.seats[0].Score, s.seats[1].Score},
		Rounds:    s.round,
	}
}
