package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/xo-engine/internal/entity"
	"github.com/rocketscienceinc/xo-engine/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

type sessionUseCase interface {
	Start(ctx context.Context, seats [2]usecase.SeatRequest) (*entity.Session, error)
	Next(ctx context.Context, sessionID string) (*entity.Session, error)
	Reset(ctx context.Context, sessionID string) error
	RequestMove(ctx context.Context, sessionID string, row, col int) (*entity.Session, error)
	State(ctx context.Context, sessionID string) (*entity.Session, error)
	Scoreboard(ctx context.Context, sessionID string) (*entity.Scoreboard, error)
}

type Server struct {
	logger   *slog.Logger
	sessions sessionUseCase
}

func New(logger *slog.Logger, sessions sessionUseCase) *Server {
	return &Server{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
	}
}

// Handler wires the routes.
func (that *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Get("/ping", pingHandler)
	router.Post("/sessions", that.handleStart)
	router.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", that.handleState)
		r.Delete("/", that.handleReset)
		r.Get("/scoreboard", that.handleScoreboard)
		r.Post("/moves", that.handleMove)
		r.Post("/next", that.handleNext)
	})

	return router
}

// Start - starts HTTP server and stops it when ctx is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
