package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/xo-engine/internal/entity"
)

const (
	writeWait       = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

type sessionUseCase interface {
	Subscribe(ctx context.Context, sessionID string) (<-chan *entity.Session, func(), error)
	RequestMove(ctx context.Context, sessionID string, row, col int) (*entity.Session, error)
	Next(ctx context.Context, sessionID string) (*entity.Session, error)
}

type Server struct {
	logger   *slog.Logger
	sessions sessionUseCase
	upgrader websocket.Upgrader

	handlers map[string]func(ctx context.Context, conn *connection, message *Message) error
}

func New(logger *slog.Logger, sessions sessionUseCase) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		sessions: sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},

		handlers: make(map[string]func(context.Context, *connection, *Message) error),
	}

	server.handlers[actionTurn] = server.handleTurn
	server.handlers[actionNext] = server.handleNext

	return server
}

// Handler serves /ws?session=<id>.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	return mux
}

// Start - starts WebSocket server and stops it when ctx is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down WebSocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// connection serializes writes; gorilla connections allow one writer at a time.
type connection struct {
	sessionID string
	ws        *websocket.Conn
	mu        sync.Mutex
}

func (that *connection) send(action string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if err = that.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.ws.WriteJSON(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	updates, unsubscribe, err := that.sessions.Subscribe(ctx, sessionID)
	if err != nil {
		log.Info("subscribe failed", "session", sessionID, "error", err)
		http.Error(w, err.Error(), statusOf(err))
		return
	}
	defer unsubscribe()

	ws, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer ws.Close()

	// unblocks the reader below once the push side or the server is done
	go func() {
		<-ctx.Done()
		_ = ws.Close()
	}()

	conn := &connection{sessionID: sessionID, ws: ws}
	log.Info("WebSocket connection established", "session", sessionID)

	go that.pushUpdates(cancel, conn, updates)

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Info("connection closed", "session", sessionID, "error", err)
	}
}

// pushUpdates forwards session snapshots until the subscription ends.
func (that *Server) pushUpdates(cancel context.CancelFunc, conn *connection, updates <-chan *entity.Session) {
	defer cancel()

	for session := range updates {
		if err := conn.send(actionState, session); err != nil {
			that.logger.Debug("failed to push update", "session", conn.sessionID, "error", err)
			return
		}
	}

	// session was reset or the subscriber was dropped
	conn.mu.Lock()
	_ = conn.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"), time.Now().Add(writeWait))
	conn.mu.Unlock()
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages", "session", conn.sessionID)

	for {
		_, body, err := conn.ws.ReadMessage()
		if err != nil {
			return err
		}

		// malformed frames, truncated ones included, are skipped
		var message Message
		if err = json.Unmarshal(body, &message); err != nil {
			log.Debug("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Debug("unknown action", "action", message.Action)
			that.sendError(conn, message.Action, "unknown action")
			continue
		}

		if err = handler(ctx, conn, &message); err != nil {
			that.sendError(conn, message.Action, err.Error())
		}
	}
}

func (that *Server) handleTurn(ctx context.Context, conn *connection, message *Message) error {
	var payload turnPayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	// the resulting state reaches the client through its subscription
	if _, err := that.sessions.RequestMove(ctx, conn.sessionID, payload.Row, payload.Col); err != nil {
		return err
	}

	return nil
}

func (that *Server) handleNext(ctx context.Context, conn *connection, _ *Message) error {
	if _, err := that.sessions.Next(ctx, conn.sessionID); err != nil {
		return err
	}

	return nil
}

func (that *Server) sendError(conn *connection, action, text string) {
	if err := conn.send(actionError, errorPayload{Action: action, Message: text}); err != nil {
		that.logger.Debug("failed to send error", "session", conn.sessionID, "error", err)
	}
}
