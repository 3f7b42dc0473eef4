package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"holskywallet/pkg/config"
	"holskywallet/pkg/models"
	"holskywallet/pkg/session"
	"holskywallet/pkg/token"
	"holskywallet/pkg/wallet"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server exposes the wallet session over HTTP and pushes session events to websocket clients.
type Server struct {
	ctrl    *session.Controller
	query   *token.QueryService
	cfg     config.AppConfig
	log     *zap.Logger
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
	mux     *http.ServeMux
}

func NewServer(ctrl *session.Controller, query *token.QueryService, cfg config.AppConfig, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		ctrl:    ctrl,
		query:   query,
		cfg:     cfg,
		log:     log,
		clients: make(map[*websocket.Conn]bool),
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/session", s.handleSession)
	s.mux.HandleFunc("/api/token", s.handleToken)
	s.mux.HandleFunc("/api/connect", s.handleConnect)
	s.mux.HandleFunc("/api/disconnect", s.handleDisconnect)
	s.mux.HandleFunc("/ws", s.handleWS)
}

// Start serves on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	sub := s.ctrl.Subscribe()
	go s.listenToSession(sub)
	defer s.ctrl.Unsubscribe(sub)

	srv := &http.Server{Addr: addr, Handler: s.mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("API server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type sessionView struct {
	Session models.Session       `json:"session"`
	Network config.TargetNetwork `json:"network"`
	Token   config.TokenConfig   `json:"token"`
}

func (s *Server) snapshot() sessionView {
	return sessionView{Session: s.ctrl.Snapshot(), Network: s.cfg.Network, Token: s.cfg.Token}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshot())
}

type tokenView struct {
	Symbol   string `json:"symbol"`
	Token    string `json:"token"`
	Owner    string `json:"owner"`
	Raw      string `json:"raw"`
	Decimals uint8  `json:"decimals"`
	Balance  string `json:"balance"`
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	snap := s.ctrl.Snapshot()
	if snap.State != models.Connected {
		writeError(w, http.StatusConflict, errors.New("wallet not connected"))
		return
	}
	h, err := s.query.Balance(r.Context(), s.cfg.Token.Address, snap.Address)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":   err.Error(),
			"balance": "unknown",
		})
		return
	}
	writeJSON(w, http.StatusOK, tokenView{
		Symbol:   s.cfg.Token.Symbol,
		Token:    h.Token,
		Owner:    h.Owner,
		Raw:      h.Raw.String(),
		Decimals: h.Decimals,
		Balance:  h.Display(),
	})
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.New("use POST"))
		return
	}
	if err := s.ctrl.Connect(r.Context()); err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, wallet.ErrWalletUnavailable):
			status = http.StatusServiceUnavailable
		case errors.Is(err, wallet.ErrUserRejected):
			status = http.StatusForbidden
		case errors.Is(err, session.ErrConnectAborted):
			status = http.StatusConflict
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot())
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.New("use POST"))
		return
	}
	_ = s.ctrl.Disconnect(r.Context())
	writeJSON(w, http.StatusOK, s.snapshot())
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	s.mu.Lock()
	s.clients[conn] = true
	// Send initial state
	_ = conn.WriteJSON(map[string]interface{}{
		"type": "initial",
		"data": s.snapshot(),
	})
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *Server) listenToSession(sub session.Subscriber) {
	for event := range sub {
		s.broadcast(event)
	}
}

func (s *Server) broadcast(event session.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for client := range s.clients {
		if err := client.WriteJSON(event); err != nil {
			_ = client.Close()
			delete(s.clients, client)
		}
	}
}
