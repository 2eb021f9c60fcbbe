// Package httpserver exposes the table lifecycle over HTTP and WebSockets:
// account signup/login, table create/join/start, a polling state endpoint
// and the realtime socket.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/preferans/engine"
	"github.com/jason-s-yu/preferans/internal/auth"
	"github.com/jason-s-yu/preferans/internal/cache"
	"github.com/jason-s-yu/preferans/internal/database"
	"github.com/jason-s-yu/preferans/internal/game"
	"github.com/jason-s-yu/preferans/internal/models"
)

// Server bundles the router and the live-table registry.
type Server struct {
	r        *chi.Mux
	registry *game.Registry
}

// New constructs a Server, installs middleware, and registers routes.
func New(registry *game.Registry) *Server {
	s := &Server{r: chi.NewRouter(), registry: registry}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)

	s.r.Route("/games", func(r chi.Router) {
		r.Use(auth.Middleware)
		r.Post("/", s.handleCreateGame)
		r.Get("/", s.handleListGames)
		r.Post("/{id}/join", s.handleJoinGame)
		r.Post("/{id}/start", s.handleStartGame)
		r.Get("/{id}/state", s.handleGameState)
		r.Get("/{id}/history", s.handleGameHistory)
		r.Post("/{id}/action", s.handleGameAction)
		// The websocket endpoint authenticates via ?token= because browsers
		// cannot set headers on the WebSocket handshake.
		r.Get("/{id}/ws", s.handleWS)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // websockets hold the connection open
	}
	return srv.ListenAndServe()
}

// Router exposes the internal router for tests.
func (s *Server) Router() chi.Router { return s.r }

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ------------------------------- auth --------------------------------------

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if database.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "accounts unavailable")
		return
	}
	var body credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := auth.ValidateCredentials(body.Username, body.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	hash, err := auth.HashPassword(body.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "hash failed")
		return
	}
	u, err := database.CreateUser(r.Context(), body.Username, hash)
	if err != nil {
		if errors.Is(err, database.ErrUserExists) {
			writeError(w, http.StatusConflict, "username taken")
			return
		}
		logrus.WithError(err).Error("create user")
		writeError(w, http.StatusInternalServerError, "signup failed")
		return
	}
	token, err := auth.CreateToken(u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":       u.ID,
		"username": u.Username,
		"token":    token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if database.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "accounts unavailable")
		return
	}
	var body credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	u, err := database.FindUserByUsername(r.Context(), body.Username)
	if err != nil || !auth.CheckPassword(u.PasswordHash, body.Password) {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	token, err := auth.CreateToken(u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":       u.ID,
		"username": u.Username,
		"token":    token,
	})
}

// ------------------------------- tables ------------------------------------

type createGameReq struct {
	TargetRounds int `json:"targetRounds"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var body createGameReq
	_ = json.NewDecoder(r.Body).Decode(&body)

	g := game.NewPreferansGame()
	if body.TargetRounds > 0 {
		g.TargetRounds = body.TargetRounds
	}
	g.OnGameEnd = func(gameID uuid.UUID, totals map[uuid.UUID]int) {
		logrus.WithField("game_id", gameID).Info("table closed")
		s.registry.Remove(gameID)
	}
	s.registry.Add(g)

	logrus.WithFields(logrus.Fields{
		"game_id": g.ID,
		"rounds":  g.TargetRounds,
	}).Info("table created")
	writeJSON(w, http.StatusCreated, map[string]interface{}{"gameId": g.ID})
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	type row struct {
		GameID  uuid.UUID `json:"gameId"`
		Players int       `json:"players"`
		Started bool      `json:"started"`
	}
	out := []row{}
	for _, g := range s.registry.List() {
		g.Mu.Lock()
		out = append(out, row{GameID: g.ID, Players: len(g.Players), Started: g.Started})
		g.Mu.Unlock()
	}
	writeJSON(w, http.StatusOK, out)
}

// lookupGame resolves the {id} path parameter against the registry.
func (s *Server) lookupGame(w http.ResponseWriter, r *http.Request) *game.PreferansGame {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return nil
	}
	g := s.registry.Get(id)
	if g == nil {
		writeError(w, http.StatusNotFound, "game not found")
		return nil
	}
	return g
}

// seatedPlayer builds the player record for the authenticated user,
// resolving the display name from the accounts table when available.
func seatedPlayer(r *http.Request, userID uuid.UUID) *models.Player {
	username := "player_" + userID.String()[:8]
	if database.DB != nil {
		if u, err := database.FindUserByID(r.Context(), userID); err == nil {
			username = u.Username
		}
	}
	return &models.Player{
		ID:        userID,
		Connected: true,
		User:      &models.User{ID: userID, Username: username},
	}
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	g := s.lookupGame(w, r)
	if g == nil {
		return
	}
	userID, _ := auth.UserID(r.Context())
	p := seatedPlayer(r, userID)

	g.Mu.Lock()
	ok := g.AddPlayer(p)
	seat := p.Seat
	g.Mu.Unlock()

	if !ok {
		writeError(w, http.StatusConflict, "table is full or already started")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"gameId": g.ID, "seat": seat})
}

type startGameReq struct {
	FillWithBots bool `json:"fillWithBots"`
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	g := s.lookupGame(w, r)
	if g == nil {
		return
	}
	userID, _ := auth.UserID(r.Context())

	var body startGameReq
	_ = json.NewDecoder(r.Body).Decode(&body)

	g.Mu.Lock()
	if _, seated := g.PlayerToSeat[userID]; !seated {
		g.Mu.Unlock()
		writeError(w, http.StatusForbidden, "join the table first")
		return
	}
	if body.FillWithBots {
		g.FillSeatsWithBots(func(seat uint8) engine.Policy {
			return game.NewGreedyPolicy(seat)
		})
	}
	players := len(g.Players)
	g.Mu.Unlock()

	if players != engine.NumSeats {
		writeError(w, http.StatusConflict, "table needs three seated players")
		return
	}
	g.Start()
	writeJSON(w, http.StatusOK, map[string]bool{"started": true})
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	g := s.lookupGame(w, r)
	if g == nil {
		return
	}
	userID, _ := auth.UserID(r.Context())

	g.Mu.Lock()
	state := g.GetCurrentObfuscatedRoundState(userID)
	g.Mu.Unlock()

	writeJSON(w, http.StatusOK, state)
}

// handleGameHistory returns the historian's ordered action log for a game.
func (s *Server) handleGameHistory(w http.ResponseWriter, r *http.Request) {
	if cache.Rdb == nil {
		writeError(w, http.StatusServiceUnavailable, "history unavailable")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}
	records, err := cache.GameActionHistory(r.Context(), id)
	if err != nil {
		logrus.WithError(err).WithField("game_id", id).Error("load action history")
		writeError(w, http.StatusInternalServerError, "history failed")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// handleGameAction is the HTTP fallback for clients without a socket. The
// result arrives on the state endpoint; rejections surface as private events
// on the socket when one is attached.
func (s *Server) handleGameAction(w http.ResponseWriter, r *http.Request) {
	g := s.lookupGame(w, r)
	if g == nil {
		return
	}
	userID, _ := auth.UserID(r.Context())

	var action models.GameAction
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	g.Mu.Lock()
	g.HandlePlayerAction(userID, action)
	state := g.GetCurrentObfuscatedRoundState(userID)
	g.Mu.Unlock()

	writeJSON(w, http.StatusOK, state)
}
