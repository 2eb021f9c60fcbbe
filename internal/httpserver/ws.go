package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/preferans/internal/auth"
	"github.com/jason-s-yu/preferans/internal/game"
	"github.com/jason-s-yu/preferans/internal/models"
)

const wsWriteTimeout = 5 * time.Second

// handleWS upgrades the connection and attaches the player to the table.
// Reconnecting replaces the previous socket for the same account.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	g := s.lookupGame(w, r)
	if g == nil {
		return
	}
	userID, _ := auth.UserID(r.Context())

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // origin checks are handled by the deployment proxy
	})
	if err != nil {
		logrus.WithError(err).Warn("websocket accept failed")
		return
	}

	p := seatedPlayer(r, userID)
	p.Conn = conn

	g.Mu.Lock()
	attachBroadcasters(g)
	seated := g.AddPlayer(p)
	if seated {
		g.HandleReconnect(userID)
	}
	g.Mu.Unlock()

	if !seated {
		_ = conn.Close(websocket.StatusPolicyViolation, "table is full or already started")
		return
	}

	logrus.WithFields(logrus.Fields{
		"game_id": g.ID,
		"user_id": userID,
	}).Info("websocket attached")

	s.readLoop(r.Context(), g, userID, conn)
}

// readLoop pumps client actions into the table until the socket drops.
func (s *Server) readLoop(ctx context.Context, g *game.PreferansGame, userID uuid.UUID, conn *websocket.Conn) {
	defer func() {
		g.Mu.Lock()
		// Only detach if this socket is still the player's current one;
		// a reconnect may have replaced it already.
		if p := playerConn(g, userID); p == conn {
			g.HandleDisconnect(userID)
		}
		g.Mu.Unlock()
		_ = conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		var action models.GameAction
		if err := wsjson.Read(ctx, conn, &action); err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && !errors.Is(err, context.Canceled) {
				logrus.WithError(err).WithField("user_id", userID).Debug("websocket read ended")
			}
			return
		}
		g.Mu.Lock()
		g.HandlePlayerAction(userID, action)
		g.Mu.Unlock()
	}
}

// playerConn returns the socket currently registered for a player.
// Assumes lock is held by caller.
func playerConn(g *game.PreferansGame, userID uuid.UUID) *websocket.Conn {
	for _, p := range g.Players {
		if p.ID == userID {
			return p.Conn
		}
	}
	return nil
}

// attachBroadcasters installs the websocket fan-out callbacks on a table.
// Safe to call repeatedly. Assumes lock is held by caller.
func attachBroadcasters(g *game.PreferansGame) {
	if g.BroadcastFn != nil {
		return
	}
	g.BroadcastFn = func(ev game.GameEvent) {
		for _, p := range g.Players {
			if p.Connected && p.Conn != nil {
				writeEvent(g.ID, p, ev)
			}
		}
	}
	g.BroadcastToPlayerFn = func(playerID uuid.UUID, ev game.GameEvent) {
		for _, p := range g.Players {
			if p.ID == playerID && p.Connected && p.Conn != nil {
				writeEvent(g.ID, p, ev)
				return
			}
		}
	}
}

// writeEvent pushes one event over a player's socket with a bounded write.
func writeEvent(gameID uuid.UUID, p *models.Player, ev game.GameEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), wsWriteTimeout)
	defer cancel()
	if err := wsjson.Write(ctx, p.Conn, ev); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"game_id": gameID,
			"user_id": p.ID,
			"event":   ev.Type,
		}).Debug("websocket write failed")
	}
}
