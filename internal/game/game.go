// internal/game/game.go
package game

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jason-s-yu/preferans/engine"
	"github.com/jason-s-yu/preferans/internal/cache"
	"github.com/jason-s-yu/preferans/internal/database"
	"github.com/jason-s-yu/preferans/internal/models"
)

// OnGameEndFunc is the callback executed when a table finishes its last
// round. It receives the game ID and the cumulative scores.
type OnGameEndFunc func(gameID uuid.UUID, totals map[uuid.UUID]int)

// GameEventType represents the type of a game-related event broadcast via
// WebSockets.
type GameEventType string

const (
	EventRoundStart        GameEventType = "round_start"
	EventPlayerBid         GameEventType = "player_bid"         // Public: a bid was made.
	EventTalonPickup       GameEventType = "talon_pickup"       // Public: declarer took the talon.
	EventPlayerDiscard     GameEventType = "player_discard"     // Public: declarer buried two cards (ids hidden).
	EventContractDeclared  GameEventType = "contract_declared"  // Public: the contract for the round.
	EventWhistDecision     GameEventType = "whist_decision"     // Public: a defender held or passed.
	EventCardPlayed        GameEventType = "card_played"        // Public: a card hit the table.
	EventTrickComplete     GameEventType = "trick_complete"     // Public: trick winner.
	EventRoundEnd          GameEventType = "round_end"          // Public: round scores.
	EventGameEnd           GameEventType = "game_end"           // Public: cumulative result.
	EventGamePlayerTurn    GameEventType = "game_player_turn"   // Public: whose move it is.
	EventPrivateSyncState  GameEventType = "private_sync_state" // Private: full state sync for one player.
	EventPrivateActionFail GameEventType = "private_action_fail"
)

// EventSeat identifies a seat and its occupant within a GameEvent payload.
type EventSeat struct {
	Seat uint8     `json:"seat"`
	ID   uuid.UUID `json:"id"`
}

// GameEvent is the standard structure for broadcasting state changes.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	Seat    *EventSeat             `json:"seatInfo,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	State   *ObfRoundState         `json:"state,omitempty"`
}

// PreferansGame represents one three-seat table playing consecutive rounds.
type PreferansGame struct {
	ID uuid.UUID

	HouseRules   engine.HouseRules
	TargetRounds int // rounds to play before the table closes

	Players []*models.Player

	// Engine integration: authoritative round state.
	Round        engine.RoundState
	RoundNumber  int
	Dealer       uint8
	RoundActive  bool
	Started      bool
	GameOver     bool
	Totals       map[uuid.UUID]int
	PlayerToSeat map[uuid.UUID]uint8
	SeatToPlayer [engine.NumSeats]uuid.UUID

	// Bot seats and pacing.
	bots     map[uint8]engine.Policy
	botDelay time.Duration
	botTimer *time.Timer

	nextRoundTimer *time.Timer
	actionIndex    int
	lastSeen       map[uuid.UUID]time.Time
	redeal         bool // next deal replays the same round number

	Mu sync.Mutex // Mutex protecting concurrent access to game state.

	// Communication callbacks.
	BroadcastFn         func(ev GameEvent)
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)
	OnGameEnd           OnGameEndFunc
}

// NewPreferansGame creates a table with default settings.
func NewPreferansGame() *PreferansGame {
	id, _ := uuid.NewRandom()
	return &PreferansGame{
		ID:           id,
		HouseRules:   engine.DefaultHouseRules(),
		TargetRounds: 12,
		Totals:       make(map[uuid.UUID]int),
		PlayerToSeat: make(map[uuid.UUID]uint8),
		bots:         make(map[uint8]engine.Policy),
		botDelay:     750 * time.Millisecond,
		lastSeen:     make(map[uuid.UUID]time.Time),
	}
}

// AddPlayer seats a player, or marks them reconnected if already seated.
// Assumes lock is held by caller.
func (g *PreferansGame) AddPlayer(p *models.Player) bool {
	if seat, ok := g.PlayerToSeat[p.ID]; ok {
		existing := g.getPlayerByID(p.ID)
		existing.Conn = p.Conn
		existing.Connected = true
		existing.User = p.User
		g.lastSeen[p.ID] = time.Now()
		log.Printf("Game %s: player %s reconnected to seat %d.", g.ID, p.ID, seat)
		g.logAction(p.ID, "player_add", map[string]interface{}{"reconnect": true, "seat": seat})
		return true
	}
	if g.Started {
		log.Printf("Game %s: player %s cannot join, game already started.", g.ID, p.ID)
		return false
	}
	if len(g.Players) >= engine.NumSeats {
		return false
	}

	p.Seat = uint8(len(g.Players))
	g.Players = append(g.Players, p)
	g.PlayerToSeat[p.ID] = p.Seat
	g.SeatToPlayer[p.Seat] = p.ID
	g.lastSeen[p.ID] = time.Now()
	g.logAction(p.ID, "player_add", map[string]interface{}{"reconnect": false, "seat": p.Seat})
	return true
}

// FillSeatsWithBots occupies every empty seat with the given policy so a
// short-handed table can still start. Assumes lock is held by caller.
func (g *PreferansGame) FillSeatsWithBots(policy func(seat uint8) engine.Policy) {
	for seat := uint8(len(g.Players)); seat < engine.NumSeats; seat++ {
		botID := uuid.New()
		p := &models.Player{
			ID:        botID,
			Seat:      seat,
			Connected: true,
			User:      &models.User{ID: botID, Username: botName(seat)},
		}
		g.Players = append(g.Players, p)
		g.PlayerToSeat[botID] = seat
		g.SeatToPlayer[seat] = botID
		g.bots[seat] = policy(seat)
	}
}

// Start begins the first round. The table must be full.
func (g *PreferansGame) Start() {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Started || g.GameOver {
		log.Printf("Game %s: Start called in invalid state (Started:%v, Over:%v).", g.ID, g.Started, g.GameOver)
		return
	}
	if len(g.Players) != engine.NumSeats {
		log.Printf("Game %s: need %d seated players to start, have %d.", g.ID, engine.NumSeats, len(g.Players))
		return
	}
	g.Started = true
	g.logAction(uuid.Nil, "game_start", nil)
	g.startRound()
}

// startRound deals the next round and notifies the table.
// Assumes lock is held by caller.
func (g *PreferansGame) startRound() {
	if !g.redeal {
		g.RoundNumber++
	}
	g.redeal = false
	seed := uint64(time.Now().UnixNano())
	g.Round = engine.NewRound(seed, g.HouseRules, g.Dealer)
	g.RoundActive = true

	g.persistInitialRoundState()
	g.logAction(uuid.Nil, string(EventRoundStart), map[string]interface{}{
		"round":  g.RoundNumber,
		"dealer": g.Dealer,
	})
	g.fireEvent(GameEvent{
		Type: EventRoundStart,
		Payload: map[string]interface{}{
			"round":  g.RoundNumber,
			"dealer": g.Dealer,
		},
	})
	g.broadcastSyncStateToAll()
	g.broadcastPlayerTurn()
	g.maybeScheduleBot()
}

// persistInitialRoundState saves the deal for replay and audit.
// Assumes lock is held by caller.
func (g *PreferansGame) persistInitialRoundState() {
	type initialState struct {
		Dealer uint8               `json:"dealer"`
		Hands  map[string][]string `json:"hands"`
		Talon  []string            `json:"talon"`
	}
	snap := initialState{
		Dealer: g.Dealer,
		Hands:  make(map[string][]string),
		Talon:  []string{g.Round.Talon[0].String(), g.Round.Talon[1].String()},
	}
	for seat := uint8(0); seat < engine.NumSeats; seat++ {
		s := &g.Round.Seats[seat]
		hand := make([]string, 0, s.HandLen)
		for i := uint8(0); i < s.HandLen; i++ {
			hand = append(hand, s.Hand[i].String())
		}
		snap.Hands[g.SeatToPlayer[seat].String()] = hand
	}

	if database.DB != nil {
		go database.UpsertInitialRoundState(g.ID, g.RoundNumber, snap)
	}
}

// finishRound scores the completed round, updates the running totals and
// either schedules the next deal or closes the table.
// Assumes lock is held by caller.
func (g *PreferansGame) finishRound() {
	scores, err := g.Round.Score()
	if err != nil {
		log.Printf("Game %s: scoring failed: %v", g.ID, err)
		return
	}
	g.RoundActive = false

	roundScores := make(map[uuid.UUID]int, engine.NumSeats)
	for seat := uint8(0); seat < engine.NumSeats; seat++ {
		pid := g.SeatToPlayer[seat]
		roundScores[pid] = scores[seat]
		g.Totals[pid] += scores[seat]
	}

	payload := map[string]interface{}{
		"round":   g.RoundNumber,
		"outcome": g.Round.Outcome.String(),
		"scores":  stringKeyed(roundScores),
		"totals":  stringKeyed(g.Totals),
	}
	if g.Round.Declared {
		payload["contract"] = g.Round.Contract.String()
		payload["contractMade"] = g.Round.ContractMade()
	}
	g.logAction(uuid.Nil, string(EventRoundEnd), payload)
	if database.DB != nil {
		go database.StoreRoundResult(context.Background(), g.ID, g.RoundNumber, payload)
	}
	g.fireEvent(GameEvent{Type: EventRoundEnd, Payload: payload})
	g.broadcastSyncStateToAll()

	// A thrown-in round keeps the dealer and is redealt under the same
	// round number; it does not count toward the table length.
	if g.Round.Outcome == engine.OutcomeAllPassed {
		g.redeal = true
	} else {
		g.Dealer = (g.Dealer + 1) % engine.NumSeats
	}

	if g.RoundNumber >= g.TargetRounds && !g.redeal {
		g.endGame()
		return
	}
	g.nextRoundTimer = time.AfterFunc(4*time.Second, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if g.GameOver || g.RoundActive || !g.Started {
			return
		}
		g.startRound()
	})
}

// endGame closes the table and reports the cumulative result.
// Assumes lock is held by caller.
func (g *PreferansGame) endGame() {
	if g.GameOver {
		return
	}
	g.GameOver = true
	g.Started = false
	if g.nextRoundTimer != nil {
		g.nextRoundTimer.Stop()
		g.nextRoundTimer = nil
	}
	if g.botTimer != nil {
		g.botTimer.Stop()
		g.botTimer = nil
	}

	g.logAction(uuid.Nil, string(EventGameEnd), map[string]interface{}{"totals": stringKeyed(g.Totals)})
	g.fireEvent(GameEvent{
		Type:    EventGameEnd,
		Payload: map[string]interface{}{"totals": stringKeyed(g.Totals)},
	})
	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, g.Totals)
	}
	log.Printf("Game %s: ended after %d rounds. Totals: %v", g.ID, g.RoundNumber, g.Totals)
}

// maybeScheduleBot queues a policy move when the acting seat is a bot.
// Assumes lock is held by caller.
func (g *PreferansGame) maybeScheduleBot() {
	if !g.RoundActive || g.Round.IsTerminal() {
		return
	}
	seat := g.Round.ActingSeat()
	policy, ok := g.bots[seat]
	if !ok {
		return
	}
	g.botTimer = time.AfterFunc(g.botDelay, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if !g.RoundActive || g.Round.IsTerminal() || g.Round.ActingSeat() != seat {
			return
		}
		legal := g.Round.LegalActions()
		if len(legal) == 0 {
			log.Printf("Game %s: bot at seat %d has no legal actions in phase %s.", g.ID, seat, g.Round.Phase)
			return
		}
		a := policy.ChooseAction(&g.Round, legal)
		if err := g.applySeatAction(seat, a); err != nil {
			log.Printf("Error: Game %s: bot action rejected at seat %d: %v", g.ID, seat, err)
		}
	})
}

// broadcastPlayerTurn notifies the table whose move it is.
// Assumes lock is held by caller.
func (g *PreferansGame) broadcastPlayerTurn() {
	if !g.RoundActive || g.Round.IsTerminal() {
		return
	}
	seat := g.Round.ActingSeat()
	g.fireEvent(GameEvent{
		Type: EventGamePlayerTurn,
		Seat: &EventSeat{Seat: seat, ID: g.SeatToPlayer[seat]},
		Payload: map[string]interface{}{
			"phase": g.Round.Phase.String(),
		},
	})
}

// HandleDisconnect marks a player as disconnected. Their seat keeps playing
// when a bot policy is installed for it; otherwise the table waits.
// Assumes lock is held by caller.
func (g *PreferansGame) HandleDisconnect(playerID uuid.UUID) {
	p := g.getPlayerByID(playerID)
	if p == nil || !p.Connected {
		return
	}
	p.Connected = false
	p.Conn = nil
	g.logAction(playerID, "player_disconnect", nil)
	g.broadcastSyncStateToAll()
}

// HandleReconnect restores a connection and syncs state to the player.
// Assumes lock is held by caller.
func (g *PreferansGame) HandleReconnect(playerID uuid.UUID) {
	p := g.getPlayerByID(playerID)
	if p == nil {
		return
	}
	g.lastSeen[playerID] = time.Now()
	g.logAction(playerID, "player_reconnect", nil)
	g.sendSyncState(playerID)
	g.broadcastSyncStateToAll()
}

// sendSyncState sends the current obfuscated round state to a single player.
// Assumes lock is held by caller.
func (g *PreferansGame) sendSyncState(playerID uuid.UUID) {
	state := g.GetCurrentObfuscatedRoundState(playerID)
	g.fireEventToPlayer(playerID, GameEvent{Type: EventPrivateSyncState, State: &state})
}

// broadcastSyncStateToAll sends a per-viewer state to every connected player.
// Assumes lock is held by caller.
func (g *PreferansGame) broadcastSyncStateToAll() {
	for _, p := range g.Players {
		if p.Connected {
			g.sendSyncState(p.ID)
		}
	}
}

// fireEvent broadcasts an event to all connected players.
// Assumes lock is held by caller.
func (g *PreferansGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

// fireEventToPlayer sends an event to one player.
// Assumes lock is held by caller.
func (g *PreferansGame) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if g.BroadcastToPlayerFn == nil {
		return
	}
	p := g.getPlayerByID(playerID)
	if p != nil && p.Connected {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}

// getPlayerByID finds a seated player by ID.
// Assumes lock is held by caller.
func (g *PreferansGame) getPlayerByID(playerID uuid.UUID) *models.Player {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// logAction sends action details to the historian via the Redis queue.
// Assumes lock is held by caller.
func (g *PreferansGame) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorUserID:   actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if cache.Rdb == nil {
			return
		}
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			log.Printf("Error: Game %s: failed publishing action %d (%s) to Redis: %v", g.ID, rec.ActionIndex, rec.ActionType, err)
		}
	}(record)
}

func stringKeyed(m map[uuid.UUID]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k.String()] = v
	}
	return out
}

func botName(seat uint8) string {
	names := [engine.NumSeats]string{"bot_juzhny", "bot_zapadny", "bot_vostochny"}
	return names[seat%engine.NumSeats]
}
