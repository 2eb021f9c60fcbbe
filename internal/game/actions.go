// internal/game/actions.go
package game

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/jason-s-yu/preferans/engine"
	"github.com/jason-s-yu/preferans/internal/models"
)

// HandlePlayerAction routes an incoming client action (bid, exchange,
// declaration, whist, card play). Validates seat and turn before delegating
// to the engine. Assumes lock is held by the caller.
func (g *PreferansGame) HandlePlayerAction(playerID uuid.UUID, action models.GameAction) {
	if g.GameOver {
		log.Printf("Game %s: action %s from %s ignored (game over).", g.ID, action.ActionType, playerID)
		return
	}
	if !g.Started || !g.RoundActive {
		log.Printf("Game %s: action %s from %s ignored (no active round).", g.ID, action.ActionType, playerID)
		return
	}
	player := g.getPlayerByID(playerID)
	if player == nil || !player.Connected {
		log.Printf("Game %s: action %s from unknown/disconnected player %s ignored.", g.ID, action.ActionType, playerID)
		return
	}
	seat, ok := g.PlayerToSeat[playerID]
	if !ok {
		return
	}

	if g.Round.ActingSeat() != seat {
		g.failAction(playerID, "It's not your turn.")
		return
	}

	a, err := g.parseAction(seat, action)
	if err != nil {
		g.failAction(playerID, err.Error())
		return
	}

	if err := g.applySeatAction(seat, a); err != nil {
		g.failAction(playerID, err.Error())
	}
}

// failAction sends a private rejection to the offending player.
// Assumes lock is held by caller.
func (g *PreferansGame) failAction(playerID uuid.UUID, reason string) {
	g.fireEventToPlayer(playerID, GameEvent{
		Type:    EventPrivateActionFail,
		Payload: map[string]interface{}{"message": reason},
	})
}

// parseAction converts a client envelope into an engine action.
// Assumes lock is held by caller.
func (g *PreferansGame) parseAction(seat uint8, action models.GameAction) (engine.Action, error) {
	switch action.ActionType {
	case "action_bid":
		bid, err := parseBid(stringField(action.Payload, "bid"))
		if err != nil {
			return engine.Action{}, err
		}
		return engine.Action{Type: engine.ActionBid, Seat: seat, Bid: bid}, nil

	case "action_pickup_talon":
		return engine.Action{Type: engine.ActionPickUpTalon, Seat: seat}, nil

	case "action_discard":
		raw, _ := action.Payload["cards"].([]interface{})
		if len(raw) != 2 {
			return engine.Action{}, fmt.Errorf("discard needs exactly two cards")
		}
		var cards [2]engine.Card
		for i, item := range raw {
			id, _ := item.(string)
			c, err := engine.ParseCard(id)
			if err != nil {
				return engine.Action{}, err
			}
			cards[i] = c
		}
		return engine.Action{Type: engine.ActionDiscard, Seat: seat, Discard: cards}, nil

	case "action_declare":
		contract, err := parseContract(stringField(action.Payload, "contract"))
		if err != nil {
			return engine.Action{}, err
		}
		return engine.Action{Type: engine.ActionDeclare, Seat: seat, Contract: contract}, nil

	case "action_whist":
		switch stringField(action.Payload, "decision") {
		case "hold":
			return engine.Action{Type: engine.ActionWhist, Seat: seat, Whist: engine.WhistHold}, nil
		case "pass":
			return engine.Action{Type: engine.ActionWhist, Seat: seat, Whist: engine.WhistPass}, nil
		}
		return engine.Action{}, fmt.Errorf("whist decision must be hold or pass")

	case "action_play_card":
		c, err := engine.ParseCard(stringField(action.Payload, "card"))
		if err != nil {
			return engine.Action{}, err
		}
		return engine.Action{Type: engine.ActionPlayCard, Seat: seat, Card: c}, nil
	}
	return engine.Action{}, fmt.Errorf("unknown action type %q", action.ActionType)
}

// applySeatAction drives the engine, logs, broadcasts and advances the table
// (bot scheduling, round completion). Assumes lock is held by caller.
func (g *PreferansGame) applySeatAction(seat uint8, a engine.Action) error {
	trickBefore := g.Round.TrickNumber

	if err := g.Round.Apply(a); err != nil {
		return err
	}

	playerID := g.SeatToPlayer[seat]
	g.logAction(playerID, "action_"+a.Type.String(), actionPayload(a))
	g.firePublicActionEvent(seat, a)

	if a.Type == engine.ActionPlayCard && g.Round.TrickNumber > trickBefore {
		winner := g.Round.ActingSeat()
		g.fireEvent(GameEvent{
			Type: EventTrickComplete,
			Seat: &EventSeat{Seat: winner, ID: g.SeatToPlayer[winner]},
			Payload: map[string]interface{}{
				"trickNumber": g.Round.TrickNumber,
			},
		})
	}

	g.broadcastSyncStateToAll()

	if g.Round.IsTerminal() {
		g.finishRound()
		return nil
	}
	g.broadcastPlayerTurn()
	g.maybeScheduleBot()
	return nil
}

// firePublicActionEvent broadcasts the public view of an applied action.
// Assumes lock is held by caller.
func (g *PreferansGame) firePublicActionEvent(seat uint8, a engine.Action) {
	ev := GameEvent{Seat: &EventSeat{Seat: seat, ID: g.SeatToPlayer[seat]}}
	switch a.Type {
	case engine.ActionBid:
		ev.Type = EventPlayerBid
		ev.Payload = map[string]interface{}{"bid": a.Bid.String()}
	case engine.ActionPickUpTalon:
		ev.Type = EventTalonPickup
	case engine.ActionDiscard:
		// The buried cards stay hidden from the defenders.
		ev.Type = EventPlayerDiscard
	case engine.ActionDeclare:
		ev.Type = EventContractDeclared
		ev.Payload = map[string]interface{}{"contract": g.Round.Contract.String()}
	case engine.ActionWhist:
		ev.Type = EventWhistDecision
		decision := "pass"
		if a.Whist == engine.WhistHold {
			decision = "hold"
		}
		ev.Payload = map[string]interface{}{"decision": decision}
	case engine.ActionPlayCard:
		ev.Type = EventCardPlayed
		ev.Payload = map[string]interface{}{"card": a.Card.String()}
	default:
		return
	}
	g.fireEvent(ev)
}

// actionPayload renders an engine action for the historian.
func actionPayload(a engine.Action) map[string]interface{} {
	p := map[string]interface{}{"seat": a.Seat}
	switch a.Type {
	case engine.ActionBid:
		p["bid"] = a.Bid.String()
	case engine.ActionDiscard:
		p["cards"] = []string{a.Discard[0].String(), a.Discard[1].String()}
	case engine.ActionDeclare:
		p["contract"] = a.Contract.String()
	case engine.ActionWhist:
		p["whist"] = int(a.Whist)
	case engine.ActionPlayCard:
		p["card"] = a.Card.String()
	}
	return p
}

func stringField(payload map[string]interface{}, key string) string {
	v, _ := payload[key].(string)
	return v
}

// parseBid parses the wire form of a bid: "pass", "game_2".."game_5",
// "in_hand", "betl", "sans".
func parseBid(s string) (engine.Bid, error) {
	switch s {
	case "pass":
		return engine.Bid{Type: engine.BidPass}, nil
	case "game_2", "game_3", "game_4", "game_5":
		return engine.Bid{Type: engine.BidGame, Value: uint8(s[5] - '0')}, nil
	case "in_hand":
		return engine.Bid{Type: engine.BidInHand}, nil
	case "betl":
		return engine.Bid{Type: engine.BidBetl}, nil
	case "sans":
		return engine.Bid{Type: engine.BidSans}, nil
	}
	return engine.Bid{}, fmt.Errorf("unknown bid %q", s)
}

// parseContract parses the wire form of a contract: "betl", "sans", or
// "<level>_<suit>" such as "3_hearts".
func parseContract(s string) (engine.Contract, error) {
	switch s {
	case "betl":
		return engine.Contract{Level: engine.LevelBetl, Trump: engine.NoSuit}, nil
	case "sans":
		return engine.Contract{Level: engine.LevelSans, Trump: engine.NoSuit}, nil
	}
	if len(s) < 3 || s[1] != '_' || s[0] < '2' || s[0] > '5' {
		return engine.Contract{}, fmt.Errorf("unknown contract %q", s)
	}
	level := uint8(s[0] - '0')
	for suit := uint8(0); suit < 4; suit++ {
		if s[2:] == engine.SuitName(suit) {
			return engine.Contract{Level: level, Trump: int8(suit)}, nil
		}
	}
	return engine.Contract{}, fmt.Errorf("unknown trump suit in %q", s)
}
