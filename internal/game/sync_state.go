// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"

	"github.com/jason-s-yu/preferans/engine"
)

// ObfSeatState represents one seat, obfuscated for a specific observer.
type ObfSeatState struct {
	Seat          uint8     `json:"seat"`
	PlayerID      uuid.UUID `json:"playerId"`
	Username      string    `json:"username"`
	Connected     bool      `json:"connected"`
	HandSize      int       `json:"handSize"`
	Passed        bool      `json:"passed"`
	LastBid       string    `json:"lastBid,omitempty"`
	Whist         string    `json:"whist,omitempty"`
	TricksWon     int       `json:"tricksWon"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
	IsDeclarer    bool      `json:"isDeclarer"`
	// RevealedHand is populated only for the player requesting the state.
	RevealedHand []string `json:"revealedHand,omitempty"`
}

// ObfTrickPlay is one card on the table, which is public knowledge.
type ObfTrickPlay struct {
	Seat uint8  `json:"seat"`
	Card string `json:"card"`
}

// ObfRoundState represents the round, obfuscated for a specific observer.
// Hidden information: other hands, the face-down talon and the declarer's
// buried cards.
type ObfRoundState struct {
	GameID      uuid.UUID      `json:"gameId"`
	RoundNumber int            `json:"roundNumber"`
	Phase       string         `json:"phase"`
	Outcome     string         `json:"outcome,omitempty"`
	Dealer      uint8          `json:"dealer"`
	Declarer    int            `json:"declarer"` // -1 before the auction resolves
	HighBid     string         `json:"highBid,omitempty"`
	Contract    string         `json:"contract,omitempty"`
	TalonTaken  bool           `json:"talonTaken"`
	Trick       []ObfTrickPlay `json:"trick"`
	TrickNumber int            `json:"trickNumber"`
	Seats       []ObfSeatState `json:"seats"`
	Totals      map[string]int `json:"totals"`
	GameOver    bool           `json:"gameOver"`
}

// GetCurrentObfuscatedRoundState generates a snapshot of the round tailored
// to the perspective of the requesting user. Reads the engine state as the
// authoritative source. Assumes lock is held by caller.
func (g *PreferansGame) GetCurrentObfuscatedRoundState(forUser uuid.UUID) ObfRoundState {
	r := &g.Round
	obf := ObfRoundState{
		GameID:      g.ID,
		RoundNumber: g.RoundNumber,
		Phase:       r.Phase.String(),
		Dealer:      r.Dealer,
		Declarer:    int(r.Declarer),
		TalonTaken:  r.TalonTaken,
		TrickNumber: int(r.TrickNumber),
		Totals:      stringKeyed(g.Totals),
		GameOver:    g.GameOver,
	}
	if r.IsTerminal() {
		obf.Outcome = r.Outcome.String()
	}
	if r.HighBidder >= 0 {
		obf.HighBid = r.HighBid.String()
	}
	if r.Declared {
		obf.Contract = r.Contract.String()
	}

	obf.Trick = make([]ObfTrickPlay, r.TrickLen)
	for i := uint8(0); i < r.TrickLen; i++ {
		obf.Trick[i] = ObfTrickPlay{Seat: r.Trick[i].Seat, Card: r.Trick[i].Card.String()}
	}

	acting := r.ActingSeat()
	obf.Seats = make([]ObfSeatState, 0, engine.NumSeats)
	for seat := uint8(0); seat < engine.NumSeats; seat++ {
		s := &r.Seats[seat]
		pid := g.SeatToPlayer[seat]
		ss := ObfSeatState{
			Seat:          seat,
			PlayerID:      pid,
			HandSize:      int(s.HandLen),
			Passed:        s.Passed,
			TricksWon:     int(s.TricksWon),
			IsCurrentTurn: !r.IsTerminal() && acting == seat,
			IsDeclarer:    r.IsDeclarer(seat),
		}
		if p := g.getPlayerByID(pid); p != nil {
			ss.Connected = p.Connected
			if p.User != nil {
				ss.Username = p.User.Username
			}
		}
		if s.LastBid.Type != engine.BidPass || s.Passed {
			ss.LastBid = s.LastBid.String()
		}
		switch s.Whist {
		case engine.WhistHold:
			ss.Whist = "hold"
		case engine.WhistPass:
			ss.Whist = "pass"
		}

		if pid == forUser {
			hand := make([]string, 0, s.HandLen)
			for i := uint8(0); i < s.HandLen; i++ {
				hand = append(hand, s.Hand[i].String())
			}
			ss.RevealedHand = hand
		}
		obf.Seats = append(obf.Seats, ss)
	}
	return obf
}
