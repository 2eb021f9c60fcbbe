// internal/game/bot.go
package game

import (
	"github.com/jason-s-yu/preferans/engine"
)

// GreedyPolicy is a simple heuristic seat-filler: it bids on high-card
// strength, declares its longest suit and plays high when it can win the
// trick, low otherwise. It is deliberately exploitable; it exists so a
// short-handed table can play, not to be competitive.
type GreedyPolicy struct {
	Seat uint8
}

// NewGreedyPolicy creates the policy for one seat.
func NewGreedyPolicy(seat uint8) *GreedyPolicy {
	return &GreedyPolicy{Seat: seat}
}

// ChooseAction implements engine.Policy.
func (p *GreedyPolicy) ChooseAction(view *engine.RoundState, legal []engine.Action) engine.Action {
	switch legal[0].Type {
	case engine.ActionBid:
		return p.chooseBid(view, legal)
	case engine.ActionDiscard:
		return p.chooseDiscard(view, legal)
	case engine.ActionDeclare:
		return p.chooseContract(view, legal)
	case engine.ActionWhist:
		return p.chooseWhist(view, legal)
	case engine.ActionPlayCard:
		return p.chooseCard(view, legal)
	}
	// Talon pickup and any single-option phase.
	return legal[0]
}

// handStrength counts aces and kings.
func (p *GreedyPolicy) handStrength(view *engine.RoundState) int {
	s := &view.Seats[p.Seat]
	strength := 0
	for i := uint8(0); i < s.HandLen; i++ {
		if r := s.Hand[i].Rank(); r >= engine.RankKing {
			strength++
		}
	}
	return strength
}

// longestSuit returns the suit with the most cards in hand.
func (p *GreedyPolicy) longestSuit(view *engine.RoundState) uint8 {
	s := &view.Seats[p.Seat]
	var counts [4]int
	for i := uint8(0); i < s.HandLen; i++ {
		counts[s.Hand[i].Suit()]++
	}
	best := uint8(0)
	for suit := uint8(1); suit < 4; suit++ {
		if counts[suit] > counts[best] {
			best = suit
		}
	}
	return best
}

func (p *GreedyPolicy) chooseBid(view *engine.RoundState, legal []engine.Action) engine.Action {
	if p.handStrength(view) >= 3 {
		for _, a := range legal {
			if a.Bid.Type == engine.BidGame {
				return a
			}
		}
	}
	// legal[0] is always pass.
	return legal[0]
}

func (p *GreedyPolicy) chooseDiscard(view *engine.RoundState, legal []engine.Action) engine.Action {
	// Bury the pair with the lowest combined rank.
	best := legal[0]
	bestRank := int(best.Discard[0].Rank()) + int(best.Discard[1].Rank())
	for _, a := range legal[1:] {
		r := int(a.Discard[0].Rank()) + int(a.Discard[1].Rank())
		if r < bestRank {
			best, bestRank = a, r
		}
	}
	return best
}

func (p *GreedyPolicy) chooseContract(view *engine.RoundState, legal []engine.Action) engine.Action {
	long := p.longestSuit(view)
	best := legal[0]
	for _, a := range legal {
		c := a.Contract
		if c.Trump >= 0 && uint8(c.Trump) == long && c.Level <= best.Contract.Level {
			best = a
		}
	}
	return best
}

func (p *GreedyPolicy) chooseWhist(view *engine.RoundState, legal []engine.Action) engine.Action {
	want := engine.WhistPass
	if p.handStrength(view) >= 2 {
		want = engine.WhistHold
	}
	for _, a := range legal {
		if a.Whist == want {
			return a
		}
	}
	return legal[0]
}

func (p *GreedyPolicy) chooseCard(view *engine.RoundState, legal []engine.Action) engine.Action {
	// A betl declarer ducks everything.
	if view.Contract.IsBetl() && view.IsDeclarer(p.Seat) {
		return lowestCard(legal)
	}
	if view.TrickLen == 0 {
		return highestCard(legal)
	}

	// Beat the current winner if possible, otherwise throw the lowest card.
	led := view.LedSuit()
	trump := view.Contract.Trump
	best := view.Trick[0]
	for i := uint8(1); i < view.TrickLen; i++ {
		if view.Trick[i].Card.Beats(best.Card, trump, led) {
			best = view.Trick[i]
		}
	}
	var winning []engine.Action
	for _, a := range legal {
		if a.Card.Beats(best.Card, trump, led) {
			winning = append(winning, a)
		}
	}
	if len(winning) > 0 {
		return lowestCard(winning)
	}
	return lowestCard(legal)
}

func lowestCard(actions []engine.Action) engine.Action {
	best := actions[0]
	for _, a := range actions[1:] {
		if a.Card.Rank() < best.Card.Rank() {
			best = a
		}
	}
	return best
}

func highestCard(actions []engine.Action) engine.Action {
	best := actions[0]
	for _, a := range actions[1:] {
		if a.Card.Rank() > best.Card.Rank() {
			best = a
		}
	}
	return best
}
