package engine

// LegalCards returns the cards seat may play to the current trick: follow
// the led suit if able; if void and the contract has a trump, trump if able;
// otherwise anything.
func (r *RoundState) LegalCards(seat uint8) []Card {
	if r.Phase != PhasePlaying || seat != r.Turn {
		return nil
	}
	s := &r.Seats[seat]
	hand := s.Hand[:s.HandLen]

	if r.TrickLen == 0 {
		out := make([]Card, len(hand))
		copy(out, hand)
		return out
	}

	led := r.LedSuit()
	var follow []Card
	for _, c := range hand {
		if c.Suit() == led {
			follow = append(follow, c)
		}
	}
	if len(follow) > 0 {
		return follow
	}

	if trump := r.Contract.Trump; trump >= 0 {
		var trumps []Card
		for _, c := range hand {
			if c.Suit() == uint8(trump) {
				trumps = append(trumps, c)
			}
		}
		if len(trumps) > 0 {
			return trumps
		}
	}

	out := make([]Card, len(hand))
	copy(out, hand)
	return out
}

// PlayCard plays a card for seat and resolves the trick when complete.
func (r *RoundState) PlayCard(seat uint8, c Card) error {
	if r.Phase != PhasePlaying {
		return &InvalidGameStateError{Op: "play_card", Phase: r.Phase}
	}
	if seat >= NumSeats || seat != r.Turn {
		return &NotPlayerTurnError{Seat: seat, Acting: r.Turn}
	}
	if !r.Seats[seat].holds(c) {
		return &IllegalCardError{Card: c, Reason: "not held"}
	}
	if !containsCard(r.LegalCards(seat), c) {
		led := r.LedSuit()
		s := &r.Seats[seat]
		for i := uint8(0); i < s.HandLen; i++ {
			if s.Hand[i].Suit() == led {
				return &IllegalCardError{Card: c, Reason: "must follow " + SuitName(led)}
			}
		}
		// Void in the led suit, so the only remaining obligation is trumping.
		return &IllegalCardError{Card: c, Reason: "must trump when void in " + SuitName(led)}
	}

	r.Seats[seat].remove(c)
	r.Trick[r.TrickLen] = TrickPlay{Seat: seat, Card: c}
	r.TrickLen++

	if r.TrickLen < NumSeats {
		r.Turn = nextSeat(seat)
		return nil
	}
	r.resolveTrick()
	return nil
}

// resolveTrick awards the completed trick and advances or ends the round.
func (r *RoundState) resolveTrick() {
	led := r.Trick[0].Card.Suit()
	trump := r.Contract.Trump
	best := r.Trick[0]
	for i := uint8(1); i < NumSeats; i++ {
		if r.Trick[i].Card.Beats(best.Card, trump, led) {
			best = r.Trick[i]
		}
	}

	r.Seats[best.Seat].TricksWon++
	r.TrickNumber++
	r.TrickLen = 0
	// The winner leads next; on the final trick this records who took it.
	r.Turn = best.Seat

	// A betl is dead the moment the declarer takes a trick.
	if r.Contract.IsBetl() && r.IsDeclarer(best.Seat) {
		r.BetlBroken = true
		if r.Rules.BetlEarlyStop {
			r.Outcome = OutcomePlayed
			r.Phase = PhaseComplete
			return
		}
	}

	if r.TrickNumber == NumTricks {
		r.Outcome = OutcomePlayed
		r.Phase = PhaseComplete
	}
}

func containsCard(cards []Card, c Card) bool {
	for _, x := range cards {
		if x == c {
			return true
		}
	}
	return false
}
