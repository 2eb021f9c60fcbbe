package engine

// The exchange is two operations with no other action legal in between: the
// declarer picks up both talon cards (hand grows to 12), then discards
// exactly two cards back face down (hand returns to 10). The Talon slots
// track ownership throughout: dealt cards before pickup, empty in between,
// the buried pair afterwards, so every card always sits in exactly one hand
// or the talon. In-hand, betl and sans winners never reach this phase; the
// talon stays face down and out of play.

// PickUpTalon moves both talon cards into the declarer's hand.
func (r *RoundState) PickUpTalon(seat uint8) error {
	if r.Phase != PhaseExchangePickup {
		return &InvalidGameStateError{Op: "pickup_talon", Phase: r.Phase}
	}
	if seat != uint8(r.Declarer) {
		return &NotPlayerTurnError{Seat: seat, Acting: uint8(r.Declarer)}
	}

	s := &r.Seats[seat]
	s.Hand[s.HandLen] = r.Talon[0]
	s.Hand[s.HandLen+1] = r.Talon[1]
	s.HandLen += TalonSize
	r.Talon[0], r.Talon[1] = EmptyCard, EmptyCard
	r.TalonTaken = true
	r.Phase = PhaseExchangeDiscard
	return nil
}

// Discard removes exactly two distinct held cards from the declarer's hand,
// completing the exchange.
func (r *RoundState) Discard(seat uint8, cards [2]Card) error {
	if r.Phase != PhaseExchangeDiscard {
		return &InvalidGameStateError{Op: "discard", Phase: r.Phase}
	}
	if seat != uint8(r.Declarer) {
		return &NotPlayerTurnError{Seat: seat, Acting: uint8(r.Declarer)}
	}
	if cards[0] == cards[1] {
		return &InvalidDiscardError{Reason: "duplicate card"}
	}
	s := &r.Seats[seat]
	for _, c := range cards {
		if !s.holds(c) {
			return &InvalidDiscardError{Reason: "card " + c.String() + " not held"}
		}
	}

	s.remove(cards[0])
	s.remove(cards[1])
	// The buried pair goes back face down where the talon sat.
	r.Talon = cards
	r.Phase = PhaseDeclaring
	return nil
}
