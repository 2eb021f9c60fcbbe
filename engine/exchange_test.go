package engine

import "testing"

// wonGameAuction drives the auction so seat 1 wins with game_2.
func wonGameAuction(t *testing.T) RoundState {
	t.Helper()
	r := NewRound(11, DefaultHouseRules(), 0)
	for _, st := range []struct {
		seat uint8
		bid  Bid
	}{
		{1, Bid{Type: BidGame, Value: 2}},
		{2, Bid{Type: BidPass}},
		{0, Bid{Type: BidPass}},
	} {
		if err := r.ApplyBid(st.seat, st.bid); err != nil {
			t.Fatalf("seat %d %s: %v", st.seat, st.bid, err)
		}
	}
	if r.Phase != PhaseExchangePickup || r.Declarer != 1 {
		t.Fatalf("auction setup failed: phase=%s declarer=%d", r.Phase, r.Declarer)
	}
	return r
}

// countCard tallies how often a card occurs across the hands and the talon.
func countCard(r *RoundState, c Card) int {
	n := 0
	for s := uint8(0); s < NumSeats; s++ {
		if r.Seats[s].holds(c) {
			n++
		}
	}
	for _, tc := range r.Talon {
		if tc == c {
			n++
		}
	}
	return n
}

// checkPartition: every one of the 32 cards sits in exactly one hand or the
// talon.
func checkPartition(t *testing.T, r *RoundState) {
	t.Helper()
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 8; rank++ {
			c := NewCard(suit, rank)
			if n := countCard(r, c); n != 1 {
				t.Errorf("card %s appears %d times in the partition", c, n)
			}
		}
	}
}

// TestExchangeHandSizes: 10 → 12 on pickup, back to 10 after the discard,
// with the talon tracking the buried pair.
func TestExchangeHandSizes(t *testing.T) {
	r := wonGameAuction(t)
	talon := r.Talon
	// Bury two cards from the original hand, not the picked-up pair.
	buried := [2]Card{r.Seats[1].Hand[0], r.Seats[1].Hand[1]}

	if err := r.PickUpTalon(1); err != nil {
		t.Fatalf("pickup: %v", err)
	}
	if r.Seats[1].HandLen != MaxHandSize {
		t.Fatalf("hand len after pickup = %d, want %d", r.Seats[1].HandLen, MaxHandSize)
	}
	if !r.Seats[1].holds(talon[0]) || !r.Seats[1].holds(talon[1]) {
		t.Errorf("talon cards missing from the declarer's hand")
	}
	if r.Talon[0] != EmptyCard || r.Talon[1] != EmptyCard {
		t.Errorf("talon after pickup = %v, want empty", r.Talon)
	}
	if !r.TalonTaken {
		t.Errorf("TalonTaken not set")
	}

	if err := r.Discard(1, buried); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if r.Seats[1].HandLen != HandSize {
		t.Errorf("hand len after discard = %d, want %d", r.Seats[1].HandLen, HandSize)
	}
	if r.Talon != buried {
		t.Errorf("talon after discard = %v, want the buried cards %v", r.Talon, buried)
	}
	if r.Seats[1].holds(buried[0]) || r.Seats[1].holds(buried[1]) {
		t.Errorf("buried cards still in hand")
	}
	checkPartition(t, &r)
	if r.Phase != PhaseDeclaring {
		t.Errorf("phase = %s, want declaring", r.Phase)
	}
}

// TestExchangeAtomic: no other operation is legal between pickup and discard.
func TestExchangeAtomic(t *testing.T) {
	r := wonGameAuction(t)
	if err := r.PickUpTalon(1); err != nil {
		t.Fatalf("pickup: %v", err)
	}

	if err := r.DeclareContract(1, Contract{Level: 2, Trump: int8(SuitSpades)}); err == nil {
		t.Errorf("declare accepted mid-exchange")
	}
	if err := r.PlayCard(1, r.Seats[1].Hand[0]); err == nil {
		t.Errorf("play accepted mid-exchange")
	}
	if err := r.PickUpTalon(1); err == nil {
		t.Errorf("double pickup accepted")
	}
}

// TestExchangeErrors covers the discard validation set.
func TestExchangeErrors(t *testing.T) {
	r := wonGameAuction(t)

	// Wrong seat.
	if err := r.PickUpTalon(0); err == nil {
		t.Errorf("pickup by non-declarer accepted")
	}
	if err := r.PickUpTalon(1); err != nil {
		t.Fatalf("pickup: %v", err)
	}

	held := r.Seats[1].Hand[0]
	notHeld := EmptyCard
	for suit := uint8(0); suit < 4 && notHeld == EmptyCard; suit++ {
		for rank := uint8(0); rank < 8; rank++ {
			c := NewCard(suit, rank)
			if !r.Seats[1].holds(c) {
				notHeld = c
				break
			}
		}
	}

	err := r.Discard(1, [2]Card{held, held})
	if _, ok := err.(*InvalidDiscardError); !ok {
		t.Errorf("duplicate discard: got %v", err)
	}
	err = r.Discard(1, [2]Card{held, notHeld})
	if _, ok := err.(*InvalidDiscardError); !ok {
		t.Errorf("discard of unheld card: got %v", err)
	}
	err = r.Discard(0, [2]Card{held, r.Seats[1].Hand[1]})
	if _, ok := err.(*NotPlayerTurnError); !ok {
		t.Errorf("discard by wrong seat: got %v", err)
	}
}
