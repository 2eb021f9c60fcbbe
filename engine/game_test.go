package engine

import (
	"testing"
)

// setHand replaces a seat's cards, padding the slots with EmptyCard.
func setHand(r *RoundState, seat uint8, cards []Card) {
	s := &r.Seats[seat]
	for i := 0; i < MaxHandSize; i++ {
		s.Hand[i] = EmptyCard
	}
	for i, c := range cards {
		s.Hand[i] = c
	}
	s.HandLen = uint8(len(cards))
}

// TestDealPartition verifies the deal splits the 32-card deck into three
// 10-card hands and a 2-card talon with no duplicates.
func TestDealPartition(t *testing.T) {
	r := NewRound(42, DefaultHouseRules(), 0)

	seen := map[Card]bool{}
	count := 0
	for seat := uint8(0); seat < NumSeats; seat++ {
		if r.Seats[seat].HandLen != HandSize {
			t.Fatalf("seat %d: hand len %d, want %d", seat, r.Seats[seat].HandLen, HandSize)
		}
		for i := uint8(0); i < HandSize; i++ {
			c := r.Seats[seat].Hand[i]
			if seen[c] {
				t.Errorf("duplicate card %s", c)
			}
			seen[c] = true
			count++
		}
	}
	for _, c := range r.Talon {
		if seen[c] {
			t.Errorf("talon duplicates a hand card: %s", c)
		}
		seen[c] = true
		count++
	}
	if count != DeckSize {
		t.Errorf("dealt %d cards, want %d", count, DeckSize)
	}
}

// TestDealDeterministic: same seed, same deal.
func TestDealDeterministic(t *testing.T) {
	a := NewRound(99, DefaultHouseRules(), 1)
	b := NewRound(99, DefaultHouseRules(), 1)
	if a != b {
		t.Errorf("same seed produced different rounds")
	}
	c := NewRound(100, DefaultHouseRules(), 1)
	if a == c {
		t.Errorf("different seeds produced identical rounds")
	}
}

// TestNewRoundOpensAuctionAtForehand verifies the seat after the dealer acts
// first.
func TestNewRoundOpensAuctionAtForehand(t *testing.T) {
	r := NewRound(1, DefaultHouseRules(), 2)
	if r.Phase != PhaseAuction {
		t.Fatalf("phase = %s, want auction", r.Phase)
	}
	if r.ActingSeat() != 0 {
		t.Errorf("acting seat = %d, want 0 (forehand after dealer 2)", r.ActingSeat())
	}
}

func TestCardPacking(t *testing.T) {
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 8; rank++ {
			c := NewCard(suit, rank)
			if c.Suit() != suit || c.Rank() != rank {
				t.Errorf("NewCard(%d,%d) round-trip gave (%d,%d)", suit, rank, c.Suit(), c.Rank())
			}
			parsed, err := ParseCard(c.String())
			if err != nil || parsed != c {
				t.Errorf("ParseCard(%q) = %v, %v", c.String(), parsed, err)
			}
		}
	}
	if SuitLevel(SuitSpades) != 2 || SuitLevel(SuitClubs) != 5 {
		t.Errorf("suit levels: spades=%d clubs=%d", SuitLevel(SuitSpades), SuitLevel(SuitClubs))
	}
}

func TestBeats(t *testing.T) {
	trump := int8(SuitDiamonds)
	led := SuitHearts

	cases := []struct {
		name string
		c    Card
		best Card
		want bool
	}{
		{"higher rank same suit", NewCard(SuitHearts, RankAce), NewCard(SuitHearts, RankKing), true},
		{"lower rank same suit", NewCard(SuitHearts, RankSeven), NewCard(SuitHearts, RankEight), false},
		{"trump over led", NewCard(SuitDiamonds, RankSeven), NewCard(SuitHearts, RankAce), true},
		{"led over off-suit", NewCard(SuitClubs, RankAce), NewCard(SuitHearts, RankSeven), false},
		{"higher trump", NewCard(SuitDiamonds, RankTen), NewCard(SuitDiamonds, RankNine), true},
		{"led never beats trump", NewCard(SuitHearts, RankAce), NewCard(SuitDiamonds, RankSeven), false},
	}
	for _, tc := range cases {
		if got := tc.c.Beats(tc.best, trump, led); got != tc.want {
			t.Errorf("%s: Beats = %v, want %v", tc.name, got, tc.want)
		}
	}

	// No trump: only the led suit competes.
	if !NewCard(SuitHearts, RankNine).Beats(NewCard(SuitHearts, RankSeven), NoSuit, led) {
		t.Errorf("expected 9_hearts to beat 7_hearts without trump")
	}
	if NewCard(SuitDiamonds, RankAce).Beats(NewCard(SuitHearts, RankSeven), NoSuit, led) {
		t.Errorf("off-suit ace must not beat led card without trump")
	}
}

func TestSaveRestore(t *testing.T) {
	r := NewRound(7, DefaultHouseRules(), 0)
	snap := r.Save()

	if err := r.ApplyBid(r.ActingSeat(), Bid{Type: BidPass}); err != nil {
		t.Fatalf("bid: %v", err)
	}
	if r.Seats[1].Passed != true {
		t.Fatalf("expected seat 1 to have passed")
	}

	r.Restore(snap)
	if r.Seats[1].Passed {
		t.Errorf("restore did not undo the pass")
	}
	if r.ActingSeat() != 1 {
		t.Errorf("acting seat after restore = %d, want 1", r.ActingSeat())
	}
}
