// Package engine implements the Preferans round rules.
//
// The package is a self-contained, zero-dependency state machine covering one
// round: deal, auction, talon exchange, contract declaration, whist, trick
// play and scoring. RoundState is a flat value type so snapshots and undo are
// plain struct copies, and the service layer can embed it without any
// lifecycle ceremony.
package engine

const (
	NumSeats  = 3
	HandSize  = 10
	TalonSize = 2
	DeckSize  = 32
	NumTricks = 10

	// MaxHandSize is the declarer's hand size while holding the talon.
	MaxHandSize = HandSize + TalonSize
)

// SeatState holds one seat's cards and round-local flags.
type SeatState struct {
	Hand    [MaxHandSize]Card `json:"hand"`
	HandLen uint8             `json:"handLen"`

	Passed  bool `json:"passed"`  // out of the auction
	HasBid  bool `json:"hasBid"`  // made at least one non-pass bid
	LastBid Bid  `json:"lastBid"`

	Whist     WhistChoice `json:"whist"`
	TricksWon uint8       `json:"tricksWon"`
}

// holds reports whether the seat currently holds card c.
func (s *SeatState) holds(c Card) bool {
	for i := uint8(0); i < s.HandLen; i++ {
		if s.Hand[i] == c {
			return true
		}
	}
	return false
}

// remove takes card c out of the hand. Caller must have checked holds.
func (s *SeatState) remove(c Card) {
	for i := uint8(0); i < s.HandLen; i++ {
		if s.Hand[i] == c {
			s.HandLen--
			s.Hand[i] = s.Hand[s.HandLen]
			s.Hand[s.HandLen] = EmptyCard
			return
		}
	}
}

// RoundState holds the complete, self-contained state of one Preferans
// round. It is a flat value type (no pointers, no slices): copying the
// struct copies the round.
type RoundState struct {
	Phase  Phase               `json:"phase"`
	Dealer uint8               `json:"dealer"`
	Seats  [NumSeats]SeatState `json:"seats"`

	Talon      [TalonSize]Card `json:"talon"`
	TalonTaken bool            `json:"talonTaken"`

	// Auction.
	Turn        uint8 `json:"turn"` // acting seat for the current phase
	HighBid     Bid   `json:"highBid"`
	HighBidder  int8  `json:"highBidder"`  // -1 until someone bids
	SpecialsBid uint8 `json:"specialsBid"` // bitmask of BidInHand/BidBetl/BidSans already used

	// Contract.
	Declarer int8     `json:"declarer"` // -1 until the auction resolves
	Contract Contract `json:"contract"`
	Declared bool     `json:"declared"`

	// Trick play.
	Trick       [NumSeats]TrickPlay `json:"trick"`
	TrickLen    uint8               `json:"trickLen"`
	TrickNumber uint8               `json:"trickNumber"`
	BetlBroken  bool                `json:"betlBroken"` // betl declarer took a trick

	Outcome Outcome    `json:"outcome"`
	RNG     uint64     `json:"rng"`
	Rules   HouseRules `json:"rules"`
}

// ---------------------------------------------------------------------------
// xorshift64 RNG: inline, no interface
// ---------------------------------------------------------------------------

func (r *RoundState) nextRand() uint64 {
	x := r.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (r *RoundState) randN(n uint64) uint64 {
	return r.nextRand() % n
}

// ---------------------------------------------------------------------------
// NewRound and Deal
// ---------------------------------------------------------------------------

// NewRound initializes a round with the given seed, rules and dealer seat,
// shuffles and deals. Forehand (the seat after the dealer) opens the
// auction.
func NewRound(seed uint64, rules HouseRules, dealer uint8) RoundState {
	var r RoundState
	r.RNG = seed
	if r.RNG == 0 {
		r.RNG = 1 // xorshift can't start at 0
	}
	r.Rules = rules
	r.Dealer = dealer % NumSeats
	r.HighBidder = -1
	r.Declarer = -1
	r.deal()
	r.Phase = PhaseAuction
	r.Turn = r.Forehand()
	return r
}

// deal shuffles the 32-card deck and distributes 10 cards to each seat plus
// the 2-card talon.
func (r *RoundState) deal() {
	var deck [DeckSize]Card
	idx := 0
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 8; rank++ {
			deck[idx] = NewCard(suit, rank)
			idx++
		}
	}

	// Fisher-Yates shuffle.
	for i := DeckSize - 1; i > 0; i-- {
		j := int(r.randN(uint64(i + 1)))
		deck[i], deck[j] = deck[j], deck[i]
	}

	idx = 0
	for seat := 0; seat < NumSeats; seat++ {
		for c := 0; c < HandSize; c++ {
			r.Seats[seat].Hand[c] = deck[idx]
			idx++
		}
		r.Seats[seat].HandLen = HandSize
		for c := HandSize; c < MaxHandSize; c++ {
			r.Seats[seat].Hand[c] = EmptyCard
		}
	}
	r.Talon[0] = deck[idx]
	r.Talon[1] = deck[idx+1]
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// Forehand returns the seat after the dealer, which opens the auction and
// usually leads the first trick.
func (r *RoundState) Forehand() uint8 { return (r.Dealer + 1) % NumSeats }

// ActingSeat returns the seat that must act next. Meaningless once the round
// is complete.
func (r *RoundState) ActingSeat() uint8 { return r.Turn }

// IsTerminal returns true when the round is over.
func (r *RoundState) IsTerminal() bool { return r.Phase == PhaseComplete }

// IsDeclarer reports whether seat holds the contract.
func (r *RoundState) IsDeclarer(seat uint8) bool {
	return r.Declarer >= 0 && uint8(r.Declarer) == seat
}

// Followers returns the defender seats that held the whist.
func (r *RoundState) Followers() []uint8 {
	var out []uint8
	for seat := uint8(0); seat < NumSeats; seat++ {
		if !r.IsDeclarer(seat) && r.Seats[seat].Whist == WhistHold {
			out = append(out, seat)
		}
	}
	return out
}

// LedSuit returns the suit led to the current trick. Only meaningful when
// TrickLen > 0.
func (r *RoundState) LedSuit() uint8 { return r.Trick[0].Card.Suit() }

// nextSeat returns the seat after s in table order.
func nextSeat(s uint8) uint8 { return (s + 1) % NumSeats }

// ---------------------------------------------------------------------------
// Snapshot Undo (Save / Restore)
// ---------------------------------------------------------------------------

// Snapshot is a complete value-copy of RoundState. Saving and restoring are
// plain struct copies.
type Snapshot RoundState

// Save returns a snapshot of the current round state.
func (r *RoundState) Save() Snapshot { return Snapshot(*r) }

// Restore replaces the round state with the given snapshot.
func (r *RoundState) Restore(s Snapshot) { *r = RoundState(s) }

// Clone returns an independent copy of the round.
func (r *RoundState) Clone() RoundState { return *r }
