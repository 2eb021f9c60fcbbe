package engine

import "fmt"

// Suit constants: packed into upper bits of Card. Ordered by inherent
// contract level: spades 2, diamonds 3, hearts 4, clubs 5.
const (
	SuitSpades   uint8 = 0
	SuitDiamonds uint8 = 1
	SuitHearts   uint8 = 2
	SuitClubs    uint8 = 3
)

// Rank constants: packed into lower 3 bits of Card, low to high.
const (
	RankSeven uint8 = 0
	RankEight uint8 = 1
	RankNine  uint8 = 2
	RankTen   uint8 = 3
	RankJack  uint8 = 4
	RankQueen uint8 = 5
	RankKing  uint8 = 6
	RankAce   uint8 = 7
)

// Card is a packed uint8: bits 3-4 = suit, bits 0-2 = rank.
type Card uint8

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// NoSuit marks a contract without trump (betl, sans).
const NoSuit int8 = -1

// NewCard constructs a Card from suit and rank.
func NewCard(suit, rank uint8) Card {
	return Card((suit << 3) | (rank & 0x07))
}

// Suit returns the suit bits.
func (c Card) Suit() uint8 { return (uint8(c) >> 3) & 0x03 }

// Rank returns the rank bits.
func (c Card) Rank() uint8 { return uint8(c) & 0x07 }

var rankNames = [8]string{"7", "8", "9", "10", "J", "Q", "K", "A"}
var suitNames = [4]string{"spades", "diamonds", "hearts", "clubs"}

// String renders the wire id, e.g. "7_spades", "A_clubs".
func (c Card) String() string {
	if c == EmptyCard {
		return "none"
	}
	return rankNames[c.Rank()] + "_" + suitNames[c.Suit()]
}

// SuitName returns the lowercase suit name.
func SuitName(suit uint8) string { return suitNames[suit&0x03] }

// ParseCard parses the wire id produced by String.
func ParseCard(s string) (Card, error) {
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 8; rank++ {
			if s == rankNames[rank]+"_"+suitNames[suit] {
				return NewCard(suit, rank), nil
			}
		}
	}
	return EmptyCard, fmt.Errorf("unknown card id %q", s)
}

// SuitLevel returns the inherent contract level of a suit:
// spades 2, diamonds 3, hearts 4, clubs 5.
func SuitLevel(suit uint8) uint8 { return suit + 2 }

// Beats reports whether c wins over best, given the trump suit (NoSuit for
// none) and the suit that was led. best is assumed to be the currently
// winning card of the trick, so it is either trump or of the led suit.
func (c Card) Beats(best Card, trump int8, led uint8) bool {
	cTrump := trump >= 0 && c.Suit() == uint8(trump)
	bTrump := trump >= 0 && best.Suit() == uint8(trump)
	if cTrump != bTrump {
		return cTrump
	}
	if c.Suit() != best.Suit() {
		// Off-suit, non-trump cards never win.
		return false
	}
	return c.Rank() > best.Rank()
}

// ---------------------------------------------------------------------------
// Bids
// ---------------------------------------------------------------------------

// BidType enumerates the auction bid kinds.
type BidType uint8

const (
	BidPass   BidType = iota // 0
	BidGame                  // 1: carries a value 2..5
	BidInHand                // 2
	BidBetl                  // 3
	BidSans                  // 4
)

var bidTypeNames = [5]string{"pass", "game", "in_hand", "betl", "sans"}

func (t BidType) String() string {
	if int(t) < len(bidTypeNames) {
		return bidTypeNames[t]
	}
	return "unknown"
}

// Bid is one auction bid. Value is set only for BidGame (2..5).
type Bid struct {
	Type  BidType `json:"type"`
	Value uint8   `json:"value,omitempty"`
}

// rank maps a bid onto the strict total order:
// pass < game2 < game3 < game4 < game5 < in_hand < betl < sans.
func (b Bid) rank() uint8 {
	switch b.Type {
	case BidPass:
		return 0
	case BidGame:
		return b.Value - 1 // 2..5 → 1..4
	case BidInHand:
		return 5
	case BidBetl:
		return 6
	case BidSans:
		return 7
	}
	return 0
}

// Outranks reports whether b strictly outranks other.
func (b Bid) Outranks(other Bid) bool { return b.rank() > other.rank() }

func (b Bid) String() string {
	if b.Type == BidGame {
		return fmt.Sprintf("game_%d", b.Value)
	}
	return b.Type.String()
}

// ---------------------------------------------------------------------------
// Contracts
// ---------------------------------------------------------------------------

// Contract levels 6 and 7 are the trumpless special games.
const (
	LevelBetl uint8 = 6
	LevelSans uint8 = 7
)

// Contract is the declarer's commitment for the round. Trump is NoSuit for
// betl and sans. InHand marks a contract played without the talon.
type Contract struct {
	Level  uint8 `json:"level"`
	Trump  int8  `json:"trump"`
	InHand bool  `json:"inHand,omitempty"`
}

// IsBetl reports a betl contract (declarer must take zero tricks).
func (c Contract) IsBetl() bool { return c.Level == LevelBetl }

// IsSans reports a sans (no-trump) contract.
func (c Contract) IsSans() bool { return c.Level == LevelSans }

func (c Contract) String() string {
	switch {
	case c.IsBetl():
		return "betl"
	case c.IsSans():
		return "sans"
	default:
		return fmt.Sprintf("%d_%s", c.Level, suitNames[uint8(c.Trump)&0x03])
	}
}

// ---------------------------------------------------------------------------
// Whist
// ---------------------------------------------------------------------------

// WhistChoice is a defender's decision after the contract is declared.
type WhistChoice uint8

const (
	WhistUndecided WhistChoice = iota // 0
	WhistHold                         // 1: defend the contract
	WhistPass                         // 2: sit out of the scoring
)

// ---------------------------------------------------------------------------
// Phases and outcomes
// ---------------------------------------------------------------------------

// Phase is the round state machine position.
type Phase uint8

const (
	PhaseAuction         Phase = iota // 0
	PhaseExchangePickup               // 1
	PhaseExchangeDiscard              // 2
	PhaseDeclaring                    // 3
	PhaseWhisting                     // 4
	PhasePlaying                      // 5
	PhaseComplete                     // 6
)

var phaseNames = [7]string{
	"auction", "exchange_pickup", "exchange_discard",
	"declaring", "whisting", "playing", "complete",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Outcome describes how a completed round ended.
type Outcome uint8

const (
	OutcomeNone        Outcome = iota // 0: round not complete
	OutcomeAllPassed                  // 1: everyone passed, redeal
	OutcomeNoFollowers               // 2: both defenders passed the whist
	OutcomePlayed                     // 3: trick play ran to its end
)

var outcomeNames = [4]string{"none", "all_passed", "no_followers", "played"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// ---------------------------------------------------------------------------
// Actions: the unified apply/legal surface
// ---------------------------------------------------------------------------

// ActionType tags the operation an Action carries.
type ActionType uint8

const (
	ActionBid         ActionType = iota // 0
	ActionPickUpTalon                   // 1
	ActionDiscard                       // 2
	ActionDeclare                       // 3
	ActionWhist                         // 4
	ActionPlayCard                      // 5
)

var actionTypeNames = [6]string{
	"bid", "pickup_talon", "discard", "declare", "whist", "play_card",
}

func (t ActionType) String() string {
	if int(t) < len(actionTypeNames) {
		return actionTypeNames[t]
	}
	return "unknown"
}

// Action is one legal move by one seat. Only the field matching Type is
// meaningful.
type Action struct {
	Type     ActionType  `json:"type"`
	Seat     uint8       `json:"seat"`
	Bid      Bid         `json:"bid,omitempty"`
	Discard  [2]Card     `json:"discard,omitempty"`
	Contract Contract    `json:"contract,omitempty"`
	Whist    WhistChoice `json:"whist,omitempty"`
	Card     Card        `json:"card,omitempty"`
}

// TrickPlay is one card played into the current trick.
type TrickPlay struct {
	Seat uint8 `json:"seat"`
	Card Card  `json:"card"`
}
