package engine

// minContractLevel is the lowest level the auction winner may declare:
// the winning game bid's value, 2 for an in-hand win, and exactly betl or
// sans when those bids won.
func (r *RoundState) minContractLevel() uint8 {
	switch r.HighBid.Type {
	case BidGame:
		return r.HighBid.Value
	case BidInHand:
		return minGameValue
	case BidBetl:
		return LevelBetl
	case BidSans:
		return LevelSans
	}
	return minGameValue
}

// LegalContracts enumerates every contract the declarer may announce.
func (r *RoundState) LegalContracts() []Contract {
	if r.Phase != PhaseDeclaring {
		return nil
	}
	min := r.minContractLevel()
	inHand := r.HighBid.Type == BidInHand
	var out []Contract
	switch {
	case min == LevelBetl:
		out = append(out, Contract{Level: LevelBetl, Trump: NoSuit})
	case min == LevelSans:
		out = append(out, Contract{Level: LevelSans, Trump: NoSuit})
	default:
		for level := min; level <= maxGameValue; level++ {
			for suit := uint8(0); suit < 4; suit++ {
				if SuitLevel(suit) >= level {
					out = append(out, Contract{Level: level, Trump: int8(suit), InHand: inHand})
				}
			}
		}
	}
	return out
}

// DeclareContract fixes the contract and opens the whist.
func (r *RoundState) DeclareContract(seat uint8, c Contract) error {
	if r.Phase != PhaseDeclaring {
		return &InvalidGameStateError{Op: "declare", Phase: r.Phase}
	}
	if seat != uint8(r.Declarer) {
		return &NotPlayerTurnError{Seat: seat, Acting: uint8(r.Declarer)}
	}

	min := r.minContractLevel()
	switch {
	case min == LevelBetl || min == LevelSans:
		if c.Level != min {
			return &InvalidContractError{Contract: c, Reason: "auction commits the declarer to " + r.HighBid.String()}
		}
		if c.Trump != NoSuit {
			return &InvalidContractError{Contract: c, Reason: "no trump in betl or sans"}
		}
		c.InHand = false
	case c.Level == LevelBetl || c.Level == LevelSans:
		return &InvalidContractError{Contract: c, Reason: "betl and sans must be won in the auction"}
	default:
		if c.Level < min || c.Level > maxGameValue {
			return &InvalidContractError{Contract: c, Reason: "level outside the declarable range"}
		}
		if c.Trump < 0 || c.Trump > 3 {
			return &InvalidContractError{Contract: c, Reason: "suit contract needs a trump"}
		}
		if SuitLevel(uint8(c.Trump)) < c.Level {
			return &InvalidContractError{Contract: c, Reason: "trump suit below the contract level"}
		}
		c.InHand = r.HighBid.Type == BidInHand
	}

	r.Contract = c
	r.Declared = true
	r.Phase = PhaseWhisting
	r.Turn = r.nextUndecidedDefender()
	return nil
}

// WhistDecision records a defender's hold or pass. When both defenders have
// decided, play begins, or the round scores immediately when nobody held.
func (r *RoundState) WhistDecision(seat uint8, choice WhistChoice) error {
	if r.Phase != PhaseWhisting {
		return &InvalidGameStateError{Op: "whist", Phase: r.Phase}
	}
	if r.IsDeclarer(seat) || seat != r.Turn {
		return &NotPlayerTurnError{Seat: seat, Acting: r.Turn}
	}
	if choice != WhistHold && choice != WhistPass {
		return &InvalidGameStateError{Op: "whist", Phase: r.Phase}
	}

	r.Seats[seat].Whist = choice
	if next := r.nextUndecidedDefender(); next < NumSeats {
		r.Turn = next
		return nil
	}

	if len(r.Followers()) == 0 {
		r.Outcome = OutcomeNoFollowers
		r.Phase = PhaseComplete
		return nil
	}
	r.Phase = PhasePlaying
	r.Turn = r.firstLeader()
	return nil
}

// nextUndecidedDefender returns the first defender in seat order after the
// declarer that has not decided the whist, or NumSeats when all have.
func (r *RoundState) nextUndecidedDefender() uint8 {
	s := nextSeat(uint8(r.Declarer))
	for i := 0; i < NumSeats-1; i++ {
		if r.Seats[s].Whist == WhistUndecided {
			return s
		}
		s = nextSeat(s)
	}
	return NumSeats
}

// firstLeader returns the seat that leads the first trick: the seat before
// the declarer in a sans contract, forehand otherwise.
func (r *RoundState) firstLeader() uint8 {
	if r.Contract.IsSans() {
		return (uint8(r.Declarer) + NumSeats - 1) % NumSeats
	}
	return r.Forehand()
}
