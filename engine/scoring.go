package engine

// GameValue returns the base stake of the declared contract:
// GameValueBase × level, plus the in-hand bonus.
func (r *RoundState) GameValue() int {
	t := r.Rules.Score
	gv := t.GameValueBase * int(r.Contract.Level)
	if r.Contract.InHand {
		gv += t.InHandBonus
	}
	return gv
}

// ContractMade reports whether the declarer fulfilled the contract: at least
// six tricks for suit and sans games, exactly zero for betl.
func (r *RoundState) ContractMade() bool {
	if !r.Declared {
		return false
	}
	if r.Contract.IsBetl() {
		return !r.BetlBroken
	}
	return r.Seats[uint8(r.Declarer)].TricksWon >= 6
}

// Score computes the per-seat point deltas for a completed round.
func (r *RoundState) Score() ([NumSeats]int, error) {
	var scores [NumSeats]int
	if !r.IsTerminal() {
		return scores, &InvalidGameStateError{Op: "score", Phase: r.Phase}
	}
	if r.Outcome == OutcomeAllPassed {
		return scores, nil
	}

	t := r.Rules.Score
	d := uint8(r.Declarer)
	gv := r.GameValue()

	switch r.Outcome {
	case OutcomeNoFollowers:
		// Contract conceded without play.
		scores[d] = gv * t.ContractStake

	case OutcomePlayed:
		if r.ContractMade() {
			scores[d] = gv * t.ContractStake
		} else {
			scores[d] = -gv * t.ContractStake
		}

		if r.Contract.IsBetl() {
			if r.BetlBroken {
				for s := uint8(0); s < NumSeats; s++ {
					if s != d {
						scores[s] = gv * t.BetlDefenderShare
					}
				}
			}
			break
		}

		followers := r.Followers()
		switch len(followers) {
		case 1:
			f := followers[0]
			scores[f] = r.scoreFollower(int(r.Seats[f].TricksWon), gv)
		case 2:
			a, b := followers[0], followers[1]
			ta, tb := int(r.Seats[a].TricksWon), int(r.Seats[b].TricksWon)
			if ta+tb >= t.PairFollowerQuota {
				scores[a] = ta * gv
				scores[b] = tb * gv
				// Pay for at most FollowerTrickCap tricks; the excess comes
				// off the stronger follower.
				if excess := ta + tb - t.FollowerTrickCap; excess > 0 {
					if tb > ta {
						scores[b] -= excess * gv
					} else {
						scores[a] -= excess * gv
					}
				}
			} else {
				scores[a] = r.scoreFollower(ta, gv)
				scores[b] = r.scoreFollower(tb, gv)
			}
		}
	}

	if r.Rules.ZeroSumAdjust {
		total := scores[0] + scores[1] + scores[2]
		adj := total / NumSeats
		for s := 0; s < NumSeats; s++ {
			scores[s] -= adj
		}
		// Integer division leaves a remainder when the total does not split
		// three ways; it lands on the declarer so the round sums to zero.
		scores[d] -= total - adj*NumSeats
	}
	return scores, nil
}

// scoreFollower applies the lone-follower rule: meet the quota and get paid
// per trick up to the cap, fall short and share the declarer's fate minus
// whatever tricks were taken.
func (r *RoundState) scoreFollower(tricks, gv int) int {
	t := r.Rules.Score
	if tricks >= t.SingleFollowerQuota {
		if tricks > t.FollowerTrickCap {
			tricks = t.FollowerTrickCap
		}
		return tricks * gv
	}
	return -gv*t.ContractStake + tricks*gv
}
