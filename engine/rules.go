package engine

// ScoreTable holds the point values used when a round is scored. The exact
// table varies between Preferans schools, so it is configuration rather than
// code. Everything is derived from the game value:
// GameValueBase × contract level, plus InHandBonus for in-hand contracts.
type ScoreTable struct {
	GameValueBase       int `json:"gameValueBase"`       // multiplier per contract level
	InHandBonus         int `json:"inHandBonus"`         // added to game value when in hand
	ContractStake       int `json:"contractStake"`       // declarer wins/loses game value × this
	BetlDefenderShare   int `json:"betlDefenderShare"`   // each defender's reward on a failed betl
	FollowerTrickCap    int `json:"followerTrickCap"`    // max tricks the followers are paid for
	SingleFollowerQuota int `json:"singleFollowerQuota"` // tricks a lone follower must take
	PairFollowerQuota   int `json:"pairFollowerQuota"`   // combined tricks two followers must take
}

// HouseRules holds configurable round settings.
type HouseRules struct {
	Score         ScoreTable `json:"score"`
	ZeroSumAdjust bool       `json:"zeroSumAdjust"` // subtract the round mean from every seat
	BetlEarlyStop bool       `json:"betlEarlyStop"` // end the round when a betl declarer takes a trick
}

// DefaultHouseRules returns the standard table.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		Score: ScoreTable{
			GameValueBase:       2,
			InHandBonus:         2,
			ContractStake:       10,
			BetlDefenderShare:   5,
			FollowerTrickCap:    5,
			SingleFollowerQuota: 2,
			PairFollowerQuota:   4,
		},
		ZeroSumAdjust: true,
		BetlEarlyStop: true,
	}
}
