package engine

// Policy chooses one of the legal actions for the acting seat. The view is
// the full round state; policies that should not see hidden cards get an
// obfuscated copy from the caller.
type Policy interface {
	ChooseAction(view *RoundState, legal []Action) Action
}

// RandomPolicy picks uniformly among the legal actions. Useful for
// simulation and as a baseline opponent.
type RandomPolicy struct {
	rng uint64
}

// NewRandomPolicy seeds a random policy.
func NewRandomPolicy(seed uint64) *RandomPolicy {
	if seed == 0 {
		seed = 1
	}
	return &RandomPolicy{rng: seed}
}

func (p *RandomPolicy) ChooseAction(_ *RoundState, legal []Action) Action {
	x := p.rng
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	p.rng = x
	return legal[x%uint64(len(legal))]
}
