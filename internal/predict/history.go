package predict

// bitState is the four-valued saturating-counter state shared by the
// two-bit variants, and (restricted to its T/N poles) by the one-bit
// variant. Default state for a never-seen instruction pointer is T
// (strong taken), per spec.md §3.
type bitState uint8

const (
	stateN bitState = iota // strong not-taken
	staten                 // weak not-taken
	statet                 // weak taken
	stateT                 // strong taken
)

// OneBitHistory keeps one bit of state (T or N) per instruction
// pointer. A misprediction flips the state for next time.
type OneBitHistory struct {
	counters
	history map[uint64]bitState
}

func NewOneBitHistory() *OneBitHistory {
	return &OneBitHistory{
		counters: counters{description: "1 Bit History Predictor"},
		history:  make(map[uint64]bitState),
	}
}

func (p *OneBitHistory) Analyze(ip, target uint64, taken bool) bool {
	state, ok := p.history[ip]
	if !ok {
		state = stateT
	}

	hit := (state == stateT && taken) || (state == stateN && !taken)
	if !hit {
		if state == stateT {
			state = stateN
		} else {
			state = stateT
		}
	}
	p.history[ip] = state

	return p.record(hit)
}

// TwoBitSaturation implements the N<->n<->t<->T saturating chain of
// spec.md §4.4, with no hysteresis: a misprediction from a weak state
// moves one step toward the opposite pole rather than jumping there
// directly.
type TwoBitSaturation struct {
	counters
	history map[uint64]bitState
}

func NewTwoBitSaturation() *TwoBitSaturation {
	return &TwoBitSaturation{
		counters: counters{description: "2 Bit Saturation History Predictor"},
		history:  make(map[uint64]bitState),
	}
}

func (p *TwoBitSaturation) Analyze(ip, target uint64, taken bool) bool {
	state, ok := p.history[ip]
	if !ok {
		state = stateT
	}

	var hit bool
	next := state

	switch state {
	case stateT:
		hit = taken
		if !taken {
			next = statet
		}
	case statet:
		hit = taken
		if taken {
			next = stateT
		} else {
			next = staten
		}
	case staten:
		hit = !taken
		if taken {
			next = statet
		} else {
			next = stateN
		}
	case stateN:
		hit = !taken
		if taken {
			next = staten
		}
	}

	p.history[ip] = next
	return p.record(hit)
}

// TwoBitHysteresis uses the same four states as TwoBitSaturation, but a
// misprediction from a weak state jumps directly to the opposite
// strong pole instead of stepping through it.
type TwoBitHysteresis struct {
	counters
	history map[uint64]bitState
}

func NewTwoBitHysteresis() *TwoBitHysteresis {
	return &TwoBitHysteresis{
		counters: counters{description: "2 Bit Hysteresis History Predictor"},
		history:  make(map[uint64]bitState),
	}
}

func (p *TwoBitHysteresis) Analyze(ip, target uint64, taken bool) bool {
	state, ok := p.history[ip]
	if !ok {
		state = stateT
	}

	var hit bool
	next := state

	switch state {
	case stateT:
		hit = taken
		if !taken {
			next = statet
		}
	case statet:
		hit = taken
		if taken {
			next = stateT
		} else {
			next = stateN
		}
	case staten:
		hit = !taken
		if taken {
			next = stateT
		} else {
			next = stateN
		}
	case stateN:
		hit = !taken
		if taken {
			next = staten
		}
	}

	p.history[ip] = next
	return p.record(hit)
}
