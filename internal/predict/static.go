package predict

// NeverJump always predicts not-taken.
type NeverJump struct{ counters }

func NewNeverJump() *NeverJump {
	return &NeverJump{counters{description: "Never Jump Predictor"}}
}

func (p *NeverJump) Analyze(ip, target uint64, taken bool) bool {
	return p.record(!taken)
}

// AlwaysJump always predicts taken.
type AlwaysJump struct{ counters }

func NewAlwaysJump() *AlwaysJump {
	return &AlwaysJump{counters{description: "Always Jump Predictor"}}
}

func (p *AlwaysJump) Analyze(ip, target uint64, taken bool) bool {
	return p.record(taken)
}

// JumpIfTargetIsLower predicts taken iff the branch target address is
// below the branch's own instruction pointer (the classic "loops
// branch backward" heuristic).
type JumpIfTargetIsLower struct{ counters }

func NewJumpIfTargetIsLower() *JumpIfTargetIsLower {
	return &JumpIfTargetIsLower{counters{description: "Jump If Target Is Lower Predictor"}}
}

func (p *JumpIfTargetIsLower) Analyze(ip, target uint64, taken bool) bool {
	predictedTaken := target < ip
	return p.record(predictedTaken == taken)
}
