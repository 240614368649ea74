package predict

import "fmt"

// Name is a stable identifier for a predictor variant, used in
// configuration files and CLI output.
type Name string

const (
	NeverJumpName           Name = "never_jump"
	AlwaysJumpName          Name = "always_jump"
	JumpIfTargetIsLowerName Name = "jump_if_target_lower"
	OneBitHistoryName       Name = "one_bit_history"
	TwoBitSaturationName    Name = "two_bit_saturation"
	TwoBitHysteresisName    Name = "two_bit_hysteresis"
)

// CanonicalOrder is the registration order spec.md §6 specifies for
// the canonical configuration. Index 0 drives the CPU's own branch
// penalty accounting (spec.md §4.5, §9).
var CanonicalOrder = []Name{
	AlwaysJumpName,
	NeverJumpName,
	JumpIfTargetIsLowerName,
	OneBitHistoryName,
	TwoBitSaturationName,
	TwoBitHysteresisName,
}

// New constructs the predictor variant for name, or an error if name
// is not one of the known variants.
func New(name Name) (Predictor, error) {
	switch name {
	case NeverJumpName:
		return NewNeverJump(), nil
	case AlwaysJumpName:
		return NewAlwaysJump(), nil
	case JumpIfTargetIsLowerName:
		return NewJumpIfTargetIsLower(), nil
	case OneBitHistoryName:
		return NewOneBitHistory(), nil
	case TwoBitSaturationName:
		return NewTwoBitSaturation(), nil
	case TwoBitHysteresisName:
		return NewTwoBitHysteresis(), nil
	default:
		return nil, fmt.Errorf("predict: unknown predictor variant %q", name)
	}
}

// BuildSet constructs one predictor per name, in order.
func BuildSet(names []Name) ([]Predictor, error) {
	set := make([]Predictor, 0, len(names))
	for _, n := range names {
		p, err := New(n)
		if err != nil {
			return nil, err
		}
		set = append(set, p)
	}
	return set, nil
}
