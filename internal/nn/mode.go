package nn

// Mode selects the behavior of layers whose forward pass differs between
// training and evaluation (currently only Dropout).
//
// Threading the mode explicitly through Forward keeps layers stateless:
// the same module value can serve concurrent evaluation calls without
// a mutable train/eval flag.
type Mode int

const (
	// ModeTrain enables stochastic regularization (dropout masks are sampled).
	ModeTrain Mode = iota
	// ModeEval disables stochastic regularization (dropout is the identity).
	ModeEval
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeTrain:
		return "train"
	case ModeEval:
		return "eval"
	default:
		return "unknown"
	}
}
