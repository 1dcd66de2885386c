package predicates

// Sign is the outcome of a predicate.
type Sign int8

const (
	Negative Sign = -1
	Zero     Sign = 0
	Positive Sign = 1
)

// String returns a string representation of the sign.
func (s Sign) String() string {
	switch s {
	case Negative:
		return "negative"
	case Zero:
		return "zero"
	case Positive:
		return "positive"
	default:
		return "unknown"
	}
}

// Neg returns the opposite sign.
func (s Sign) Neg() Sign { return -s }

func signOf(x float64) Sign {
	switch {
	case x > 0:
		return Positive
	case x < 0:
		return Negative
	default:
		return Zero
	}
}
