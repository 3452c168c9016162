package compliance

// Mode selects which encodings the verifier accepts.
//
// Strict rejects non-canonical point encodings and points of small order for
// both the public key and the signature's R component, and checks the
// cofactorless equation on the encoding of R.
//
// Relaxed follows ZIP-215: any encoding that decodes to a curve point is
// accepted and the cofactored equation [8](R' - R) = 0 is checked. The two
// modes disagree on a known class of test vectors.
type Mode int

const (
	Strict Mode = iota
	Relaxed
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Relaxed:
		return "relaxed"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name. The empty string selects Strict.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "", "strict":
		return Strict, true
	case "relaxed", "permissive", "zip215":
		return Relaxed, true
	default:
		return Strict, false
	}
}
