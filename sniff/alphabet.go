package sniff

// Alphabet is an optional set of characters.
//
// The zero value is unset, which disables any check that consults it. An
// Alphabet built from the empty string is set and contains nothing.
type Alphabet struct {
	chars string
	set   bool
}

// Chars returns a set Alphabet holding the characters of s.
func Chars(s string) Alphabet {
	return Alphabet{chars: s, set: true}
}

func (a Alphabet) IsSet() bool { return a.set }

// unitSet returns the alphabet's UTF-16 code units. Unset yields nil.
func (a Alphabet) unitSet() map[uint16]struct{} {
	if !a.set {
		return nil
	}
	units := codeUnits(a.chars)
	set := make(map[uint16]struct{}, len(units))
	for _, u := range units {
		set[u] = struct{}{}
	}
	return set
}

func (a Alphabet) String() string { return a.chars }
