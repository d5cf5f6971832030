package sniff

import (
	"fmt"
	"strings"
)

// EndOfLine is a line-break convention.
//
// Undefined carries two meanings: as a policy value it disables the
// end-of-line check, and as a detection result it means the text contains no
// line break. A text without line breaks therefore satisfies any requirement.
type EndOfLine int

const (
	Undefined EndOfLine = iota
	LF
	CR
	CRLF
)

var eolNames = [...]string{
	Undefined: "UNDEFINED",
	LF:        "LF",
	CR:        "CR",
	CRLF:      "CRLF",
}

func (e EndOfLine) String() string {
	if e < 0 || int(e) >= len(eolNames) {
		return fmt.Sprintf("EndOfLine(%d)", int(e))
	}
	return eolNames[e]
}

// ParseEndOfLine parses UNDEFINED, LF, CR or CRLF case-insensitively.
// The empty string parses as Undefined.
func ParseEndOfLine(s string) (EndOfLine, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Undefined, nil
	}
	for i, name := range eolNames {
		if strings.EqualFold(s, name) {
			return EndOfLine(i), nil
		}
	}
	return Undefined, newError(KindConfig, "SNIFF-CFG-003", fmt.Sprintf("unknown end of line %q (want UNDEFINED, LF, CR or CRLF)", s))
}

func (e EndOfLine) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *EndOfLine) UnmarshalText(b []byte) error {
	v, err := ParseEndOfLine(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// DetectFirstEOL returns the first line-break style used in text, or
// Undefined if text has no line break.
func DetectFirstEOL(text string) EndOfLine {
	prev := ' '
	for _, cur := range text {
		if cur == '\n' {
			if prev == '\r' {
				return CRLF
			}
			return LF
		}
		if prev == '\r' {
			return CR
		}
		prev = cur
	}

	// A lone trailing CR has no successor to classify it inside the loop.
	if prev == '\r' {
		return CR
	}
	return Undefined
}

// CheckEOL reports whether text complies with required. Undefined disables
// the check; text without any line break always complies.
func CheckEOL(text string, required EndOfLine) bool {
	if required == Undefined {
		return true
	}
	detected := DetectFirstEOL(text)
	return detected == Undefined || detected == required
}
