package sniff

import "unicode/utf8"

// IsValidUTF8 reports whether b is entirely well-formed UTF-8. Truncated
// sequences, overlong forms and encoded surrogates are rejected. Empty input
// is valid.
func IsValidUTF8(b []byte) bool {
	return utf8.Valid(b)
}
