package sniff

import "unicode/utf16"

// Unset disables a code bound. Any negative bound is treated the same way.
const Unset = -1

// CheckCodes scans text for UTF-16 code units outside the inclusive range
// [minCode, maxCode]. A negative bound is disabled; with both disabled the
// check always passes. A supplementary character is checked as its two
// surrogate units.
//
// The whole text is scanned even after the first offender so the result
// lists every distinct offending unit once, in order of first occurrence.
func CheckCodes(text string, minCode, maxCode int) (offending []uint16, ok bool) {
	if minCode < 0 && maxCode < 0 {
		return nil, true
	}

	seen := make(map[uint16]struct{})
	for _, u := range codeUnits(text) {
		code := int(u)
		if (minCode >= 0 && code < minCode) || (maxCode >= 0 && code > maxCode) {
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			offending = append(offending, u)
		}
	}
	return offending, len(offending) == 0
}

// codeUnits returns text as UTF-16 code units.
func codeUnits(text string) []uint16 {
	return utf16.Encode([]rune(text))
}
