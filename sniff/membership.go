package sniff

import "unicode"

// CheckMembership reports whether every UTF-16 code unit of text belongs to
// allowed (when set) and to none of disallowed (when set). With both unset
// it always passes.
//
// When ignoreControl is true, ISO control characters (U+0000-U+001F and
// U+007F-U+009F) are skipped. Scanning stops at the first failing unit.
func CheckMembership(text string, allowed, disallowed Alphabet, ignoreControl bool) bool {
	if !allowed.IsSet() && !disallowed.IsSet() {
		return true
	}

	allow := allowed.unitSet()
	deny := disallowed.unitSet()
	for _, u := range codeUnits(text) {
		if ignoreControl && unicode.IsControl(rune(u)) {
			continue
		}
		if allowed.IsSet() {
			if _, ok := allow[u]; !ok {
				return false
			}
		}
		if _, ok := deny[u]; ok {
			return false
		}
	}
	return true
}
