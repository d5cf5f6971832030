package sniff

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// Rule IDs reported in Verdict.RuleID for the failing stage.
const (
	RuleCodeRange  = "SNIFF-CODE-001"
	RuleMembership = "SNIFF-ABC-001"
	RuleEOL        = "SNIFF-EOL-001"
	RuleUTF8       = "SNIFF-UTF8-001"
)

// Verdict is the outcome of validating one file.
//
// Only OK is authoritative. The remaining fields are best-effort
// diagnostics for the first failing stage.
type Verdict struct {
	OK bool
	// RuleID names the failing stage, or "" when OK.
	RuleID string
	// Offending holds the distinct UTF-16 code units outside the code range.
	Offending []uint16
	// DetectedEOL is the first line break found when the EOL stage ran.
	DetectedEOL EndOfLine
}

// OffendingChars renders each offending unit as text. A lone surrogate has
// no text form and is rendered as a \uXXXX escape.
func (v Verdict) OffendingChars() []string {
	if len(v.Offending) == 0 {
		return nil
	}
	chars := make([]string, len(v.Offending))
	for i, u := range v.Offending {
		if utf16.IsSurrogate(rune(u)) {
			chars[i] = fmt.Sprintf("\\u%04X", u)
			continue
		}
		chars[i] = string(rune(u))
	}
	return chars
}

// OffendingString renders the offending units as 'a','b'.
func (v Verdict) OffendingString() string {
	var sb strings.Builder
	for i, c := range v.OffendingChars() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\'')
		sb.WriteString(c)
		sb.WriteByte('\'')
	}
	return sb.String()
}

// checkInput is the per-call scratch shared by the stages.
type checkInput struct {
	raw  []byte
	text string
}

type stage struct {
	id      string
	enabled func(*Policy) bool
	apply   func(*Policy, *checkInput, *Verdict) bool
}

// stagesV1 is the evaluation order. Keep it stable: the first failing stage
// decides RuleID.
func stagesV1() []stage {
	return []stage{
		{
			id: RuleCodeRange,
			apply: func(p *Policy, in *checkInput, v *Verdict) bool {
				offending, ok := CheckCodes(in.text, p.minCode, p.maxCode)
				v.Offending = offending
				return ok
			},
		},
		{
			id: RuleMembership,
			apply: func(p *Policy, in *checkInput, _ *Verdict) bool {
				return CheckMembership(in.text, p.abc, p.noAbc, p.ignoreCtrl)
			},
		},
		{
			id: RuleEOL,
			apply: func(p *Policy, in *checkInput, v *Verdict) bool {
				if p.eol == Undefined {
					return true
				}
				v.DetectedEOL = DetectFirstEOL(in.text)
				return CheckEOL(in.text, p.eol)
			},
		},
		{
			id:      RuleUTF8,
			enabled: func(p *Policy) bool { return p.validateUTF8 },
			apply: func(_ *Policy, in *checkInput, _ *Verdict) bool {
				return IsValidUTF8(in.raw)
			},
		},
	}
}

// Inspect validates data against p and returns diagnostics alongside the
// verdict. Policy violations never produce an error; errors mean the data
// could not be checked at all (KindDecode) or p is nil (KindInternal).
func Inspect(data []byte, p *Policy) (Verdict, error) {
	if p == nil {
		return Verdict{}, newError(KindInternal, "SNIFF-INTERNAL-001", "nil policy")
	}
	text, err := p.Decode(data)
	if err != nil {
		return Verdict{}, err
	}

	in := &checkInput{raw: data, text: text}
	var v Verdict
	for _, s := range stagesV1() {
		if s.enabled != nil && !s.enabled(p) {
			continue
		}
		if !s.apply(p, in, &v) {
			v.RuleID = s.id
			return v, nil
		}
	}
	v.OK = true
	return v, nil
}

// Validate reports whether data satisfies every check of p. It is
// deterministic and keeps no state between calls.
func Validate(data []byte, p *Policy) (bool, error) {
	v, err := Inspect(data, p)
	if err != nil {
		return false, err
	}
	return v.OK, nil
}
