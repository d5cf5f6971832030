package sniff

import (
	"fmt"

	"golang.org/x/text/encoding"
)

// Options is the plain input for NewPolicy. Start from DefaultOptions; the
// zero value is not the default policy (it bounds codes at 0 and checks
// control characters against the alphabets).
type Options struct {
	// Abc, when set, lists the only characters allowed.
	Abc Alphabet
	// NoAbc, when set, lists prohibited characters.
	NoAbc Alphabet

	MinCode int
	MaxCode int

	// Encoding is the charset used to decode file bytes into text.
	Encoding string

	// ValidateUTF8 additionally requires the raw bytes to be strict UTF-8,
	// whatever Encoding says.
	ValidateUTF8 bool

	// IgnoreAbcForISOControl exempts ISO control characters from Abc/NoAbc.
	IgnoreAbcForISOControl bool

	// EOL is the required end of line; Undefined disables the check.
	EOL EndOfLine
}

// DefaultOptions returns options with every check disabled, UTF-8 decoding
// and control characters exempt from the alphabets.
func DefaultOptions() Options {
	return Options{
		MinCode:                Unset,
		MaxCode:                Unset,
		Encoding:               DefaultEncoding,
		IgnoreAbcForISOControl: true,
		EOL:                    Undefined,
	}
}

// Policy is an immutable set of validation rules applied uniformly to every
// file of a run. It is safe for concurrent use.
type Policy struct {
	abc          Alphabet
	noAbc        Alphabet
	minCode      int
	maxCode      int
	encodingName string
	enc          encoding.Encoding
	validateUTF8 bool
	ignoreCtrl   bool
	eol          EndOfLine
}

// NewPolicy validates opts and freezes them into a Policy.
//
// Negative code bounds are normalized to Unset. A minimum above the maximum
// is accepted (see EmptyRange). An unknown charset is a KindConfig error.
func NewPolicy(opts Options) (*Policy, error) {
	if opts.MinCode < 0 {
		opts.MinCode = Unset
	}
	if opts.MaxCode < 0 {
		opts.MaxCode = Unset
	}
	if opts.EOL < Undefined || opts.EOL > CRLF {
		return nil, newError(KindConfig, "SNIFF-CFG-003", fmt.Sprintf("unknown end of line %v", opts.EOL))
	}
	if opts.Encoding == "" {
		opts.Encoding = DefaultEncoding
	}
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}

	return &Policy{
		abc:          opts.Abc,
		noAbc:        opts.NoAbc,
		minCode:      opts.MinCode,
		maxCode:      opts.MaxCode,
		encodingName: opts.Encoding,
		enc:          enc,
		validateUTF8: opts.ValidateUTF8,
		ignoreCtrl:   opts.IgnoreAbcForISOControl,
		eol:          opts.EOL,
	}, nil
}

// BuildPolicy is NewPolicy under the name build tools integrate against.
func BuildPolicy(opts Options) (*Policy, error) {
	return NewPolicy(opts)
}

// MustPolicy is like NewPolicy but panics on error. Intended for tests and
// package-level defaults.
func MustPolicy(opts Options) *Policy {
	p, err := NewPolicy(opts)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Policy) Abc() Alphabet                { return p.abc }
func (p *Policy) NoAbc() Alphabet              { return p.noAbc }
func (p *Policy) MinCode() int                 { return p.minCode }
func (p *Policy) MaxCode() int                 { return p.maxCode }
func (p *Policy) Encoding() string             { return p.encodingName }
func (p *Policy) ValidateUTF8() bool           { return p.validateUTF8 }
func (p *Policy) IgnoreAbcForISOControl() bool { return p.ignoreCtrl }
func (p *Policy) EOL() EndOfLine               { return p.eol }

// EmptyRange reports whether both code bounds are set and the minimum
// exceeds the maximum. Every non-empty text then fails the code range check.
func (p *Policy) EmptyRange() bool {
	return p.minCode != Unset && p.maxCode != Unset && p.minCode > p.maxCode
}

// Decode turns data into text using the policy's charset.
func (p *Policy) Decode(data []byte) (string, error) {
	if p == nil || p.enc == nil {
		return "", newError(KindInternal, "SNIFF-INTERNAL-001", "nil policy")
	}
	return decode(p.enc, data)
}
