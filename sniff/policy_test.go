package sniff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	p, err := BuildPolicy(DefaultOptions())
	require.NoError(t, err)
	assert.False(t, p.Abc().IsSet())
	assert.False(t, p.NoAbc().IsSet())
	assert.Equal(t, Unset, p.MinCode())
	assert.Equal(t, Unset, p.MaxCode())
	assert.Equal(t, "UTF-8", p.Encoding())
	assert.False(t, p.ValidateUTF8())
	assert.True(t, p.IgnoreAbcForISOControl())
	assert.Equal(t, Undefined, p.EOL())
}

func TestNewPolicy_NormalizesNegativeBounds(t *testing.T) {
	opts := DefaultOptions()
	opts.MinCode = -42
	opts.MaxCode = -2
	p, err := NewPolicy(opts)
	require.NoError(t, err)
	assert.Equal(t, Unset, p.MinCode())
	assert.Equal(t, Unset, p.MaxCode())
}

func TestNewPolicy_AcceptsInvertedRange(t *testing.T) {
	opts := DefaultOptions()
	opts.MinCode = 'z'
	opts.MaxCode = 'a'
	p, err := NewPolicy(opts)
	require.NoError(t, err)
	assert.True(t, p.EmptyRange())

	ok, err := Validate([]byte("m"), p)
	require.NoError(t, err)
	assert.False(t, ok, "no character fits an inverted range")

	ok, err = Validate(nil, p)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPolicy_EmptyRange(t *testing.T) {
	assert.False(t, MustPolicy(DefaultOptions()).EmptyRange())

	opts := DefaultOptions()
	opts.MinCode = 'z'
	assert.False(t, MustPolicy(opts).EmptyRange(), "a single bound is never empty")

	opts.MaxCode = 'z'
	assert.False(t, MustPolicy(opts).EmptyRange())
}

func TestNewPolicy_UnknownCharset(t *testing.T) {
	opts := DefaultOptions()
	opts.Encoding = "no-such-charset"
	_, err := NewPolicy(opts)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConfig))
	assert.Equal(t, "SNIFF-CFG-001", RuleID(err))
}

func TestNewPolicy_CharsetAliases(t *testing.T) {
	for _, name := range []string{"UTF-8", "utf8", "ISO-8859-1", "latin1", "windows-1251", "cp1251", "US-ASCII"} {
		opts := DefaultOptions()
		opts.Encoding = name
		p, err := NewPolicy(opts)
		require.NoError(t, err, name)
		assert.Equal(t, name, p.Encoding())
	}
}

func TestNewPolicy_EmptyCharsetDefaults(t *testing.T) {
	opts := DefaultOptions()
	opts.Encoding = ""
	p, err := NewPolicy(opts)
	require.NoError(t, err)
	assert.Equal(t, DefaultEncoding, p.Encoding())
}

func TestMustPolicy_Panics(t *testing.T) {
	opts := DefaultOptions()
	opts.EOL = EndOfLine(17)
	assert.Panics(t, func() { MustPolicy(opts) })
}

func TestDecode_Latin1(t *testing.T) {
	opts := DefaultOptions()
	opts.Encoding = "ISO-8859-1"
	p := MustPolicy(opts)
	text, err := p.Decode([]byte{'c', 'a', 'f', 0xE9})
	require.NoError(t, err)
	assert.Equal(t, "café", text)
}
