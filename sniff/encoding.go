package sniff

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultEncoding is the charset used when a policy names none.
const DefaultEncoding = "UTF-8"

// lookupEncoding resolves a charset name. IANA names and aliases are tried
// first, then the WHATWG labels browsers accept (e.g. "latin1", "cp1251").
func lookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultEncoding
	}
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(name); err == nil && enc != nil {
		return enc, nil
	}
	return nil, newError(KindConfig, "SNIFF-CFG-001", fmt.Sprintf("unsupported charset %q", name))
}

// decode turns raw bytes into text. Byte sequences that are invalid in the
// charset become U+FFFD; only transformer failures are reported.
func decode(enc encoding.Encoding, data []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", wrapError(KindDecode, "SNIFF-DEC-001", "cannot decode text", err)
	}
	return string(out), nil
}
