// Package contentid derives stable identifiers for checked file contents so
// build logs and reports name exactly which bytes were validated.
package contentid

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Of returns the CIDv1 (raw codec, sha2-256) of data as a string.
func Of(data []byte) string {
	id, err := Sum(data)
	if err != nil {
		// multihash.Sum only fails for unknown codes or bad lengths.
		return ""
	}
	return id.String()
}

// Sum returns the CIDv1 (raw codec, sha2-256) of data.
func Sum(data []byte) (cid.Cid, error) {
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}

// Matches reports whether s is the identifier of data. s may use any
// multibase encoding.
func Matches(s string, data []byte) (bool, error) {
	want, err := cid.Decode(s)
	if err != nil {
		return false, fmt.Errorf("contentid: decode %q: %w", s, err)
	}
	dm, err := multihash.Decode(want.Hash())
	if err != nil {
		return false, fmt.Errorf("contentid: decode multihash: %w", err)
	}
	mh, err := multihash.Sum(data, dm.Code, dm.Length)
	if err != nil {
		return false, fmt.Errorf("contentid: hash: %w", err)
	}
	return cid.NewCidV1(want.Type(), mh).Equals(want), nil
}
