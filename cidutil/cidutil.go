// Package cidutil derives content identifiers for qbl and xml files.
package cidutil

import (
	"encoding/hex"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"golang.org/x/crypto/sha3"
)

// CID returns the CIDv1 (raw codec, sha2-256 multihash) of data.
func CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// String is CID rendered in its default multibase, or "" if hashing failed.
func String(data []byte) string {
	id, err := CID(data)
	if err != nil {
		// multihash.Sum only fails for unknown codes or bad lengths.
		return ""
	}
	return id.String()
}

// SHA3Hex returns the lowercase hex sha3-256 digest of data.
func SHA3Hex(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
