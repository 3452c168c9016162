package storage

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// SumCID returns the CIDv1 (raw codec, sha2-256 multihash) of data.
// Every backend addresses snapshots with it.
func SumCID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// VerifyCID checks that data hashes to id.
func VerifyCID(id cid.Cid, data []byte) error {
	got, err := SumCID(data)
	if err != nil {
		return err
	}
	if !got.Equals(id) {
		return ErrCIDMismatch
	}
	return nil
}
