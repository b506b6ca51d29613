package snapshot

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest is a BLAKE3 keyed hash of a snapshot's uncompressed payload.
type Digest [32]byte

// digestKey separates snapshot digests from any other BLAKE3 use of the
// same bytes. Changing it invalidates every stored snapshot.
var digestKey = [32]byte{
	's', 'h', 'a', 'r', 'e', 'd', 'a', 'r', 'r', 'a', 'y', '.',
	's', 'n', 'a', 'p', 's', 'h', 'o', 't',
}

// Sum returns the digest of data.
func Sum(data []byte) Digest {
	hasher, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		panic("snapshot: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var d Digest
	copy(d[:], hasher.Sum(nil))
	return d
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}
