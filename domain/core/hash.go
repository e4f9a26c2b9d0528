package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Fingerprint represents a cryptographic digest of an input payload.
// Used as the cache key for assumption-check results.
type Fingerprint string

// NewFingerprint creates a fingerprint from raw bytes.
func NewFingerprint(data []byte) Fingerprint {
	sum := sha256.Sum256(data)
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (f Fingerprint) String() string {
	return string(f)
}

// IsEmpty checks if the fingerprint is empty
func (f Fingerprint) IsEmpty() bool {
	return f == ""
}

// FingerprintSamples digests a values/groups payload deterministically.
// The group slice may be nil for single-sample payloads.
func FingerprintSamples(values []float64, groups []string) Fingerprint {
	h := sha256.New()
	var buf [8]byte
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	// Separator guards against a value run colliding with a group run.
	h.Write([]byte{0x00})
	for _, g := range groups {
		h.Write([]byte(g))
		h.Write([]byte{0x1f})
	}
	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}
