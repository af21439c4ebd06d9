// Package utils holds small stateless helpers shared across packages.
package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// GenerateID returns a 16-hex-character opaque identifier, sourced from
// crypto/rand. Used for identifiers that don't need to be reproducible
// under a seeded PRNG.
func GenerateID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate random id: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// NewSeed draws a cryptographically random 62-bit seed for a math/rand
// source, so callers don't wire a fixed seed into production by accident.
func NewSeed() int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	if err != nil {
		panic("failed to draw random seed: " + err.Error())
	}
	return n.Int64()
}

// prng is the minimal surface NewToken needs from a math/rand.Rand, so
// callers can pass either the global source or a per-engine seeded one.
type prng interface {
	Uint64() uint64
}

// NewToken concatenates two independent 64-bit draws into a 32-hex-character
// token: each half comes from its own generator so token issuance never
// contends with, or is made predictable by, the map/loot spawn generator.
func NewToken(a, b prng) string {
	return fmt.Sprintf("%016x%016x", a.Uint64(), b.Uint64())
}
