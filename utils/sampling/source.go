// Package sampling implements the random bit sources consumed by the samplers.
package sampling

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mathrand "math/rand/v2"

	"golang.org/x/crypto/blake2b"
)

// Source is a deterministic stream of uniformly random bits keyed by a
// 32-byte seed. It wraps a [mathrand.ChaCha8] and therefore implements both
// [mathrand.Source] and [io.Reader].
//
// A Source is not safe for concurrent use: each goroutine must own its own
// instance, which can be keyed with [Source.ChildSeed].
type Source struct {
	*mathrand.ChaCha8
	seed [32]byte
}

// NewSource instantiates a new [Source] keyed with the given seed.
func NewSource(seed [32]byte) *Source {
	return &Source{
		ChaCha8: mathrand.NewChaCha8(seed),
		seed:    seed,
	}
}

// NewSeed returns a fresh seed read from the operating system's
// cryptographically secure random number generator.
func NewSeed() (seed [32]byte) {
	if _, err := rand.Read(seed[:]); err != nil {
		panic(fmt.Errorf("crypto/rand.Read: %w", err))
	}
	return
}

// Seed returns the seed the receiver was keyed with.
func (s *Source) Seed() [32]byte {
	return s.seed
}

// NewSeed draws a new seed from the receiver's stream.
func (s *Source) NewSeed() (seed [32]byte) {
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(seed[8*i:], s.Uint64())
	}
	return
}

// NewSource returns a new [Source] keyed with a seed drawn from the receiver's stream.
// Advances the receiver.
func (s *Source) NewSource() *Source {
	return NewSource(s.NewSeed())
}

// ChildSeed returns the seed of the i-th child of the receiver,
// BLAKE2b-256(seed, i), where the parent seed is used as
// the MAC key, so that distinct indices yield independent streams.
// ChildSeed does not advance the receiver and is safe for concurrent use.
func (s *Source) ChildSeed(i uint64) (seed [32]byte) {
	h, err := blake2b.New256(s.seed[:])
	if err != nil {
		// A 32-byte key is always valid.
		panic(fmt.Errorf("blake2b.New256: %w", err))
	}

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], i)
	h.Write(buf[:])

	copy(seed[:], h.Sum(nil))
	return
}

// Reseed re-keys the receiver in place. After Reseed(seed) the receiver
// produces the same stream as NewSource(seed).
func (s *Source) Reseed(seed [32]byte) {
	s.ChaCha8.Seed(seed)
	s.seed = seed
}

// Bit returns a single uniformly random bit.
func (s *Source) Bit() uint64 {
	return s.Uint64() & 1
}
