// Package transcript implements the Keccak256-based Fiat-Shamir
// transcript bb 0.87 uses to derive UltraHonk's verifier challenges.
// Byte-for-byte compatibility with the prover's encoding is the whole
// point of this package: any divergence in ordering or padding desyncs
// every challenge downstream.
package transcript

import (
	"golang.org/x/crypto/sha3"

	"github.com/nicolaslara/solana-noir-verifier/curve"
	"github.com/nicolaslara/solana-noir-verifier/field"
)

// Transcript holds the rolling Fiat-Shamir state: a single 32-byte
// "previous challenge" and a growing absorption buffer.
//
// The buffer is a single pre-sized slice reset (truncated to zero
// length, capacity retained) after every Challenge call rather than
// reallocated, since a proof verification appends to it many hundred
// times.
type Transcript struct {
	prev [32]byte
	buf  []byte
}

// New returns a fresh transcript; prev starts at the zero value.
func New() *Transcript {
	return &Transcript{buf: make([]byte, 0, 4096)}
}

// Resume reconstructs a transcript mid-protocol from a previously
// squeezed challenge value, the only piece of transcript state that
// survives between phase handlers running in separate transactions.
func Resume(prev [32]byte) *Transcript {
	return &Transcript{prev: prev, buf: make([]byte, 0, 4096)}
}

// Prev returns the current rolling challenge value, persisted by the
// caller so the next phase handler can Resume from it.
func (t *Transcript) Prev() [32]byte { return t.prev }

// Append appends raw bytes to the absorption buffer.
func (t *Transcript) Append(b []byte) {
	t.buf = append(t.buf, b...)
}

// AppendFr appends an Fr in its canonical 32-byte big-endian raw form.
func (t *Transcript) AppendFr(a field.Fr) {
	b := a.ToRawBytes()
	t.Append(b[:])
}

// AppendG1 appends a G1 point in the 128-byte limbed form.
func (t *Transcript) AppendG1(p curve.G1) {
	b := p.LimbedBytes()
	t.Append(b[:])
}

// AppendU64 appends a 64-bit header field as a 32-byte big-endian
// zero-padded value, matching the VK header's field encoding.
func (t *Transcript) AppendU64(v uint64) {
	var b [32]byte
	for i := 0; i < 8; i++ {
		b[31-i] = byte(v)
		v >>= 8
	}
	t.Append(b[:])
}

// Challenge computes h = keccak256(prev || buffer), sets prev = h,
// clears the buffer, and returns h.
func (t *Transcript) Challenge() [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(t.prev[:])
	h.Write(t.buf)
	var out [32]byte
	h.Sum(out[:0])
	t.prev = out
	t.buf = t.buf[:0]
	return out
}

// SplitChallenge squeezes one challenge and splits it into the (lo, hi)
// Fr pair.
func (t *Transcript) SplitChallenge() (lo, hi field.Fr) {
	h := t.Challenge()
	return field.SplitChallenge(h)
}

// ChainPrev advances prev = keccak(prev) without absorbing anything,
// used by the 28-iteration gate-challenge squeeze, which chains purely
// off prev with an empty buffer each round.
func (t *Transcript) ChainPrev() [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(t.prev[:])
	var out [32]byte
	h.Sum(out[:0])
	t.prev = out
	return out
}
