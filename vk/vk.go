// Package vk provides a zero-copy view over the 1,760-byte UltraHonk
// verification key. No byte of the key is copied; every accessor
// slices the backing buffer lazily.
package vk

import (
	"encoding/binary"
	"fmt"

	"github.com/nicolaslara/solana-noir-verifier/curve"
)

// Size is the fixed verification-key length in bytes.
const Size = 1760

// HeaderSize is the 32-byte header preceding the 27 G1 commitments.
const HeaderSize = 32

// NumCommitments is the number of fixed-position G1 commitments.
const NumCommitments = 27

// MaxLogN is the largest supported circuit size exponent (no circuits
// with more than 2^28 gates are supported).
const MaxLogN = 28

// Commitment indices, the fixed positional wire order.
const (
	QM = iota
	QC
	QL
	QR
	QO
	Q4
	QLookup
	QArith
	QRange
	QElliptic
	QAux
	QPos2Ext
	QPos2Int
	Sigma1
	Sigma2
	Sigma3
	Sigma4
	ID1
	ID2
	ID3
	ID4
	Table1
	Table2
	Table3
	Table4
	LFirst
	LLast
)

// View is a read-only, zero-copy window over a 1,760-byte VK buffer.
type View struct {
	raw []byte
}

// New validates and wraps raw as a VK view. raw is retained, not copied.
func New(raw []byte) (View, error) {
	if len(raw) != Size {
		return View{}, fmt.Errorf("vk: expected %d bytes, got %d", Size, len(raw))
	}
	v := View{raw: raw}
	logN := v.LogCircuitSize()
	if logN == 0 || logN > MaxLogN {
		return View{}, fmt.Errorf("vk: invalid log_n %d (must be 1..%d)", logN, MaxLogN)
	}
	for i := 0; i < NumCommitments; i++ {
		if _, err := v.Commitment(i); err != nil {
			return View{}, fmt.Errorf("vk: commitment %d: %w", i, err)
		}
	}
	return v, nil
}

// Raw returns the underlying byte slice, unexported field mirrored for
// hashing (the transcript absorbs a precomputed VK hash as its first step).
func (v View) Raw() []byte { return v.raw }

// CircuitSize returns the header's circuit_size field.
func (v View) CircuitSize() uint64 { return binary.LittleEndian.Uint64(v.raw[0:8]) }

// LogCircuitSize returns log_n.
func (v View) LogCircuitSize() uint64 { return binary.LittleEndian.Uint64(v.raw[8:16]) }

// NumPublicInputs returns the expected public-input count.
func (v View) NumPublicInputs() uint64 { return binary.LittleEndian.Uint64(v.raw[16:24]) }

// PubInputsOffset returns the pub_inputs_offset header field.
func (v View) PubInputsOffset() uint64 { return binary.LittleEndian.Uint64(v.raw[24:32]) }

// Commitment returns the idx-th G1 commitment (wire enum order).
func (v View) Commitment(idx int) (curve.G1, error) {
	if idx < 0 || idx >= NumCommitments {
		return curve.G1{}, fmt.Errorf("vk: commitment index %d out of range", idx)
	}
	off := HeaderSize + idx*64
	return curve.G1FromBytes(v.raw[off : off+64])
}
