// Package curve provides thin wrappers over BN254 group operations,
// standing in for the host chain's native curve syscalls.
// On real Solana BPF these calls are syscalls into the runtime; here
// they are backed by gnark-crypto.
package curve

import (
	"fmt"
	"math/big"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/nicolaslara/solana-noir-verifier/field"
)

// G1 is a BN254 G1 affine point, the 64-byte wire encoding
// (two 32-byte big-endian coordinates; point-at-infinity is all-zero).
type G1 struct {
	inner bn254.G1Affine
}

// G2 is a BN254 G2 affine point, the 128-byte wire encoding.
type G2 struct {
	inner bn254.G2Affine
}

// G1Infinity is the point at infinity (all-zero 64-byte encoding).
var G1Infinity = G1{}

// g1Gen backs G1Gen(): the standard BN254 G1 generator (1, 2), fixed at
// compile time like the G2 constants.
var g1Gen = func() bn254.G1Affine {
	var g bn254.G1Affine
	g.X.SetOne()
	g.Y.SetUint64(2)
	return g
}()

// G1Gen returns the fixed BN254 G1 generator, used as the base point
// when folding Shplemini's constant-term adjustment into P0.
func G1Gen() G1 { return G1{inner: g1Gen} }

// G1FromBytes decodes the 64-byte big-endian affine encoding.
// All-zero bytes decode to the point at infinity.
func G1FromBytes(b []byte) (G1, error) {
	if len(b) != 64 {
		return G1{}, fmt.Errorf("curve: G1 wire encoding must be 64 bytes, got %d", len(b))
	}
	var g G1
	if isAllZero(b) {
		return g, nil
	}
	var buf [64]byte
	copy(buf[:], b)
	if _, err := g.inner.SetBytes(buf[:]); err != nil {
		return G1{}, fmt.Errorf("curve: malformed G1 point: %w", err)
	}
	return g, nil
}

// G1FromLimbed decodes the 128-byte limbed encoding used only when
// absorbing a G1 into the transcript: x_lo, x_hi, y_lo, y_hi, each
// 32 bytes, coordinates split at bit 136.
func G1FromLimbed(b []byte) (G1, error) {
	if len(b) != 128 {
		return G1{}, fmt.Errorf("curve: G1 limbed encoding must be 128 bytes, got %d", len(b))
	}
	x, err := recombineLimb(b[0:32], b[32:64])
	if err != nil {
		return G1{}, err
	}
	y, err := recombineLimb(b[64:96], b[96:128])
	if err != nil {
		return G1{}, err
	}
	var wire [64]byte
	x.FillBytes(wire[0:32])
	y.FillBytes(wire[32:64])
	return G1FromBytes(wire[:])
}

// recombineLimb reassembles a single field coordinate from its lo/hi
// 136-bit split fragments (each stored in a full 32-byte big-endian slot).
func recombineLimb(loBytes, hiBytes []byte) (*big.Int, error) {
	lo := new(big.Int).SetBytes(loBytes)
	hi := new(big.Int).SetBytes(hiBytes)
	hi.Lsh(hi, 136)
	return hi.Add(hi, lo), nil
}

// Bytes encodes the point in the 64-byte wire form.
func (g G1) Bytes() [64]byte {
	if g.inner.X.IsZero() && g.inner.Y.IsZero() {
		return [64]byte{}
	}
	return g.inner.RawBytes()
}

// LimbedBytes encodes the point in the 128-byte limbed form used by the
// transcript, splitting each coordinate at bit 136.
func (g G1) LimbedBytes() [128]byte {
	var out [128]byte
	x := g.inner.X.BigInt(new(big.Int))
	y := g.inner.Y.BigInt(new(big.Int))
	splitLimb(x, out[0:32], out[32:64])
	splitLimb(y, out[64:96], out[96:128])
	return out
}

func splitLimb(v *big.Int, loOut, hiOut []byte) {
	mask := new(big.Int).Lsh(big.NewInt(1), 136)
	mask.Sub(mask, big.NewInt(1))
	lo := new(big.Int).And(v, mask)
	hi := new(big.Int).Rsh(v, 136)
	lo.FillBytes(loOut)
	hi.FillBytes(hiOut)
}

func isAllZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

// Add computes A+B.
func Add(a, b G1) G1 {
	var out G1
	out.inner.Add(&a.inner, &b.inner)
	return out
}

// Neg computes -A (field negation of the y coordinate).
func Neg(a G1) G1 {
	var out G1
	out.inner.Neg(&a.inner)
	return out
}

// ScalarMul computes s*A. The scalar is taken from its canonical
// (non-Montgomery) representative.
func ScalarMul(a G1, s field.Fr) G1 {
	raw := s.ToRawBytes()
	scalar := new(big.Int).SetBytes(raw[:])
	var out G1
	out.inner.ScalarMultiplication(&a.inner, scalar)
	return out
}

// Pair is one (G1, G2) input to PairingCheck.
type Pair struct {
	G1 G1
	G2 G2
}

// PairingCheck verifies that the product of the given pairings is 1,
// i.e. prod_i e(pairs[i].G1, pairs[i].G2) == 1. A
// malformed point or a host-reported failure both surface as `false`,
// never a panic.
func PairingCheck(pairs []Pair) (bool, error) {
	g1s := make([]bn254.G1Affine, len(pairs))
	g2s := make([]bn254.G2Affine, len(pairs))
	for i, p := range pairs {
		g1s[i] = p.G1.inner
		g2s[i] = p.G2.inner
	}
	ok, err := bn254.PairingCheck(g1s, g2s)
	if err != nil {
		return false, fmt.Errorf("curve: pairing syscall failed: %w", err)
	}
	return ok, nil
}
