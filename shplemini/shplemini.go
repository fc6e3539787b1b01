// Package shplemini implements the batched polynomial-opening check:
// Gemini folding, Shplonk batching, and the final KZG pairing that
// closes out a verification. This is the last of the three big
// numerical stages (sumcheck, relations, Shplemini) and the only one
// that touches the curve, not just the scalar field.
package shplemini

import (
	"fmt"

	"github.com/nicolaslara/solana-noir-verifier/curve"
	"github.com/nicolaslara/solana-noir-verifier/field"
)

// subgroupGenerator is the fixed generator of the multiplicative
// subgroup Gemini's libra evaluation points ride on. Like the G2 SRS
// constants, this is a compile-time constant inherited from the
// Barretenberg parameter set, not something recomputed per circuit.
var subgroupGenerator = field.FromUint64(5)

// RPows builds {1, r, r^2, ..., r^n} by repeated multiplication, since
// Gemini only ever needs consecutive powers rather than power-of-two
// jumps.
func RPows(r field.Fr, n int) []field.Fr {
	pows := make([]field.Fr, n+1)
	pows[0] = field.One()
	for i := 1; i <= n; i++ {
		pows[i] = field.Mul(pows[i-1], r)
	}
	return pows
}

// ShplonkWeights computes the two fixed per-proof denominators used
// throughout the Gemini/Shplonk combination: (z-1)^-1 and (z+1)^-1.
func ShplonkWeights(z field.Fr) (pos0, neg0 field.Fr, err error) {
	inv, ok := field.BatchInv([]field.Fr{
		field.Sub(z, field.One()),
		field.Add(z, field.One()),
	})
	if !ok {
		return field.Fr{}, field.Fr{}, fmt.Errorf("shplemini: zero denominator computing shplonk weights")
	}
	return inv[0], inv[1], nil
}

// RhoPowers precomputes rho^0..rho^(count-1), one power per evaluation
// entity the batched opening combines.
func RhoPowers(rho field.Fr, count int) []field.Fr {
	pows := make([]field.Fr, count)
	pows[0] = field.One()
	for i := 1; i < count; i++ {
		pows[i] = field.Mul(pows[i-1], rho)
	}
	return pows
}

// BatchedEvaluationValue combines the 40 claimed sumcheck evaluations
// into one Fr using consecutive rho powers. The ordering of evals must
// match the entity-index ordering package proof fixes; shifted wires
// simply occupy their own fixed index like every other entity.
func BatchedEvaluationValue(evals []field.Fr, rhoPows []field.Fr) (field.Fr, error) {
	if len(evals) != len(rhoPows) {
		return field.Fr{}, fmt.Errorf("shplemini: %d evaluations but %d rho powers", len(evals), len(rhoPows))
	}
	acc := field.Zero()
	for i, e := range evals {
		acc = field.Add(acc, field.Mul(e, rhoPows[i]))
	}
	return acc, nil
}

// GeminiFoldScalars holds, per non-dummy round j = 1..n-1, the folding
// scalar and the two Shplonk denominators, all derived from a single
// batch inversion over every denominator at once.
type GeminiFoldScalars struct {
	FoldScalar []field.Fr // index 0 corresponds to round j=1
	InvPlus    []field.Fr // (z - r^j)^-1
	InvMinus   []field.Fr // (z + r^j)^-1
	InvLibraZR []field.Fr // (z-r)^-1, (z-g*r)^-1, length 2
}

// ComputeGeminiFolds implements Step C: builds the per-round folding
// scalars and batch-inverts every Gemini/libra denominator together so
// the whole step costs one inversion instead of 2(n-1)+2.
func ComputeGeminiFolds(n int, u []field.Fr, rPows []field.Fr, z, r field.Fr) (GeminiFoldScalars, error) {
	if n < 1 {
		return GeminiFoldScalars{}, nil
	}
	if len(u) < n-1 || len(rPows) < n {
		return GeminiFoldScalars{}, fmt.Errorf("shplemini: insufficient challenge/power data for %d folds", n-1)
	}

	numFolds := n - 1
	denoms := make([]field.Fr, 0, 2*numFolds+2)
	foldScalar := make([]field.Fr, numFolds)
	for j := 1; j <= numFolds; j++ {
		foldScalar[j-1] = field.Add(field.Mul(rPows[j-1], field.Sub(field.One(), u[j-1])), u[j-1])
		denoms = append(denoms, field.Sub(z, rPows[j]))
		denoms = append(denoms, field.Add(z, rPows[j]))
	}
	gr := field.Mul(subgroupGenerator, r)
	denoms = append(denoms, field.Sub(z, r))
	denoms = append(denoms, field.Sub(z, gr))

	inv, ok := field.BatchInv(denoms)
	if !ok {
		return GeminiFoldScalars{}, fmt.Errorf("shplemini: zero denominator in gemini fold batch inversion")
	}

	out := GeminiFoldScalars{
		FoldScalar: foldScalar,
		InvPlus:    make([]field.Fr, numFolds),
		InvMinus:   make([]field.Fr, numFolds),
		InvLibraZR: inv[2*numFolds:],
	}
	for j := 0; j < numFolds; j++ {
		out.InvPlus[j] = inv[2*j]
		out.InvMinus[j] = inv[2*j+1]
	}
	return out, nil
}

// WeightedTerm is one (commitment, scalar) contribution to the running
// P0 multi-scalar-multiplication.
type WeightedTerm struct {
	Commitment curve.G1
	Scalar     field.Fr
}

// Accumulate reduces a list of (commitment, scalar) pairs into a single
// G1 point via repeated scalar-mul and add, the host-syscall-backed MSM
// Step D calls for.
func Accumulate(terms []WeightedTerm) curve.G1 {
	acc := curve.G1Infinity
	for _, t := range terms {
		if t.Scalar.IsZero() {
			continue
		}
		acc = curve.Add(acc, curve.ScalarMul(t.Commitment, t.Scalar))
	}
	return acc
}

// AddConstantTerm implements Step E: folds the constant-term
// adjustment (V minus whatever Step D's scalars have already
// subtracted out) into P0 along the G1 generator.
func AddConstantTerm(p0 curve.G1, constantTerm field.Fr) curve.G1 {
	return curve.Add(p0, curve.ScalarMul(curve.G1Gen(), constantTerm))
}

// FinalOpeningPoint implements Step F: the Shplonk/KZG opening element
// is the negation of the proof's kzg_w commitment.
func FinalOpeningPoint(kzgW curve.G1) curve.G1 {
	return curve.Neg(kzgW)
}

// PairingCheck implements Step G: e(P0, G2_GEN) * e(P1, G2_TAU) == 1.
func PairingCheck(p0, p1 curve.G1) (bool, error) {
	return curve.PairingCheck([]curve.Pair{
		{G1: p0, G2: curve.G2Gen()},
		{G1: p1, G2: curve.G2Tau()},
	})
}
