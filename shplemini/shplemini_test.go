package shplemini_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicolaslara/solana-noir-verifier/curve"
	"github.com/nicolaslara/solana-noir-verifier/field"
	"github.com/nicolaslara/solana-noir-verifier/shplemini"
)

func TestRPows(t *testing.T) {
	r := field.FromUint64(3)
	pows := shplemini.RPows(r, 4)
	require.Len(t, pows, 5)
	require.True(t, pows[0].Equal(field.One()))
	require.True(t, pows[1].Equal(r))
	require.True(t, pows[4].Equal(field.Mul(field.Mul(field.Mul(r, r), r), r)))
}

func TestShplonkWeights(t *testing.T) {
	z := field.FromUint64(9)
	pos0, neg0, err := shplemini.ShplonkWeights(z)
	require.NoError(t, err)

	zMinus1 := field.Sub(z, field.One())
	zPlus1 := field.Add(z, field.One())
	require.True(t, field.Mul(pos0, zMinus1).Equal(field.One()))
	require.True(t, field.Mul(neg0, zPlus1).Equal(field.One()))
}

func TestShplonkWeightsRejectsDegenerateZ(t *testing.T) {
	_, _, err := shplemini.ShplonkWeights(field.One())
	require.Error(t, err)
}

func TestBatchedEvaluationValue(t *testing.T) {
	rho := field.FromUint64(2)
	evals := []field.Fr{field.FromUint64(1), field.FromUint64(1), field.FromUint64(1)}
	rhoPows := shplemini.RhoPowers(rho, 3)
	v, err := shplemini.BatchedEvaluationValue(evals, rhoPows)
	require.NoError(t, err)
	require.True(t, v.Equal(field.FromUint64(1+2+4)))
}

func TestBatchedEvaluationValueLengthMismatch(t *testing.T) {
	_, err := shplemini.BatchedEvaluationValue([]field.Fr{field.One()}, []field.Fr{field.One(), field.One()})
	require.Error(t, err)
}

func TestComputeGeminiFoldsBasic(t *testing.T) {
	n := 4
	u := []field.Fr{field.FromUint64(2), field.FromUint64(3), field.FromUint64(5)}
	r := field.FromUint64(7)
	rPows := shplemini.RPows(r, n)
	z := field.FromUint64(100)

	folds, err := shplemini.ComputeGeminiFolds(n, u, rPows, z, r)
	require.NoError(t, err)
	require.Len(t, folds.FoldScalar, n-1)
	require.Len(t, folds.InvPlus, n-1)
	require.Len(t, folds.InvMinus, n-1)
	require.Len(t, folds.InvLibraZR, 2)

	for j := 1; j <= n-1; j++ {
		dPlus := field.Sub(z, rPows[j])
		require.True(t, field.Mul(dPlus, folds.InvPlus[j-1]).Equal(field.One()))
	}
}

func TestAccumulateSkipsZeroScalars(t *testing.T) {
	gen := curve.G1Gen()
	terms := []shplemini.WeightedTerm{
		{Commitment: gen, Scalar: field.Zero()},
		{Commitment: gen, Scalar: field.One()},
	}
	got := shplemini.Accumulate(terms)
	require.Equal(t, gen.Bytes(), got.Bytes())
}

func TestFinalOpeningPointNegates(t *testing.T) {
	gen := curve.G1Gen()
	p1 := shplemini.FinalOpeningPoint(gen)
	require.Equal(t, curve.Neg(gen).Bytes(), p1.Bytes())
}

func TestPairingCheckTrivial(t *testing.T) {
	ok, err := shplemini.PairingCheck(curve.G1Infinity, curve.G1Infinity)
	require.NoError(t, err)
	require.True(t, ok)
}
