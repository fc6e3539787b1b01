package sumcheck

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicolaslara/solana-noir-verifier/field"
	"github.com/nicolaslara/solana-noir-verifier/proof"
	"github.com/nicolaslara/solana-noir-verifier/transcript"
)

// sumcheckCoeffOffset mirrors proof.View's internal layout for the
// sumcheck round-coefficient region, used only to construct fixture
// proof buffers in these tests.
const sumcheckCoeffOffset = 16*32 + 8*128 + 128 + 32

func fixtureProofBytes() []byte {
	return make([]byte, proof.Size)
}

func setRoundConstant(raw []byte, r int, c field.Fr) {
	b := c.ToRawBytes()
	base := sumcheckCoeffOffset + (r*NumCoeffs)*32
	for j := 0; j < NumCoeffs; j++ {
		copy(raw[base+j*32:base+j*32+32], b[:])
	}
}

func TestEvalAtConstantPolynomial(t *testing.T) {
	c := field.FromUint64(42)
	var values [NumCoeffs]field.Fr
	for i := range values {
		values[i] = c
	}
	for _, x := range []field.Fr{field.FromUint64(100), field.FromUint64(3), field.Zero()} {
		got, err := evalAt(values, x)
		require.NoError(t, err)
		require.True(t, got.Equal(c))
	}
}

func TestStepActiveRoundConsistencyPass(t *testing.T) {
	raw := fixtureProofBytes()
	c := field.FromUint64(7)
	setRoundConstant(raw, 0, c)
	p, err := proof.New(raw)
	require.NoError(t, err)

	var gateChal [MaxRounds]field.Fr
	gateChal[0] = field.FromUint64(5)

	initialTarget := field.Add(c, c) // U_0(0) + U_0(1) = c + c
	e := NewEngine(1, gateChal, initialTarget)

	tr := transcript.New()
	require.NoError(t, e.Step(0, p, tr))
	require.True(t, e.Target.Equal(c))
}

func TestStepActiveRoundConsistencyFail(t *testing.T) {
	raw := fixtureProofBytes()
	setRoundConstant(raw, 0, field.FromUint64(7))
	p, err := proof.New(raw)
	require.NoError(t, err)

	var gateChal [MaxRounds]field.Fr
	e := NewEngine(1, gateChal, field.FromUint64(999))

	tr := transcript.New()
	require.Error(t, e.Step(0, p, tr))
}

func TestStepPaddingRoundRequiresZero(t *testing.T) {
	raw := fixtureProofBytes()
	p, err := proof.New(raw)
	require.NoError(t, err)

	var gateChal [MaxRounds]field.Fr
	e := NewEngine(0, gateChal, field.Zero())

	tr := transcript.New()
	require.NoError(t, e.Step(0, p, tr))
	require.True(t, e.Target.IsZero())

	setRoundConstant(raw, 1, field.FromUint64(1))
	p2, err := proof.New(raw)
	require.NoError(t, err)
	require.Error(t, e.Step(1, p2, tr))
}

func TestStepOutOfRangeRound(t *testing.T) {
	raw := fixtureProofBytes()
	p, err := proof.New(raw)
	require.NoError(t, err)
	var gateChal [MaxRounds]field.Fr
	e := NewEngine(0, gateChal, field.Zero())
	tr := transcript.New()
	require.Error(t, e.Step(-1, p, tr))
	require.Error(t, e.Step(MaxRounds, p, tr))
}
