package relations

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicolaslara/solana-noir-verifier/field"
)

func TestArithmeticSatisfyingAssignment(t *testing.T) {
	var e Entities
	e.QL = field.One()
	e.QR = field.One()
	e.QO = field.Neg(field.One())
	e.W1 = field.FromUint64(2)
	e.W2 = field.FromUint64(3)
	e.W3 = field.FromUint64(5) // 2 + 3 - 5 = 0
	e.W4 = field.FromUint64(9)
	e.W4Shift = field.FromUint64(9)

	r0, r1 := arithmetic(e)
	require.True(t, r0.IsZero())
	require.True(t, r1.IsZero()) // QArith == 0 kills r1 regardless of wire values
}

func TestArithmeticViolatedAssignment(t *testing.T) {
	var e Entities
	e.QL = field.One()
	e.QR = field.One()
	e.QO = field.Neg(field.One())
	e.W1 = field.FromUint64(2)
	e.W2 = field.FromUint64(3)
	e.W3 = field.FromUint64(99) // does not satisfy 2 + 3 - 99 = 0

	r0, _ := arithmetic(e)
	require.False(t, r0.IsZero())
}

func TestDeltaRangeAcceptsZeroToThree(t *testing.T) {
	var e Entities
	e.QRange = field.One()
	for _, v := range []uint64{0, 1, 2, 3} {
		e.W1 = field.FromUint64(v)
		r6, _, _, _ := deltaRange(e)
		require.True(t, r6.IsZero(), "value %d should satisfy the range check", v)
	}
}

func TestDeltaRangeRejectsFour(t *testing.T) {
	var e Entities
	e.QRange = field.One()
	e.W1 = field.FromUint64(4)
	r6, _, _, _ := deltaRange(e)
	require.False(t, r6.IsZero())
}

func TestPublicInputsDeltaMatchesDirectComputation(t *testing.T) {
	beta := field.FromUint64(7)
	gamma := field.FromUint64(11)
	pairingPoint := make([]field.Fr, 2)
	publicInputs := make([]field.Fr, 1)

	delta, err := PublicInputsDelta(pairingPoint, publicInputs, beta, gamma, 16, 0)
	require.NoError(t, err)

	all := append(append([]field.Fr{}, pairingPoint...), publicInputs...)
	num := field.One()
	denom := field.One()
	for k := range all {
		numFactor := field.Add(gamma, field.Mul(beta, field.FromUint64(16+uint64(k))))
		num = field.Mul(num, numFactor)
		denomFactor := field.Sub(gamma, field.Mul(beta, field.FromUint64(1+uint64(k))))
		denomInv, ok := field.Inv(denomFactor)
		require.True(t, ok)
		denom = field.Mul(denom, denomInv)
	}
	want := field.Mul(num, denom)
	require.True(t, delta.Equal(want))
}

func TestEvaluateCombinesWithAlphaPowers(t *testing.T) {
	var e Entities
	e.QL = field.One()
	e.QR = field.One()
	e.QO = field.Neg(field.One())
	e.W1 = field.FromUint64(2)
	e.W2 = field.FromUint64(3)
	e.W3 = field.FromUint64(5)
	e.W4 = field.FromUint64(9)
	e.W4Shift = field.FromUint64(9)

	var c Challenges
	for i := range c.Alpha {
		c.Alpha[i] = field.FromUint64(uint64(i + 2))
	}

	r0, r1 := arithmetic(e)
	r2, r3 := permutation(e, c)
	r4, r5 := lookup(e, c)
	r6, r7, r8, r9 := deltaRange(e)
	r10, r11 := elliptic(e)
	r12, r13, r14, r15, r16, r17 := auxiliary(e)
	r18, r19, r20, r21 := poseidon2External(e)
	r22, r23, r24, r25 := poseidon2Internal(e)
	rs := []field.Fr{r0, r1, r2, r3, r4, r5, r6, r7, r8, r9, r10, r11, r12, r13, r14, r15, r16, r17, r18, r19, r20, r21, r22, r23, r24, r25}

	want := rs[0]
	for j := 1; j < NumSubrelations; j++ {
		want = field.Add(want, field.Mul(c.Alpha[j-1], rs[j]))
	}

	got := Evaluate(e, c)
	require.True(t, got.Equal(want))
}
