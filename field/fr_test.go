package field_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicolaslara/solana-noir-verifier/field"
)

func TestRawRoundTrip(t *testing.T) {
	raws := []uint64{0, 1, 2, 1 << 40, ^uint64(0)}
	for _, r := range raws {
		a := field.FromUint64(r)
		bytes := a.ToRawBytes()
		back, ok := field.FromRawBytes(bytes[:])
		require.True(t, ok)
		require.Equal(t, a, back)
	}
}

func TestAddSubNeg(t *testing.T) {
	a := field.FromUint64(7)
	b := field.FromUint64(11)
	sum := field.Add(a, b)
	require.Equal(t, field.FromUint64(18), sum)

	diff := field.Sub(sum, b)
	require.Equal(t, a, diff)

	negA := field.Neg(a)
	require.True(t, field.Add(a, negA).IsZero())
}

func TestMulSquareIdentity(t *testing.T) {
	a := field.FromUint64(9)
	require.Equal(t, field.Mul(a, field.One()), a)
	require.Equal(t, field.Square(a), field.Mul(a, a))
}

func TestInv(t *testing.T) {
	a := field.FromUint64(12345)
	inv, ok := field.Inv(a)
	require.True(t, ok)
	require.Equal(t, field.One(), field.Mul(a, inv))

	_, ok = field.Inv(field.Zero())
	require.False(t, ok)
}

func TestBatchInv(t *testing.T) {
	vs := []field.Fr{
		field.FromUint64(2),
		field.FromUint64(3),
		field.FromUint64(5),
		field.FromUint64(7),
	}
	invs, ok := field.BatchInv(vs)
	require.True(t, ok)
	for i, v := range vs {
		require.Equal(t, field.One(), field.Mul(v, invs[i]))
	}

	_, ok = field.BatchInv([]field.Fr{field.FromUint64(1), field.Zero()})
	require.False(t, ok)
}

func TestMontgomeryByteRoundTrip(t *testing.T) {
	a := field.FromUint64(424242)
	b := a.ToMontgomeryBytes()
	back, ok := field.FromMontgomeryBytes(b[:])
	require.True(t, ok)
	require.Equal(t, a, back)
}
