package accounts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicolaslara/solana-noir-verifier/field"
	"github.com/nicolaslara/solana-noir-verifier/verifier"
)

func TestReceiptEncodeDecodeRoundTrip(t *testing.T) {
	r := NewReceipt(42, 1700000000)
	encoded := r.Encode()
	require.Len(t, encoded, ReceiptSize)

	decoded, err := DecodeReceipt(encoded)
	require.NoError(t, err)
	require.Equal(t, r, decoded)
}

func TestDeriveReceiptAddressIsDeterministic(t *testing.T) {
	vkAddr := []byte("vk-account-address-000000000000")
	pis := []field.Fr{field.FromUint64(1), field.FromUint64(2)}

	a1 := DeriveReceiptAddress(vkAddr, pis)
	a2 := DeriveReceiptAddress(vkAddr, pis)
	require.Equal(t, a1, a2)

	other := DeriveReceiptAddress(vkAddr, []field.Fr{field.FromUint64(3)})
	require.NotEqual(t, a1, other)
}

func TestReadyForReceiptRequiresCompleteAndVerified(t *testing.T) {
	s := verifier.New()
	require.Error(t, ReadyForReceipt(s))

	s.Phase = verifier.PhaseComplete
	require.Error(t, ReadyForReceipt(s))

	s.Verified = true
	require.NoError(t, ReadyForReceipt(s))
}
