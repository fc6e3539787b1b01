package accounts

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/nicolaslara/solana-noir-verifier/field"
	"github.com/nicolaslara/solana-noir-verifier/verifier"
)

// ReceiptSize is the fixed byte size of a receipt account.
const ReceiptSize = 8 + 8

// Receipt is the durable proof that a given (vk, public_inputs) pair
// verified successfully at some point. It carries no copy of the
// proof or the public inputs themselves; its address already commits
// to both, so the receipt's mere existence at the derived address is
// the fact being recorded.
type Receipt struct {
	VerifiedSlot      uint64
	VerifiedTimestamp int64
}

// Encode serializes a receipt to its fixed wire form.
func (r Receipt) Encode() []byte {
	out := make([]byte, ReceiptSize)
	binary.LittleEndian.PutUint64(out[0:8], r.VerifiedSlot)
	binary.LittleEndian.PutUint64(out[8:16], uint64(r.VerifiedTimestamp))
	return out
}

// DecodeReceipt reverses Encode.
func DecodeReceipt(raw []byte) (Receipt, error) {
	if len(raw) != ReceiptSize {
		return Receipt{}, fmt.Errorf("accounts: receipt account must be %d bytes, got %d", ReceiptSize, len(raw))
	}
	return Receipt{
		VerifiedSlot:      binary.LittleEndian.Uint64(raw[0:8]),
		VerifiedTimestamp: int64(binary.LittleEndian.Uint64(raw[8:16])),
	}, nil
}

// NewReceipt constructs a receipt from a completed verification state.
// CreateReceipt is only valid from PhaseComplete with Verified set;
// the caller enforces that, this constructor just carries the values
// through.
func NewReceipt(slot uint64, timestamp int64) Receipt {
	return Receipt{VerifiedSlot: slot, VerifiedTimestamp: timestamp}
}

// DeriveReceiptAddress computes a deterministic address for the
// receipt belonging to a (vk_account, public_inputs) pair, standing in
// for a real Solana program-derived address: the same inputs must
// always yield the same address so a second verification of the same
// claim lands on the same receipt instead of allocating a duplicate.
func DeriveReceiptAddress(vkAccountAddr []byte, publicInputs []field.Fr) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, v := range publicInputs {
		b := v.ToRawBytes()
		h.Write(b[:])
	}
	piHash := h.Sum(nil)

	h2 := sha3.NewLegacyKeccak256()
	h2.Write([]byte("receipt"))
	h2.Write(vkAccountAddr)
	h2.Write(piHash)
	var out [32]byte
	copy(out[:], h2.Sum(nil))
	return out
}

// ReadyForReceipt reports whether a verification state is eligible for
// CreateReceipt: it must be Complete and have actually verified.
func ReadyForReceipt(s *verifier.State) error {
	if s.Phase != verifier.PhaseComplete {
		return fmt.Errorf("accounts: receipt requested while verification state is in phase %s", s.Phase)
	}
	if !s.Verified {
		return fmt.Errorf("accounts: receipt requested for a proof that failed verification")
	}
	return nil
}
