package accounts

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/nicolaslara/solana-noir-verifier/verifier"
)

// DebugSnapshot is a compact, human-inspectable view of a
// verification-state account: just enough to tell where a stuck
// verification run is and why, without shipping the full fixed-width
// account encoding. It is never consulted by the phase handlers
// themselves, only by the debug HTTP surface.
type DebugSnapshot struct {
	Phase     string `cbor:"phase"`
	LogN      uint64 `cbor:"log_n"`
	NextRound uint8  `cbor:"next_round"`
	Verified  bool   `cbor:"verified"`
	P0        []byte `cbor:"p0"`
	P1        []byte `cbor:"p1"`
}

// EncodeDebugSnapshot builds a DebugSnapshot from a live state and
// CBOR-encodes it.
func EncodeDebugSnapshot(s *verifier.State) ([]byte, error) {
	p0 := s.P0.Bytes()
	p1 := s.P1.Bytes()
	snap := DebugSnapshot{
		Phase:     s.Phase.String(),
		LogN:      s.LogN,
		NextRound: s.NextRound,
		Verified:  s.Verified,
		P0:        p0[:],
		P1:        p1[:],
	}
	return cbor.Marshal(snap)
}

// DecodeDebugSnapshot reverses EncodeDebugSnapshot. It is a read-only
// projection: there is no path back from a DebugSnapshot to a
// verifier.State, since the snapshot deliberately drops every
// challenge and intermediate scalar.
func DecodeDebugSnapshot(raw []byte) (DebugSnapshot, error) {
	var snap DebugSnapshot
	err := cbor.Unmarshal(raw, &snap)
	return snap, err
}
