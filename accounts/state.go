package accounts

import (
	"encoding/binary"
	"fmt"

	"github.com/nicolaslara/solana-noir-verifier/curve"
	"github.com/nicolaslara/solana-noir-verifier/field"
	"github.com/nicolaslara/solana-noir-verifier/relations"
	"github.com/nicolaslara/solana-noir-verifier/sumcheck"
	"github.com/nicolaslara/solana-noir-verifier/verifier"
)

// maxGeminiFolds bounds the variable-length per-log_n slices (fold
// scalars, inverses, rho powers) so the account has a fixed size
// regardless of which log_n is in flight; MaxLogN-1 folds covers the
// largest supported circuit.
const maxGeminiFolds = sumcheck.MaxRounds - 1

// maxRhoPows is sized for the largest batched-evaluation set Shplemini
// ever builds: one rho power per claimed evaluation (the unshifted and
// shifted entities, proof.NumEvaluations in all).
const maxRhoPows = 40

// stateHeaderSize covers Phase, LogN, NextRound, TranscriptPrev.
const stateHeaderSize = 1 + 8 + 1 + 32

// StateSize is the fixed byte size of an encoded verification-state
// account. Every field is stored at its full fixed-width slot even
// when a given log_n does not populate every slice entry, so the
// account layout never depends on which proof is in flight.
const StateSize = stateHeaderSize +
	relations.NumAlphas*32 + // Alpha
	sumcheck.MaxRounds*32 + // GateChal
	9*32 + // Beta,Gamma,Eta,Eta2,Eta3,Rho,LibraChallenge,GeminiR,ShplonkNu
	32 + // ShplonkZ
	sumcheck.MaxRounds*32 + // U
	2*32 + // Target, PowPartial
	3*32 + // PublicInputsDelta, Grand, BatchedEval
	maxRhoPows*32 + // RhoPows
	2*32 + // ShplonkPos0, ShplonkNeg0
	maxGeminiFolds*32 + // FoldScalar
	maxGeminiFolds*32 + // InvPlus
	maxGeminiFolds*32 + // InvMinus
	2*32 + // InvLibraZR
	64 + 64 + // P0, P1
	1 // Verified

func putFr(dst []byte, v field.Fr) { copy(dst, v.ToMontgomeryBytes()[:]) }

func getFr(src []byte) (field.Fr, error) {
	v, ok := field.FromMontgomeryBytes(src)
	if !ok {
		return field.Fr{}, fmt.Errorf("accounts: non-canonical Montgomery scalar in state account")
	}
	return v, nil
}

// Encode serializes a verification state to its fixed-size on-chain
// representation. Every Fr is written Montgomery-raw, matching the
// in-memory representation exactly: no conversion happens on the way
// in or out of an account, since the state is reloaded fresh by every
// instruction in the pipeline.
func Encode(s *verifier.State) []byte {
	out := make([]byte, StateSize)
	off := 0

	out[off] = byte(s.Phase)
	off++
	binary.LittleEndian.PutUint64(out[off:off+8], s.LogN)
	off += 8
	out[off] = s.NextRound
	off++
	copy(out[off:off+32], s.TranscriptPrev[:])
	off += 32

	for i := 0; i < relations.NumAlphas; i++ {
		putFr(out[off:off+32], s.Alpha[i])
		off += 32
	}
	for i := 0; i < sumcheck.MaxRounds; i++ {
		putFr(out[off:off+32], s.GateChal[i])
		off += 32
	}

	for _, v := range []field.Fr{s.Beta, s.Gamma, s.Eta, s.Eta2, s.Eta3, s.Rho, s.LibraChallenge, s.GeminiR, s.ShplonkNu} {
		putFr(out[off:off+32], v)
		off += 32
	}
	putFr(out[off:off+32], s.ShplonkZ)
	off += 32

	for i := 0; i < sumcheck.MaxRounds; i++ {
		putFr(out[off:off+32], s.U[i])
		off += 32
	}
	putFr(out[off:off+32], s.Target)
	off += 32
	putFr(out[off:off+32], s.PowPartial)
	off += 32

	for _, v := range []field.Fr{s.PublicInputsDelta, s.Grand, s.BatchedEval} {
		putFr(out[off:off+32], v)
		off += 32
	}

	for i := 0; i < maxRhoPows; i++ {
		if i < len(s.RhoPows) {
			putFr(out[off:off+32], s.RhoPows[i])
		}
		off += 32
	}

	putFr(out[off:off+32], s.ShplonkPos0)
	off += 32
	putFr(out[off:off+32], s.ShplonkNeg0)
	off += 32

	for _, slice := range [][]field.Fr{s.FoldScalar, s.InvPlus, s.InvMinus} {
		for i := 0; i < maxGeminiFolds; i++ {
			if i < len(slice) {
				putFr(out[off:off+32], slice[i])
			}
			off += 32
		}
	}

	for i := 0; i < 2; i++ {
		if i < len(s.InvLibraZR) {
			putFr(out[off:off+32], s.InvLibraZR[i])
		}
		off += 32
	}

	p0 := s.P0.Bytes()
	copy(out[off:off+64], p0[:])
	off += 64
	p1 := s.P1.Bytes()
	copy(out[off:off+64], p1[:])
	off += 64

	if s.Verified {
		out[off] = 1
	}
	off++

	return out
}

// Decode reverses Encode, reconstructing a verification state from its
// fixed-size on-chain representation. Zero-valued slice slots (beyond
// whatever length the encoding pass actually populated) decode as
// field.Zero() and are trimmed by the caller once it knows log_n from
// the decoded header, since Decode itself has no way to tell a
// genuinely-zero scalar from an unused slot.
func Decode(raw []byte) (*verifier.State, error) {
	if len(raw) != StateSize {
		return nil, fmt.Errorf("accounts: state account must be %d bytes, got %d", StateSize, len(raw))
	}
	s := &verifier.State{}
	off := 0

	s.Phase = verifier.Phase(raw[off])
	off++
	s.LogN = binary.LittleEndian.Uint64(raw[off : off+8])
	off += 8
	s.NextRound = raw[off]
	off++
	copy(s.TranscriptPrev[:], raw[off:off+32])
	off += 32

	var err error
	for i := 0; i < relations.NumAlphas; i++ {
		if s.Alpha[i], err = getFr(raw[off : off+32]); err != nil {
			return nil, err
		}
		off += 32
	}
	for i := 0; i < sumcheck.MaxRounds; i++ {
		if s.GateChal[i], err = getFr(raw[off : off+32]); err != nil {
			return nil, err
		}
		off += 32
	}

	fields := []*field.Fr{&s.Beta, &s.Gamma, &s.Eta, &s.Eta2, &s.Eta3, &s.Rho, &s.LibraChallenge, &s.GeminiR, &s.ShplonkNu}
	for _, f := range fields {
		if *f, err = getFr(raw[off : off+32]); err != nil {
			return nil, err
		}
		off += 32
	}
	if s.ShplonkZ, err = getFr(raw[off : off+32]); err != nil {
		return nil, err
	}
	off += 32

	for i := 0; i < sumcheck.MaxRounds; i++ {
		if s.U[i], err = getFr(raw[off : off+32]); err != nil {
			return nil, err
		}
		off += 32
	}
	if s.Target, err = getFr(raw[off : off+32]); err != nil {
		return nil, err
	}
	off += 32
	if s.PowPartial, err = getFr(raw[off : off+32]); err != nil {
		return nil, err
	}
	off += 32

	deltaFields := []*field.Fr{&s.PublicInputsDelta, &s.Grand, &s.BatchedEval}
	for _, f := range deltaFields {
		if *f, err = getFr(raw[off : off+32]); err != nil {
			return nil, err
		}
		off += 32
	}

	s.RhoPows = make([]field.Fr, maxRhoPows)
	for i := 0; i < maxRhoPows; i++ {
		if s.RhoPows[i], err = getFr(raw[off : off+32]); err != nil {
			return nil, err
		}
		off += 32
	}

	if s.ShplonkPos0, err = getFr(raw[off : off+32]); err != nil {
		return nil, err
	}
	off += 32
	if s.ShplonkNeg0, err = getFr(raw[off : off+32]); err != nil {
		return nil, err
	}
	off += 32

	slices := []*[]field.Fr{&s.FoldScalar, &s.InvPlus, &s.InvMinus}
	for _, slicePtr := range slices {
		*slicePtr = make([]field.Fr, maxGeminiFolds)
		for i := 0; i < maxGeminiFolds; i++ {
			if (*slicePtr)[i], err = getFr(raw[off : off+32]); err != nil {
				return nil, err
			}
			off += 32
		}
	}

	s.InvLibraZR = make([]field.Fr, 2)
	for i := 0; i < 2; i++ {
		if s.InvLibraZR[i], err = getFr(raw[off : off+32]); err != nil {
			return nil, err
		}
		off += 32
	}

	p0, err := curve.G1FromBytes(raw[off : off+64])
	if err != nil {
		return nil, err
	}
	s.P0 = p0
	off += 64
	p1, err := curve.G1FromBytes(raw[off : off+64])
	if err != nil {
		return nil, err
	}
	s.P1 = p1
	off += 64

	s.Verified = raw[off] != 0
	off++

	return s, nil
}
