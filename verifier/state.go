package verifier

import (
	"github.com/nicolaslara/solana-noir-verifier/curve"
	"github.com/nicolaslara/solana-noir-verifier/field"
	"github.com/nicolaslara/solana-noir-verifier/relations"
	"github.com/nicolaslara/solana-noir-verifier/sumcheck"
)

// State is the mutable per-proof structure persisted across
// transactions. Every Fr is stored Montgomery-resident (no per-handler
// conversion); the transcript's rolling challenge is the one piece of
// Fiat-Shamir state that must survive between phases, since challenges
// are squeezed across many separate instructions.
type State struct {
	Phase          Phase
	LogN           uint64
	NextRound      uint8
	TranscriptPrev [32]byte

	Alpha    [relations.NumAlphas]field.Fr
	GateChal [sumcheck.MaxRounds]field.Fr

	Beta, Gamma            field.Fr
	Eta, Eta2, Eta3        field.Fr
	Rho                    field.Fr
	LibraChallenge         field.Fr
	GeminiR                field.Fr
	ShplonkNu              field.Fr
	ShplonkZ               field.Fr

	U          [sumcheck.MaxRounds]field.Fr
	Target     field.Fr
	PowPartial field.Fr

	PublicInputsDelta field.Fr
	Grand             field.Fr
	BatchedEval       field.Fr

	RhoPows               []field.Fr
	ShplonkPos0, ShplonkNeg0 field.Fr

	FoldScalar []field.Fr
	InvPlus    []field.Fr
	InvMinus   []field.Fr
	InvLibraZR []field.Fr

	P0 curve.G1
	P1 curve.G1

	Verified bool
}

// New returns a fresh verification state at phase Setup.
func New() *State {
	return &State{Phase: PhaseSetup}
}

// requirePhase asserts the state is in the expected phase before a
// handler does any work, the guard that keeps transitions strictly
// linear even if a client replays or races instructions.
func (s *State) requirePhase(want Phase) error {
	if s.Phase != want {
		return errPhaseMismatch(want, s.Phase)
	}
	return nil
}
