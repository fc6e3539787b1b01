package verifier

import (
	"fmt"

	"github.com/nicolaslara/solana-noir-verifier/proof"
	"github.com/nicolaslara/solana-noir-verifier/sumcheck"
	"github.com/nicolaslara/solana-noir-verifier/transcript"
	"github.com/nicolaslara/solana-noir-verifier/verifiererrors"
)

// Phase2Rounds advances the sumcheck reduction by the rounds
// [start,end). A client chunks the 28 rounds across as many calls as
// its compute budget needs; the engine is rebuilt from persisted state
// each call and nothing round-related is cached beyond State itself.
func (s *State) Phase2Rounds(start, end int, p proof.View) error {
	if s.Phase != PhaseChallenges && s.Phase != PhaseSumcheckRounds {
		return errPhaseMismatch(PhaseSumcheckRounds, s.Phase)
	}
	if start != int(s.NextRound) {
		return verifiererrors.Newf(verifiererrors.CodePhaseMismatch,
			"expected next sumcheck round %d, got start %d", s.NextRound, start)
	}
	if end <= start || end > sumcheck.MaxRounds {
		return verifiererrors.New(verifiererrors.CodeInvalidLogN,
			fmt.Errorf("invalid round range [%d,%d)", start, end))
	}

	tr := transcript.Resume(s.TranscriptPrev)
	eng := &sumcheck.Engine{
		LogN:       s.LogN,
		GateChal:   s.GateChal,
		Target:     s.Target,
		PowPartial: s.PowPartial,
		U:          s.U,
	}
	for r := start; r < end; r++ {
		if err := eng.Step(r, p, tr); err != nil {
			s.Phase = PhaseFailed
			return wrapErr(verifiererrors.CodeSumcheckConsistency, fmt.Sprintf("round %d", r), err)
		}
	}

	s.U = eng.U
	s.Target = eng.Target
	s.PowPartial = eng.PowPartial
	s.TranscriptPrev = tr.Prev()
	s.NextRound = uint8(end)

	if end == sumcheck.MaxRounds {
		s.Phase = PhaseRelationsAndWeights
	} else {
		s.Phase = PhaseSumcheckRounds
	}
	return nil
}
