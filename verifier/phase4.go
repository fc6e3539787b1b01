package verifier

import (
	"fmt"

	"github.com/nicolaslara/solana-noir-verifier/shplemini"
	"github.com/nicolaslara/solana-noir-verifier/verifiererrors"
)

// Phase3b1Folding runs Gemini's Step C: builds the per-round folding
// scalars and batch-inverts every Gemini/libra denominator in one call.
// This is the expensive half of the Gemini stage; Phase3b2Gemini that
// follows is cheap by comparison.
func (s *State) Phase3b1Folding() error {
	if err := s.requirePhase(PhaseFoldAndGemini); err != nil {
		return err
	}

	n := int(s.LogN)
	rPows := shplemini.RPows(s.GeminiR, n)
	folds, err := shplemini.ComputeGeminiFolds(n, s.U[:n-1], rPows, s.ShplonkZ, s.GeminiR)
	if err != nil {
		s.Phase = PhaseFailed
		return wrapErr(verifiererrors.CodeInversionFailure, "gemini folds", err)
	}

	s.FoldScalar = folds.FoldScalar
	s.InvPlus = folds.InvPlus
	s.InvMinus = folds.InvMinus
	s.InvLibraZR = folds.InvLibraZR
	return nil
}

// Phase3b2Gemini confirms the folding scalars were populated and hands
// the state machine over to the MSM/pairing stage. It does no further
// transcript or curve work of its own.
func (s *State) Phase3b2Gemini() error {
	if err := s.requirePhase(PhaseFoldAndGemini); err != nil {
		return err
	}
	if int(s.LogN)-1 != len(s.FoldScalar) {
		return verifiererrors.New(verifiererrors.CodeMissingChunks,
			fmt.Errorf("gemini fold scalars not yet computed for this log_n"))
	}
	s.Phase = PhaseMSMAndPairing
	return nil
}
