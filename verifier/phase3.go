package verifier

import (
	"fmt"

	"github.com/nicolaslara/solana-noir-verifier/field"
	"github.com/nicolaslara/solana-noir-verifier/proof"
	"github.com/nicolaslara/solana-noir-verifier/relations"
	"github.com/nicolaslara/solana-noir-verifier/shplemini"
	"github.com/nicolaslara/solana-noir-verifier/transcript"
	"github.com/nicolaslara/solana-noir-verifier/verifiererrors"
)

// Phase2dRelations checks the 26 subrelations against the sumcheck
// target reached by the final round, then absorbs everything the proof
// commits to after sumcheck (evaluations, Gemini fold commitments,
// Gemini/small-IPA evaluations, the Shplonk quotient) to derive the
// four challenges Shplemini's batching needs: rho, the Gemini fold
// challenge, and the Shplonk nu/z pair.
func (s *State) Phase2dRelations(p proof.View) error {
	if err := s.requirePhase(PhaseRelationsAndWeights); err != nil {
		return err
	}

	ent, err := relations.Load(p)
	if err != nil {
		return wrapErr(verifiererrors.CodeInvalidProofSize, "loading evaluations", err)
	}
	libraEval, err := p.LibraEval()
	if err != nil {
		return wrapErr(verifiererrors.CodeInvalidProofSize, "libra eval", err)
	}

	c := relations.Challenges{
		Beta: s.Beta, Gamma: s.Gamma,
		Eta: s.Eta, Eta2: s.Eta2, Eta3: s.Eta3,
		Alpha:             s.Alpha,
		PublicInputsDelta: s.PublicInputsDelta,
	}
	grand := relations.Evaluate(ent, c)
	expected := field.Sub(field.Mul(s.Target, s.PowPartial), field.Mul(libraEval, s.LibraChallenge))
	if !grand.Equal(expected) {
		s.Phase = PhaseFailed
		return verifiererrors.New(verifiererrors.CodeRelationMismatch,
			fmt.Errorf("accumulated subrelations do not match the sumcheck target"))
	}
	s.Grand = grand

	tr := transcript.Resume(s.TranscriptPrev)
	for idx := 0; idx < proof.NumEvaluations; idx++ {
		v, err := p.Evaluation(idx)
		if err != nil {
			return wrapErr(verifiererrors.CodeInvalidProofSize, "evaluation", err)
		}
		tr.AppendFr(v)
	}
	tr.AppendFr(libraEval)
	rho, _ := tr.SplitChallenge()

	numFolds := int(s.LogN) - 1
	for idx := 0; idx < numFolds; idx++ {
		gc, err := p.GeminiFoldCommitment(idx)
		if err != nil {
			return wrapErr(verifiererrors.CodeInvalidProofSize, "gemini fold commitment", err)
		}
		tr.AppendG1(gc)
	}
	geminiR, _ := tr.SplitChallenge()

	for idx := 0; idx < int(s.LogN); idx++ {
		ge, err := p.GeminiEval(idx)
		if err != nil {
			return wrapErr(verifiererrors.CodeInvalidProofSize, "gemini eval", err)
		}
		tr.AppendFr(ge)
	}
	for idx := 0; idx < 2; idx++ {
		se, err := p.SmallIPAEval(idx)
		if err != nil {
			return wrapErr(verifiererrors.CodeInvalidProofSize, "small ipa eval", err)
		}
		tr.AppendFr(se)
	}
	shplonkNu, _ := tr.SplitChallenge()

	shplonkQ, err := p.ShplonkQ()
	if err != nil {
		return wrapErr(verifiererrors.CodeInvalidProofSize, "shplonk q", err)
	}
	sqBytes := shplonkQ.Bytes()
	tr.Append(sqBytes[:])
	shplonkZ, _ := tr.SplitChallenge()

	s.Rho = rho
	s.GeminiR = geminiR
	s.ShplonkNu = shplonkNu
	s.ShplonkZ = shplonkZ
	s.TranscriptPrev = tr.Prev()
	return nil
}

// Phase3aWeights computes the closed-form scalar tables Shplemini's
// later MSM consumes: consecutive rho powers, the batched evaluation
// value they combine to, and the fixed (z-1)^-1/(z+1)^-1 Shplonk
// weights. Purely arithmetic over already-derived challenges, no
// transcript work.
func (s *State) Phase3aWeights(p proof.View) error {
	if err := s.requirePhase(PhaseRelationsAndWeights); err != nil {
		return err
	}

	pos0, neg0, err := shplemini.ShplonkWeights(s.ShplonkZ)
	if err != nil {
		s.Phase = PhaseFailed
		return wrapErr(verifiererrors.CodeInversionFailure, "shplonk weights", err)
	}

	rhoPows := shplemini.RhoPowers(s.Rho, proof.NumEvaluations)
	evals := make([]field.Fr, proof.NumEvaluations)
	for idx := 0; idx < proof.NumEvaluations; idx++ {
		v, err := p.Evaluation(idx)
		if err != nil {
			return wrapErr(verifiererrors.CodeInvalidProofSize, "evaluation", err)
		}
		evals[idx] = v
	}
	batched, err := shplemini.BatchedEvaluationValue(evals, rhoPows)
	if err != nil {
		return wrapErr(verifiererrors.CodeInversionFailure, "batched evaluation", err)
	}

	s.ShplonkPos0, s.ShplonkNeg0 = pos0, neg0
	s.RhoPows = rhoPows
	s.BatchedEval = batched
	s.Phase = PhaseFoldAndGemini
	return nil
}
