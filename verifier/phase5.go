package verifier

import (
	"github.com/nicolaslara/solana-noir-verifier/curve"
	"github.com/nicolaslara/solana-noir-verifier/field"
	"github.com/nicolaslara/solana-noir-verifier/proof"
	"github.com/nicolaslara/solana-noir-verifier/shplemini"
	"github.com/nicolaslara/solana-noir-verifier/verifiererrors"
	"github.com/nicolaslara/solana-noir-verifier/vk"
)

// witnessEvalIdx maps a proof witness-commitment slot to the
// evaluation index it claims a value at unshifted, in wire order.
var witnessEvalIdx = [8]int{
	proof.WitnessW1:         proof.EvalW1,
	proof.WitnessW2:         proof.EvalW2,
	proof.WitnessW3:         proof.EvalW3,
	proof.WitnessReadCounts: proof.EvalReadCounts,
	proof.WitnessReadTags:   proof.EvalReadTags,
	proof.WitnessW4:         proof.EvalW4,
	proof.WitnessLookupInv:  proof.EvalLookupInv,
	proof.WitnessZPerm:      proof.EvalZPerm,
}

// shiftedWitness pairs a witness-commitment slot with the evaluation
// index its shift claims a value at; the shift of a wire is never
// separately committed, it reuses the unshifted commitment.
var shiftedWitness = []struct {
	witnessIdx int
	evalIdx    int
}{
	{proof.WitnessW1, proof.EvalWL},
	{proof.WitnessW2, proof.EvalWR},
	{proof.WitnessW3, proof.EvalWO},
	{proof.WitnessW4, proof.EvalW4Shift},
	{proof.WitnessZPerm, proof.EvalZPermShift},
}

// Phase3cMSM runs the unshifted/shifted half of Step D: accumulates the
// verification key's 27 commitments and the proof's 8 witness
// commitments (unshifted and shifted) into the running P0
// multi-scalar-multiplication, weighted by rho powers and the fixed
// Shplonk (z-1)^-1/(z+1)^-1 pair.
func (s *State) Phase3cMSM(vkView vk.View, p proof.View) error {
	if err := s.requirePhase(PhaseMSMAndPairing); err != nil {
		return err
	}

	var terms []shplemini.WeightedTerm
	for k := 0; k < vk.NumCommitments; k++ {
		c, err := vkView.Commitment(k)
		if err != nil {
			return wrapErr(verifiererrors.CodeMalformedPoint, "vk commitment", err)
		}
		scalar := field.Mul(s.RhoPows[proof.EvalQM+k], s.ShplonkPos0)
		terms = append(terms, shplemini.WeightedTerm{Commitment: c, Scalar: scalar})
	}

	witnessCommits := make([]curve.G1, 8)
	for idx, evalIdx := range witnessEvalIdx {
		c, err := p.WitnessCommitment(idx)
		if err != nil {
			return wrapErr(verifiererrors.CodeMalformedPoint, "witness commitment", err)
		}
		witnessCommits[idx] = c
		scalar := field.Mul(s.RhoPows[evalIdx], s.ShplonkPos0)
		terms = append(terms, shplemini.WeightedTerm{Commitment: c, Scalar: scalar})
	}
	for _, sw := range shiftedWitness {
		scalar := field.Mul(s.RhoPows[sw.evalIdx], s.ShplonkNeg0)
		terms = append(terms, shplemini.WeightedTerm{Commitment: witnessCommits[sw.witnessIdx], Scalar: scalar})
	}

	s.P0 = shplemini.Accumulate(terms)
	return nil
}

// Phase3cAndPairing finishes Step D with the Gemini-fold and ZK
// commitments, folds in Step E's constant-term adjustment, and
// computes Step F's final opening point from the proof's KZG witness.
// The pairing check itself is left to Phase4Pairing so a client can
// retry just the syscall without repaying this MSM.
func (s *State) Phase3cAndPairing(p proof.View) error {
	if err := s.requirePhase(PhaseMSMAndPairing); err != nil {
		return err
	}
	numFolds := int(s.LogN) - 1
	if len(s.FoldScalar) != numFolds {
		return verifiererrors.New(verifiererrors.CodeMissingChunks,
			errGeminiFoldsMissing)
	}

	nuPows := shplemini.RPows(s.ShplonkNu, numFolds+4)
	var terms []shplemini.WeightedTerm
	for j := 1; j <= numFolds; j++ {
		c, err := p.GeminiFoldCommitment(j - 1)
		if err != nil {
			return wrapErr(verifiererrors.CodeMalformedPoint, "gemini fold commitment", err)
		}
		weight := field.Mul(s.FoldScalar[j-1],
			field.Mul(field.Add(s.InvPlus[j-1], s.InvMinus[j-1]), nuPows[j]))
		terms = append(terms, shplemini.WeightedTerm{Commitment: c, Scalar: weight})
	}

	zkCommits := make([]curve.G1, 4)
	var err error
	zkCommits[0], err = p.LibraConcat()
	if err != nil {
		return wrapErr(verifiererrors.CodeMalformedPoint, "libra concat", err)
	}
	zkCommits[1], err = p.LibraGrandSumComm()
	if err != nil {
		return wrapErr(verifiererrors.CodeMalformedPoint, "libra grand sum", err)
	}
	zkCommits[2], err = p.LibraQuotientComm()
	if err != nil {
		return wrapErr(verifiererrors.CodeMalformedPoint, "libra quotient", err)
	}
	zkCommits[3], err = p.GeminiMaskingComm()
	if err != nil {
		return wrapErr(verifiererrors.CodeMalformedPoint, "gemini masking", err)
	}
	libraDenom := field.Add(s.InvLibraZR[0], s.InvLibraZR[1])
	for i, c := range zkCommits {
		weight := field.Mul(libraDenom, nuPows[numFolds+1+i])
		terms = append(terms, shplemini.WeightedTerm{Commitment: c, Scalar: weight})
	}

	p0 := shplemini.Accumulate(terms)
	p0 = curve.Add(s.P0, p0)

	constantTerm := field.Mul(s.ShplonkPos0, s.BatchedEval)
	p0 = shplemini.AddConstantTerm(p0, constantTerm)

	kzgW, err := p.KZGW()
	if err != nil {
		return wrapErr(verifiererrors.CodeMalformedPoint, "kzg w", err)
	}
	s.P0 = p0
	s.P1 = shplemini.FinalOpeningPoint(kzgW)
	return nil
}

// Phase4Pairing performs Step G: the single pairing check that closes
// out verification. On success the receipt-eligible Verified flag is
// set and the state moves to Complete; on failure it moves to Failed.
func (s *State) Phase4Pairing() error {
	if err := s.requirePhase(PhaseMSMAndPairing); err != nil {
		return err
	}

	ok, err := shplemini.PairingCheck(s.P0, s.P1)
	if err != nil {
		s.Phase = PhaseFailed
		return wrapErr(verifiererrors.CodeSyscallFailure, "pairing check", err)
	}
	if !ok {
		s.Phase = PhaseFailed
		return verifiererrors.ErrPairingFailed
	}

	s.Verified = true
	s.Phase = PhaseComplete
	return nil
}
