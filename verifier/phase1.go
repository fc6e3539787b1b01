package verifier

import (
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/nicolaslara/solana-noir-verifier/field"
	"github.com/nicolaslara/solana-noir-verifier/proof"
	"github.com/nicolaslara/solana-noir-verifier/relations"
	"github.com/nicolaslara/solana-noir-verifier/sumcheck"
	"github.com/nicolaslara/solana-noir-verifier/transcript"
	"github.com/nicolaslara/solana-noir-verifier/verifiererrors"
	"github.com/nicolaslara/solana-noir-verifier/vk"
)

// Phase1 runs the Challenges phase: absorbs the verification key,
// public inputs and the pre-sumcheck proof commitments in wire order,
// and derives in one pass the challenges needed up to sumcheck (eta,
// beta/gamma, the alphas, the libra challenge and the gate challenges);
// the round challenges and the post-sumcheck challenges are squeezed by
// later phases. This is the only handler that builds a transcript from scratch;
// every later phase resumes it from the persisted Prev value.
func (s *State) Phase1(vkView vk.View, p proof.View, publicInputs []field.Fr) error {
	if err := s.requirePhase(PhaseSetup); err != nil {
		return err
	}

	logN := vkView.LogCircuitSize()
	if logN == 0 || logN > sumcheck.MaxRounds {
		return verifiererrors.New(verifiererrors.CodeInvalidLogN,
			fmt.Errorf("log_n %d out of range", logN))
	}
	if uint64(len(publicInputs)) != vkView.NumPublicInputs() {
		return verifiererrors.New(verifiererrors.CodeInvalidLogN,
			fmt.Errorf("got %d public inputs, verification key expects %d", len(publicInputs), vkView.NumPublicInputs()))
	}

	tr := transcript.New()

	vkHash := sha3.Sum256(vkView.Raw())
	tr.Append(vkHash[:])
	tr.AppendU64(vkView.CircuitSize())
	tr.AppendU64(logN)
	tr.AppendU64(vkView.NumPublicInputs())
	tr.AppendU64(vkView.PubInputsOffset())
	pairingPoint := make([]field.Fr, 16)
	for i := range pairingPoint {
		pp, err := p.PairingPoint(i)
		if err != nil {
			return wrapErr(verifiererrors.CodeInvalidProofSize, "pairing point", err)
		}
		pairingPoint[i] = pp
		tr.AppendFr(pp)
	}
	for _, pi := range publicInputs {
		tr.AppendFr(pi)
	}

	w1, err := p.WitnessCommitment(proof.WitnessW1)
	if err != nil {
		return wrapErr(verifiererrors.CodeInvalidProofSize, "w1", err)
	}
	w2, err := p.WitnessCommitment(proof.WitnessW2)
	if err != nil {
		return wrapErr(verifiererrors.CodeInvalidProofSize, "w2", err)
	}
	w3, err := p.WitnessCommitment(proof.WitnessW3)
	if err != nil {
		return wrapErr(verifiererrors.CodeInvalidProofSize, "w3", err)
	}
	tr.AppendG1(w1)
	tr.AppendG1(w2)
	tr.AppendG1(w3)
	eta, eta2 := tr.SplitChallenge()
	eta3, _ := tr.SplitChallenge()

	readCounts, err := p.WitnessCommitment(proof.WitnessReadCounts)
	if err != nil {
		return wrapErr(verifiererrors.CodeInvalidProofSize, "read_counts", err)
	}
	readTags, err := p.WitnessCommitment(proof.WitnessReadTags)
	if err != nil {
		return wrapErr(verifiererrors.CodeInvalidProofSize, "read_tags", err)
	}
	w4, err := p.WitnessCommitment(proof.WitnessW4)
	if err != nil {
		return wrapErr(verifiererrors.CodeInvalidProofSize, "w4", err)
	}
	tr.AppendG1(readCounts)
	tr.AppendG1(readTags)
	tr.AppendG1(w4)
	beta, gamma := tr.SplitChallenge()

	lookupInv, err := p.WitnessCommitment(proof.WitnessLookupInv)
	if err != nil {
		return wrapErr(verifiererrors.CodeInvalidProofSize, "lookup_inv", err)
	}
	zPerm, err := p.WitnessCommitment(proof.WitnessZPerm)
	if err != nil {
		return wrapErr(verifiererrors.CodeInvalidProofSize, "z_perm", err)
	}
	tr.AppendG1(lookupInv)
	tr.AppendG1(zPerm)

	var alphaCandidates [2 * 13]field.Fr
	for i := 0; i < 13; i++ {
		lo, hi := tr.SplitChallenge()
		alphaCandidates[2*i] = lo
		alphaCandidates[2*i+1] = hi
	}
	var alphas [relations.NumAlphas]field.Fr
	copy(alphas[:], alphaCandidates[:relations.NumAlphas])

	libraConcat, err := p.LibraConcat()
	if err != nil {
		return wrapErr(verifiererrors.CodeInvalidProofSize, "libra_concat", err)
	}
	libraSum, err := p.LibraSum()
	if err != nil {
		return wrapErr(verifiererrors.CodeInvalidProofSize, "libra_sum", err)
	}
	tr.AppendG1(libraConcat)
	tr.AppendFr(libraSum)
	libraChallenge, _ := tr.SplitChallenge()

	var gateChal [sumcheck.MaxRounds]field.Fr
	for r := 0; r < sumcheck.MaxRounds; r++ {
		h := tr.ChainPrev()
		lo, _ := field.SplitChallenge(h)
		gateChal[r] = lo
	}

	piDelta, err := relations.PublicInputsDelta(pairingPoint, publicInputs, beta, gamma,
		vkView.CircuitSize(), vkView.PubInputsOffset())
	if err != nil {
		return wrapErr(verifiererrors.CodeInversionFailure, "public inputs delta", err)
	}

	s.LogN = logN
	s.Alpha = alphas
	s.GateChal = gateChal
	s.Beta, s.Gamma = beta, gamma
	s.Eta, s.Eta2, s.Eta3 = eta, eta2, eta3
	s.LibraChallenge = libraChallenge
	s.PublicInputsDelta = piDelta

	// The initial sumcheck target is the ZK masking sum the prover
	// commits to up front; round 0's check is against this value rather
	// than zero.
	s.Target = libraSum
	s.PowPartial = field.One()
	s.NextRound = 0
	s.TranscriptPrev = tr.Prev()
	s.Phase = PhaseChallenges
	return nil
}
