package relations

import "github.com/nicolaslara/solana-noir-verifier/field"

// NumAlphas is the number of independently-sampled alpha challenges;
// alpha_0 = 1 is implicit and never transmitted.
const NumAlphas = 25

// NumSubrelations is the total subrelation count (R0..R25).
const NumSubrelations = 26

// Challenges bundles the relation-family inputs the transcript derives
// ahead of the relations pass: the permutation/lookup randomizers and
// the 25 sampled batching powers.
type Challenges struct {
	Beta, Gamma       field.Fr
	Eta, Eta2, Eta3   field.Fr
	Alpha             [NumAlphas]field.Fr
	PublicInputsDelta field.Fr
}

// PublicInputsDelta computes the permutation argument's public-input
// correction term. Iteration runs over the pairing-point object entries
// followed by the user's public inputs, in that order; circuitSize and
// pubInputsOffset come from the verification key header.
func PublicInputsDelta(pairingPoint []field.Fr, publicInputs []field.Fr, beta, gamma field.Fr, circuitSize, pubInputsOffset uint64) (field.Fr, error) {
	all := make([]field.Fr, 0, len(pairingPoint)+len(publicInputs))
	all = append(all, pairingPoint...)
	all = append(all, publicInputs...)

	num := field.One()
	denoms := make([]field.Fr, len(all))
	for k := range all {
		idxTerm := field.FromUint64(circuitSize + pubInputsOffset + uint64(k))
		numFactor := field.Add(gamma, field.Mul(beta, idxTerm))
		num = field.Mul(num, numFactor)

		denomIdxTerm := field.FromUint64(pubInputsOffset + 1 + uint64(k))
		denoms[k] = field.Sub(gamma, field.Mul(beta, denomIdxTerm))
	}

	invDenoms, ok := field.BatchInv(denoms)
	if !ok {
		return field.Fr{}, errInversion
	}
	denom := field.One()
	for _, d := range invDenoms {
		denom = field.Mul(denom, d)
	}
	return field.Mul(num, denom), nil
}
