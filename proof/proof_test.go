package proof_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicolaslara/solana-noir-verifier/field"
	"github.com/nicolaslara/solana-noir-verifier/proof"
)

func zeroProofBytes() []byte {
	return make([]byte, proof.Size)
}

func TestNewRejectsWrongSize(t *testing.T) {
	_, err := proof.New(make([]byte, proof.Size-1))
	require.Error(t, err)
}

func TestNewAcceptsZeroProof(t *testing.T) {
	v, err := proof.New(zeroProofBytes())
	require.NoError(t, err)

	pp, err := v.PairingPoint(0)
	require.NoError(t, err)
	require.True(t, pp.IsZero())

	w, err := v.WitnessCommitment(proof.WitnessW1)
	require.NoError(t, err)
	require.Equal(t, [64]byte{}, w.Bytes())

	coeff, err := v.SumcheckRoundCoeff(0, 0)
	require.NoError(t, err)
	require.True(t, coeff.IsZero())
}

func TestEvaluationBounds(t *testing.T) {
	v, err := proof.New(zeroProofBytes())
	require.NoError(t, err)

	_, err = v.Evaluation(-1)
	require.Error(t, err)
	_, err = v.Evaluation(proof.NumEvaluations)
	require.Error(t, err)

	e, err := v.Evaluation(proof.EvalW1)
	require.NoError(t, err)
	require.Equal(t, field.Zero(), e)
}
