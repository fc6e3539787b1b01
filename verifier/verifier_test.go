package verifier_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicolaslara/solana-noir-verifier/field"
	"github.com/nicolaslara/solana-noir-verifier/proof"
	"github.com/nicolaslara/solana-noir-verifier/verifier"
	"github.com/nicolaslara/solana-noir-verifier/verifiererrors"
	"github.com/nicolaslara/solana-noir-verifier/vk"
)

func zeroVK(logN uint64) vk.View {
	raw := make([]byte, vk.Size)
	binary.LittleEndian.PutUint64(raw[0:8], 1<<logN)
	binary.LittleEndian.PutUint64(raw[8:16], logN)
	binary.LittleEndian.PutUint64(raw[16:24], 1)
	binary.LittleEndian.PutUint64(raw[24:32], 0)
	v, err := vk.New(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func zeroProof() proof.View {
	v, err := proof.New(make([]byte, proof.Size))
	if err != nil {
		panic(err)
	}
	return v
}

func TestPhase2RoundsRejectsWrongPhase(t *testing.T) {
	s := verifier.New()
	err := s.Phase2Rounds(0, 28, zeroProof())
	require.Error(t, err)
	var ve verifiererrors.Error
	require.ErrorAs(t, err, &ve)
	require.Equal(t, verifiererrors.CodePhaseMismatch, ve.Code)
}

func TestPhase1AdvancesToChallenges(t *testing.T) {
	s := verifier.New()
	err := s.Phase1(zeroVK(2), zeroProof(), []field.Fr{field.Zero()})
	require.NoError(t, err)
	require.Equal(t, verifier.PhaseChallenges, s.Phase)
	require.Equal(t, uint64(2), s.LogN)
}

func TestPhase1RejectsPublicInputCountMismatch(t *testing.T) {
	s := verifier.New()
	err := s.Phase1(zeroVK(2), zeroProof(), nil)
	require.Error(t, err)
}

func TestFullPipelineFailsRelationCheckOnZeroProof(t *testing.T) {
	s := verifier.New()
	p := zeroProof()

	require.NoError(t, s.Phase1(zeroVK(2), p, []field.Fr{field.Zero()}))
	require.NoError(t, s.Phase2Rounds(0, 28, p))
	require.Equal(t, verifier.PhaseRelationsAndWeights, s.Phase)

	err := s.Phase2dRelations(p)
	require.Error(t, err)
	var ve verifiererrors.Error
	require.ErrorAs(t, err, &ve)
	require.Equal(t, verifiererrors.CodeRelationMismatch, ve.Code)
	require.Equal(t, verifier.PhaseFailed, s.Phase)
}

func TestPhase2RoundsChunking(t *testing.T) {
	s := verifier.New()
	p := zeroProof()
	require.NoError(t, s.Phase1(zeroVK(3), p, []field.Fr{field.Zero()}))

	require.NoError(t, s.Phase2Rounds(0, 10, p))
	require.Equal(t, verifier.PhaseSumcheckRounds, s.Phase)
	require.Equal(t, uint8(10), s.NextRound)

	require.NoError(t, s.Phase2Rounds(10, 28, p))
	require.Equal(t, verifier.PhaseRelationsAndWeights, s.Phase)
}

func TestPhase2RoundsRejectsOutOfOrderStart(t *testing.T) {
	s := verifier.New()
	p := zeroProof()
	require.NoError(t, s.Phase1(zeroVK(3), p, []field.Fr{field.Zero()}))
	err := s.Phase2Rounds(5, 28, p)
	require.Error(t, err)
}
