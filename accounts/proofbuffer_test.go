package accounts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicolaslara/solana-noir-verifier/field"
	"github.com/nicolaslara/solana-noir-verifier/proof"
)

func TestProofBufferRejectsWrongSize(t *testing.T) {
	_, err := NewProofBuffer(make([]byte, ProofBufferSize-1))
	require.Error(t, err)
}

func TestProofBufferFullUploadLifecycle(t *testing.T) {
	buf, err := NewProofBuffer(make([]byte, ProofBufferSize))
	require.NoError(t, err)

	require.NoError(t, buf.InitBuffer(2))
	require.Equal(t, ProofUploading, buf.Status())

	pis := []field.Fr{field.FromUint64(1), field.FromUint64(2)}
	require.NoError(t, buf.SetPublicInputs(pis))
	got, err := buf.PublicInputs()
	require.NoError(t, err)
	require.Equal(t, pis, got)

	proofBytes := make([]byte, proof.Size)
	for i := 0; i < NumChunks; i++ {
		start := i * ChunkSize
		end := start + ChunkSize
		if end > proof.Size {
			end = proof.Size
		}
		require.NoError(t, buf.UploadChunk(i, proofBytes[start:end]))
	}

	require.True(t, buf.Ready())
	view, err := buf.View()
	require.NoError(t, err)
	_, err = view.LibraSum()
	require.NoError(t, err)
}

func TestProofBufferNotReadyUntilAllChunksPresent(t *testing.T) {
	buf, err := NewProofBuffer(make([]byte, ProofBufferSize))
	require.NoError(t, err)
	require.NoError(t, buf.InitBuffer(0))
	require.NoError(t, buf.SetPublicInputs(nil))

	require.NoError(t, buf.UploadChunk(0, make([]byte, ChunkSize)))
	require.False(t, buf.Ready())
}

func TestProofBufferRejectsTooManyPublicInputs(t *testing.T) {
	buf, err := NewProofBuffer(make([]byte, ProofBufferSize))
	require.NoError(t, err)
	require.Error(t, buf.InitBuffer(MaxPublicInputs+1))
}

func TestProofBufferRejectsChunkOutOfRange(t *testing.T) {
	buf, err := NewProofBuffer(make([]byte, ProofBufferSize))
	require.NoError(t, err)
	require.NoError(t, buf.InitBuffer(0))
	require.Error(t, buf.UploadChunk(NumChunks, make([]byte, ChunkSize)))
}
