package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicolaslara/solana-noir-verifier/accounts"
	"github.com/nicolaslara/solana-noir-verifier/proof"
	"github.com/nicolaslara/solana-noir-verifier/vk"
)

func TestExecuteRejectsUnknownOpcode(t *testing.T) {
	l := New()
	_, err := Execute(l, Instruction{Opcode: accounts.Opcode(200)})
	require.Error(t, err)
}

func TestExecuteUploadVKChunkEndToEnd(t *testing.T) {
	l := New()
	_, err := Execute(l, Instruction{Opcode: accounts.OpInitVKBuffer, VKAddr: "vk1"})
	require.NoError(t, err)

	payload := make([]byte, vk.Size)
	payload[8] = 1 // log_n = 1
	_, err = Execute(l, Instruction{Opcode: accounts.OpUploadVKChunk, VKAddr: "vk1", Offset: 0, Data: payload})
	require.NoError(t, err)

	raw, err := l.Get("vk1")
	require.NoError(t, err)
	buf, err := accounts.NewVKBuffer(raw)
	require.NoError(t, err)
	require.Equal(t, accounts.VKReady, buf.Status())
}

func TestExecuteFullPipelineOnZeroProofFailsRelationCheck(t *testing.T) {
	l := New()

	vkPayload := make([]byte, vk.Size)
	vkPayload[8] = 1 // log_n = 1

	_, err := Execute(l, Instruction{Opcode: accounts.OpInitVKBuffer, VKAddr: "vk1"})
	require.NoError(t, err)
	_, err = Execute(l, Instruction{Opcode: accounts.OpUploadVKChunk, VKAddr: "vk1", Data: vkPayload})
	require.NoError(t, err)

	_, err = Execute(l, Instruction{Opcode: accounts.OpInitProofBuffer, ProofAddr: "proof1", PublicInputsCount: 0})
	require.NoError(t, err)
	_, err = Execute(l, Instruction{Opcode: accounts.OpSetPublicInputs, ProofAddr: "proof1", PublicInputs: nil})
	require.NoError(t, err)

	zeroProof := make([]byte, proof.Size)
	for i := 0; i < accounts.NumChunks; i++ {
		start := i * accounts.ChunkSize
		end := start + accounts.ChunkSize
		if end > proof.Size {
			end = proof.Size
		}
		_, err := Execute(l, Instruction{
			Opcode:     accounts.OpUploadProofChunk,
			ProofAddr:  "proof1",
			ChunkIndex: i,
			Data:       zeroProof[start:end],
		})
		require.NoError(t, err)
	}

	_, err = Execute(l, Instruction{
		Opcode:    accounts.OpPhase1Challenges,
		VKAddr:    "vk1",
		ProofAddr: "proof1",
		StateAddr: "state1",
	})
	require.NoError(t, err)

	for round := 0; round < 28; round += 4 {
		end := round + 4
		if end > 28 {
			end = 28
		}
		_, err = Execute(l, Instruction{
			Opcode:     accounts.OpPhase2Rounds,
			ProofAddr:  "proof1",
			StateAddr:  "state1",
			RoundStart: round,
			RoundEnd:   end,
		})
		require.NoError(t, err)
	}

	_, err = Execute(l, Instruction{Opcode: accounts.OpPhase2dRelations, ProofAddr: "proof1", StateAddr: "state1"})
	require.Error(t, err)
}
