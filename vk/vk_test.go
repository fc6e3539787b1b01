package vk_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicolaslara/solana-noir-verifier/vk"
)

func validHeader(logN uint64) []byte {
	raw := make([]byte, vk.Size)
	binary.LittleEndian.PutUint64(raw[0:8], 1<<logN)
	binary.LittleEndian.PutUint64(raw[8:16], logN)
	binary.LittleEndian.PutUint64(raw[16:24], 1)
	binary.LittleEndian.PutUint64(raw[24:32], 0)
	return raw
}

func TestNewRejectsWrongSize(t *testing.T) {
	_, err := vk.New(make([]byte, vk.Size-1))
	require.Error(t, err)
}

func TestNewRejectsBadLogN(t *testing.T) {
	_, err := vk.New(validHeader(0))
	require.Error(t, err)

	raw := validHeader(12)
	binary.LittleEndian.PutUint64(raw[8:16], vk.MaxLogN+1)
	_, err = vk.New(raw)
	require.Error(t, err)
}

func TestNewAcceptsZeroedCommitments(t *testing.T) {
	raw := validHeader(12)
	v, err := vk.New(raw)
	require.NoError(t, err)
	require.Equal(t, uint64(12), v.LogCircuitSize())
	require.Equal(t, uint64(1<<12), v.CircuitSize())

	c, err := v.Commitment(vk.QM)
	require.NoError(t, err)
	require.Equal(t, [64]byte{}, c.Bytes())
}

func TestCommitmentBounds(t *testing.T) {
	v, err := vk.New(validHeader(12))
	require.NoError(t, err)
	_, err = v.Commitment(-1)
	require.Error(t, err)
	_, err = v.Commitment(vk.NumCommitments)
	require.Error(t, err)
}
