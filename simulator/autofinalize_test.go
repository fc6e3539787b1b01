package simulator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nicolaslara/solana-noir-verifier/accounts"
	"github.com/nicolaslara/solana-noir-verifier/ledger"
	"github.com/nicolaslara/solana-noir-verifier/verifier"
)

func completedState() *verifier.State {
	s := verifier.New()
	s.Phase = verifier.PhaseComplete
	s.Verified = true
	return s
}

func TestFinalizerOndemandCreatesReceipt(t *testing.T) {
	l := ledger.New()
	const stateAddr, vkAddr, proofAddr = "state1", "vk1", "proof1"
	require.NoError(t, l.Put(stateAddr, accounts.Encode(completedState())))

	buf, err := accounts.NewProofBuffer(make([]byte, accounts.ProofBufferSize))
	require.NoError(t, err)
	require.NoError(t, buf.InitBuffer(0))
	require.NoError(t, buf.SetPublicInputs(nil))
	require.NoError(t, l.Put(proofAddr, buf.Raw()))

	f := NewFinalizer(l)
	f.Start(context.Background(), 0)
	defer f.Close()

	f.OndemandCh <- PendingReceipt{StateAddr: stateAddr, VKAddr: vkAddr, ProofAddr: proofAddr}

	require.Eventually(t, func() bool {
		f.mu.Lock()
		_, pending := f.pending[stateAddr]
		f.mu.Unlock()
		return !pending
	}, time.Second, 5*time.Millisecond)
}

func TestFinalizerSweepPicksUpTrackedReceipts(t *testing.T) {
	l := ledger.New()
	const stateAddr, vkAddr, proofAddr = "state2", "vk2", "proof2"
	require.NoError(t, l.Put(stateAddr, accounts.Encode(verifier.New())))

	buf, err := accounts.NewProofBuffer(make([]byte, accounts.ProofBufferSize))
	require.NoError(t, err)
	require.NoError(t, buf.InitBuffer(0))
	require.NoError(t, buf.SetPublicInputs(nil))
	require.NoError(t, l.Put(proofAddr, buf.Raw()))

	f := NewFinalizer(l)
	f.Start(context.Background(), 20*time.Millisecond)
	defer f.Close()

	f.OndemandCh <- PendingReceipt{StateAddr: stateAddr, VKAddr: vkAddr, ProofAddr: proofAddr}

	require.Eventually(t, func() bool {
		f.mu.Lock()
		_, pending := f.pending[stateAddr]
		f.mu.Unlock()
		return pending
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, l.Put(stateAddr, accounts.Encode(completedState())))

	require.Eventually(t, func() bool {
		f.mu.Lock()
		_, pending := f.pending[stateAddr]
		f.mu.Unlock()
		return !pending
	}, time.Second, 5*time.Millisecond)
}

func TestFinalizerCloseIsIdempotent(t *testing.T) {
	l := ledger.New()
	f := NewFinalizer(l)
	f.Start(context.Background(), time.Hour)
	f.Close()
	f.Close()
}
