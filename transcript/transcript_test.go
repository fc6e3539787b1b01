package transcript_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicolaslara/solana-noir-verifier/field"
	"github.com/nicolaslara/solana-noir-verifier/transcript"
)

func TestChallengeDeterministic(t *testing.T) {
	t1 := transcript.New()
	t1.AppendFr(field.FromUint64(42))
	h1 := t1.Challenge()

	t2 := transcript.New()
	t2.AppendFr(field.FromUint64(42))
	h2 := t2.Challenge()

	require.Equal(t, h1, h2)
}

func TestChallengeDiffersOnDifferentInput(t *testing.T) {
	t1 := transcript.New()
	t1.AppendFr(field.FromUint64(1))
	h1 := t1.Challenge()

	t2 := transcript.New()
	t2.AppendFr(field.FromUint64(2))
	h2 := t2.Challenge()

	require.NotEqual(t, h1, h2)
}

func TestChallengeClearsBufferAndChainsPrev(t *testing.T) {
	tr := transcript.New()
	tr.AppendFr(field.FromUint64(7))
	h1 := tr.Challenge()

	// A second challenge with nothing newly appended should still differ
	// from the first: prev has rolled forward even with an empty buffer.
	h2 := tr.Challenge()
	require.NotEqual(t, h1, h2)
}

func TestSplitChallengeHalvesAreNotBothZero(t *testing.T) {
	tr := transcript.New()
	tr.AppendFr(field.FromUint64(123))
	lo, hi := tr.SplitChallenge()
	require.False(t, lo.IsZero() && hi.IsZero())
}

func TestChainPrevAdvancesWithoutAbsorbing(t *testing.T) {
	tr := transcript.New()
	tr.AppendFr(field.FromUint64(5))
	h1 := tr.Challenge()

	tr2 := transcript.New()
	tr2.AppendFr(field.FromUint64(5))
	h1b := tr2.Challenge()
	require.Equal(t, h1, h1b)

	c1 := tr.ChainPrev()
	c2 := tr2.ChainPrev()
	require.Equal(t, c1, c2)
	require.NotEqual(t, h1, c1)
}
