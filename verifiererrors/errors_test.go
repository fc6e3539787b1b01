package verifiererrors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicolaslara/solana-noir-verifier/verifiererrors"
)

func TestRecoverableClassification(t *testing.T) {
	require.True(t, verifiererrors.CodeInvalidProofSize.Recoverable())
	require.True(t, verifiererrors.CodeMissingChunks.Recoverable())
	require.False(t, verifiererrors.CodeSumcheckConsistency.Recoverable())
	require.False(t, verifiererrors.CodePairingFailed.Recoverable())
}

func TestErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := verifiererrors.New(verifiererrors.CodeSyscallFailure, cause)
	require.ErrorIs(t, err, cause)
}

func TestNewfFormatsMessage(t *testing.T) {
	err := verifiererrors.Newf(verifiererrors.CodePhaseMismatch, "expected phase %d got %d", 3, 1)
	require.Contains(t, err.Error(), "expected phase 3 got 1")
}

func TestSentinelCodesAreStable(t *testing.T) {
	require.Equal(t, verifiererrors.Code(1001), verifiererrors.ErrInvalidProofSize.Code)
	require.Equal(t, verifiererrors.Code(2004), verifiererrors.ErrPairingFailed.Code)
}
