package verifier

import (
	"fmt"

	"github.com/nicolaslara/solana-noir-verifier/verifiererrors"
)

func errPhaseMismatch(want, got Phase) error {
	return verifiererrors.Newf(verifiererrors.CodePhaseMismatch,
		"expected phase %s, got %s", want, got)
}

var errGeminiFoldsMissing = fmt.Errorf("gemini fold scalars not yet computed for this log_n")

func wrapErr(code verifiererrors.Code, context string, err error) error {
	return verifiererrors.New(code, fmt.Errorf("%s: %w", context, err))
}
