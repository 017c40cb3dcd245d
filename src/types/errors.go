package types

import "errors"

// Failure kinds shared by the optimizer, the key exchange simulator and the
// orchestrator. Packages wrap these with context, so compare with errors.Is.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInsufficientNodes = errors.New("insufficient nodes")
	ErrCryptoFailure     = errors.New("crypto failure")
	ErrNumericDegenerate = errors.New("numeric degenerate")
)
