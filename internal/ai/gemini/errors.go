package gemini

import "errors"

// Oracle failure taxonomy. None of these are retried automatically; a failed
// oracle call leaves the initiating workflow without side effects and the
// user re-attempts manually.
var (
	ErrOracleUnavailable = errors.New("oracle unavailable")
	ErrOracleTimeout     = errors.New("oracle timeout")
	// ErrOracleMalformed marks a response that did not match the expected
	// verdict schema. Treated identically to an oracle failure, never
	// partially accepted.
	ErrOracleMalformed = errors.New("oracle returned malformed response")
)
