package gen

import "errors"

// Sentinel errors for the failure classes callers branch on. Everything else
// surfaces as a wrapped transport or provider error.
var (
	// ErrNoCompletion means the provider returned no usable payload for a
	// structured-output call.
	ErrNoCompletion = errors.New("no completion returned")

	// ErrInvalidPayload means the provider returned text that does not parse
	// as the requested schema.
	ErrInvalidPayload = errors.New("provider returned malformed payload")

	// ErrSafetyBlocked means the provider declined a prompt on content-safety
	// grounds. Callers should suggest rewording rather than retrying.
	ErrSafetyBlocked = errors.New("prompt refused by safety filters")

	// ErrVideoTimeout means a long-running video job exceeded its wall-clock
	// budget. The job is abandoned, not resumed.
	ErrVideoTimeout = errors.New("video generation timed out")
)
