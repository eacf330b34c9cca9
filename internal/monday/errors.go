package monday

import "errors"

// Sentinel errors for CRM operations. Checked with errors.Is by callers
// when converting failures into user-facing replies.
var (
	// ErrAuth indicates the API key was rejected. Surfaced to the user as a
	// "service unavailable" reply; never retried.
	ErrAuth = errors.New("monday authentication failed")

	// ErrNetwork indicates a transport failure or provider throttling.
	// Retried with bounded backoff before being surfaced.
	ErrNetwork = errors.New("monday request failed")
)
