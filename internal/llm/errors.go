package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// Sentinel errors for LLM operations. Checked with errors.Is by the event
// gateway when converting a failed turn into a user-facing reply.
var (
	// ErrGenerate indicates the model call failed or timed out after the
	// single allowed retry. The turn is discarded with an apology reply.
	ErrGenerate = errors.New("llm generation failed")

	// ErrEmbed indicates embedding computation failed after the single
	// allowed retry.
	ErrEmbed = errors.New("embedding failed")
)

// retryDelay is the pause before the one permitted retry of a transient
// provider failure.
const retryDelay = 500 * time.Millisecond

// isTransient reports whether a provider error is worth the single retry.
// Auth and quota failures are not transient; retrying them only burns the
// turn budget.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, fatal := range []string{
		"api key",
		"unauthorized",
		"permission",
		"authentication",
		"quota",
		"billing",
	} {
		if strings.Contains(msg, fatal) {
			return false
		}
	}
	for _, transient := range []string{
		"timeout",
		"temporarily",
		"connection reset",
		"connection refused",
		"unavailable",
		"overloaded",
		"500",
		"502",
		"503",
		"eof",
	} {
		if strings.Contains(msg, transient) {
			return true
		}
	}
	return false
}

// retryOnce runs fn, retrying exactly once after retryDelay if the first
// attempt fails transiently and the context is still live.
func retryOnce(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil || !isTransient(err) {
		return err
	}

	select {
	case <-ctx.Done():
		return err
	case <-time.After(retryDelay):
	}

	return fn()
}
