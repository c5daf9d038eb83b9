package ai

import (
	"context"
	"errors"
	"fmt"
)

// FailureKind classifies a provider failure. The gateway's fallback decisions
// depend only on this classification, never on provider-specific details.
type FailureKind int

const (
	// FailureUnknown covers errors the classifier cannot attribute. The
	// gateway fails fast on these instead of masking them with a fallback.
	FailureUnknown FailureKind = iota
	// FailureAuth means the credential was rejected. The slot is unusable.
	FailureAuth
	// FailureQuota means rate limiting or quota exhaustion.
	FailureQuota
	// FailureNotFound means the requested model identifier does not exist;
	// an alternate model on the same slot may still work.
	FailureNotFound
	// FailureTransient covers timeouts, connection errors and 5xx responses.
	FailureTransient
)

func (k FailureKind) String() string {
	switch k {
	case FailureAuth:
		return "auth"
	case FailureQuota:
		return "quota"
	case FailureNotFound:
		return "not_found"
	case FailureTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// ProviderError is the typed failure every generative client returns.
type ProviderError struct {
	Provider   string
	Model      string
	StatusCode int
	Kind       FailureKind
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s (%s) failed [%s, status %d]: %s",
		e.Provider, e.Model, e.Kind, e.StatusCode, e.Message)
}

// ClassifyStatus maps an HTTP status code to a FailureKind.
func ClassifyStatus(status int) FailureKind {
	switch {
	case status == 401 || status == 403:
		return FailureAuth
	case status == 429:
		return FailureQuota
	case status == 404:
		return FailureNotFound
	case status == 408 || status >= 500:
		return FailureTransient
	default:
		return FailureUnknown
	}
}

// KindOf extracts the FailureKind from an error chain. Anything that is not
// a ProviderError is unknown.
func KindOf(err error) FailureKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return FailureUnknown
}

// Generator is one generative backend slot. Models returns the configured
// model identifier first, then the alternates tried when it is unavailable.
type Generator interface {
	Name() string
	Models() []string
	Generate(ctx context.Context, model, prompt string, maxTokens int) (string, error)
}
