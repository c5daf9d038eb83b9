package ai

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const defaultClientTimeout = 30 * time.Second

// transientMaxRetries bounds in-slot retries of transient failures before the
// gateway moves on to the next slot.
const transientMaxRetries = 2

// ErrAllProvidersFailed is returned when every configured slot was tried and
// none produced a completion.
var ErrAllProvidersFailed = errors.New("all generative providers failed")

// Gateway runs a prompt against an ordered list of generative slots with
// classified fallback. A slot that succeeds becomes the preferred slot for
// subsequent calls, so a dead primary is not re-probed on every request.
type Gateway struct {
	slots         []Generator
	logger        *zap.Logger
	retryInterval time.Duration

	mu        sync.Mutex
	preferred int
}

// NewGateway creates a gateway over the given slots in priority order.
func NewGateway(logger *zap.Logger, slots ...Generator) *Gateway {
	return &Gateway{
		slots:         slots,
		logger:        logger,
		retryInterval: 500 * time.Millisecond,
	}
}

// Available reports whether at least one slot is configured.
func (g *Gateway) Available() bool {
	return len(g.slots) > 0
}

// Generate runs the prompt through the slots, starting with the preferred
// one. Classified failures (auth, quota, model-not-found, transient after
// retries) advance to the next slot; an unclassified failure is returned
// immediately so real bugs are not masked by fallback.
func (g *Gateway) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if len(g.slots) == 0 {
		return "", ErrAllProvidersFailed
	}

	g.mu.Lock()
	start := g.preferred
	g.mu.Unlock()

	var lastErr error
	for i := 0; i < len(g.slots); i++ {
		idx := (start + i) % len(g.slots)
		slot := g.slots[idx]

		text, err := g.trySlot(ctx, slot, prompt, maxTokens)
		if err == nil {
			g.mu.Lock()
			g.preferred = idx
			g.mu.Unlock()
			return text, nil
		}

		if KindOf(err) == FailureUnknown {
			return "", err
		}

		if g.logger != nil {
			g.logger.Warn("⚠️ Generative slot failed, trying next",
				zap.String("provider", slot.Name()),
				zap.String("kind", KindOf(err).String()),
				zap.Error(err),
			)
		}
		lastErr = err
	}

	return "", fmt.Errorf("%w: %v", ErrAllProvidersFailed, lastErr)
}

// trySlot runs the prompt on one slot. Transient failures are retried with
// exponential backoff; a model-not-found failure advances to the slot's
// alternate models before giving up on the slot.
func (g *Gateway) trySlot(ctx context.Context, slot Generator, prompt string, maxTokens int) (string, error) {
	var lastErr error
	for _, model := range slot.Models() {
		var text string
		op := func() error {
			out, err := slot.Generate(ctx, model, prompt, maxTokens)
			if err != nil {
				if KindOf(err) != FailureTransient {
					return backoff.Permanent(err)
				}
				return err
			}
			text = out
			return nil
		}

		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = g.retryInterval
		bo.MaxInterval = 5 * time.Second

		err := backoff.Retry(op, backoff.WithContext(
			backoff.WithMaxRetries(bo, transientMaxRetries), ctx))
		if err == nil {
			return text, nil
		}

		if KindOf(err) == FailureNotFound {
			if g.logger != nil {
				g.logger.Warn("⚠️ Model not found, trying alternate",
					zap.String("provider", slot.Name()),
					zap.String("model", model),
				)
			}
			lastErr = err
			continue
		}
		return "", err
	}
	return "", lastErr
}
