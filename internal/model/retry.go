// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/pdiddy/conlang-forge/pkg/types"
)

const defaultMaxRetries = 3

// Backoff bounds. Tests shrink retryInitialInterval to avoid real sleeps.
var (
	retryInitialInterval = time.Second
	retryMaxInterval     = 30 * time.Second
	retryMaxElapsed      = 2 * time.Minute
)

// WithRetry wraps g so transient failures are retried with exponential
// backoff. maxRetries of 0 uses the default (3); negative disables retries.
func WithRetry(g Generator, maxRetries int, log *zap.Logger) Generator {
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}
	if maxRetries < 0 {
		return g
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &retrying{next: g, maxRetries: maxRetries, log: log}
}

type retrying struct {
	next       Generator
	maxRetries int
	log        *zap.Logger
}

func (r *retrying) Generate(ctx context.Context, prompt string, cfg types.ModelConfig) (string, error) {
	var (
		text    string
		attempt int
	)

	operation := func() error {
		attempt++
		out, err := r.next.Generate(ctx, prompt, cfg)
		if err != nil {
			if !IsTemporary(err) {
				return backoff.Permanent(err)
			}
			r.log.Warn("model call failed, will retry",
				zap.String("model", cfg.Model),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return err
		}
		text = out
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInitialInterval
	b.MaxInterval = retryMaxInterval
	b.MaxElapsedTime = retryMaxElapsed
	b.Multiplier = 2.0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.maxRetries)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}
	return text, nil
}
