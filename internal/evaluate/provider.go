// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package evaluate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/nestscout/nestscout/internal/config"
	"github.com/nestscout/nestscout/internal/models"
)

// Provider names used for sub-score attribution and metrics labels.
const (
	ProviderCrime         = "crime"
	ProviderSchool        = "school"
	ProviderWalkability   = "walkability"
	ProviderAffordability = "affordability"
)

// Provider scores one quality-of-life factor for a location on a
// [0, 10] scale. Implementations must be safe for concurrent use.
type Provider interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// Score returns the factor score for the address. Errors and
	// context cancellation both surface as an unavailable sub-score
	// upstream, never as a failed evaluation.
	Score(ctx context.Context, addr models.Address) (float64, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc struct {
	ProviderName string
	Fn           func(ctx context.Context, addr models.Address) (float64, error)
}

func (p ProviderFunc) Name() string { return p.ProviderName }

func (p ProviderFunc) Score(ctx context.Context, addr models.Address) (float64, error) {
	return p.Fn(ctx, addr)
}

// ResilientProvider wraps a Provider with a per-call timeout, a token
// bucket rate limiter, and a circuit breaker. Any failure path maps to
// a models.ProviderUnavailable error so callers can treat breaker
// rejections, rate-limit waits cut short by the deadline, timeouts,
// and upstream errors uniformly.
type ResilientProvider struct {
	inner   Provider
	cfg     config.ProviderConfig
	breaker *gobreaker.CircuitBreaker[float64]
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewResilientProvider wraps inner with the resilience policy from
// cfg and the shared breaker thresholds.
func NewResilientProvider(inner Provider, cfg config.ProviderConfig, shared config.ProvidersConfig, logger zerolog.Logger) *ResilientProvider {
	log := logger.With().Str("provider", inner.Name()).Logger()

	settings := gobreaker.Settings{
		Name:        inner.Name(),
		MaxRequests: 1,
		Timeout:     shared.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= shared.BreakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("provider circuit breaker state changed")
		},
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return &ResilientProvider{
		inner:   inner,
		cfg:     cfg,
		breaker: gobreaker.NewCircuitBreaker[float64](settings),
		limiter: limiter,
		logger:  log,
	}
}

// Name implements Provider.
func (p *ResilientProvider) Name() string { return p.inner.Name() }

// Score implements Provider. Disabled providers fail fast without
// touching the breaker.
func (p *ResilientProvider) Score(ctx context.Context, addr models.Address) (float64, error) {
	if !p.cfg.Enabled {
		return 0, &models.ProviderUnavailable{Provider: p.Name(), Err: fmt.Errorf("provider disabled")}
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return 0, &models.ProviderUnavailable{Provider: p.Name(), Err: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	score, err := p.breaker.Execute(func() (float64, error) {
		callCtx := ctx
		if p.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
			defer cancel()
		}
		return p.inner.Score(callCtx, addr)
	})
	if err != nil {
		p.logger.Debug().Err(err).Str("city", addr.City).Msg("provider call failed")
		return 0, &models.ProviderUnavailable{Provider: p.Name(), Err: err}
	}
	return models.Clamp10(score), nil
}

// BreakerState reports the breaker state for health reporting.
func (p *ResilientProvider) BreakerState() string {
	return p.breaker.State().String()
}
