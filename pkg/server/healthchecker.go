package server

import (
	"context"
	"log/slog"
)

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// HealthCheckerFunc adapts a plain function to HealthChecker.
type HealthCheckerFunc func(ctx context.Context) bool

func (f HealthCheckerFunc) Healthy(ctx context.Context) bool {
	return f(ctx)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingHealthChecker reports healthy while the backing store answers pings.
type PingHealthChecker struct {
	pinger Pinger
}

func NewPingHealthChecker(p Pinger) *PingHealthChecker {
	return &PingHealthChecker{pinger: p}
}

func (hc *PingHealthChecker) Healthy(ctx context.Context) bool {
	if hc.pinger == nil {
		return false
	}
	if err := hc.pinger.Ping(ctx); err != nil {
		slog.Warn("Health check failed", "error", err)
		return false
	}
	return true
}
