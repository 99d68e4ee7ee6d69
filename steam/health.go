package steam

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	// Default interval between health checks.
	defaultHealthInterval = time.Minute
	// Timeout for a single health-check ping.
	healthCheckTimeout = 5 * time.Second
	// Consecutive failed pings before the upstream is reported unavailable.
	unavailableAfter = 2
)

// Pinger is anything that can cheaply probe the upstream.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus is a snapshot of the upstream's health for /ready.
type HealthStatus struct {
	Available    bool      `json:"available"`
	LastChecked  time.Time `json:"lastChecked"`
	LastError    string    `json:"lastError,omitempty"`
	FailureCount int       `json:"failureCount"`
}

// HealthChecker periodically pings the Steam Web API and keeps the result in
// memory so readiness probes never wait on the network.
type HealthChecker struct {
	target   Pinger
	interval time.Duration

	mu     sync.RWMutex
	status HealthStatus

	cancel context.CancelFunc
	done   chan struct{}
}

// NewHealthChecker creates a health checker for target.
// Call Start() to begin background checking.
func NewHealthChecker(target Pinger, interval time.Duration) *HealthChecker {
	if interval <= 0 {
		interval = defaultHealthInterval
	}
	return &HealthChecker{
		target:   target,
		interval: interval,
		// Unknown = assume available until the first check.
		status: HealthStatus{Available: true},
		done:   make(chan struct{}),
	}
}

// Start begins the background health-check loop. It runs an immediate check
// on startup, then repeats at the configured interval. Safe to call once.
func (hc *HealthChecker) Start(ctx context.Context) {
	ctx, hc.cancel = context.WithCancel(ctx)

	go func() {
		defer close(hc.done)

		hc.check(ctx)

		ticker := time.NewTicker(hc.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				hc.check(ctx)
			}
		}
	}()
}

// Stop signals the health-check loop to stop and waits for it to finish.
func (hc *HealthChecker) Stop() {
	if hc.cancel != nil {
		hc.cancel()
	}
	<-hc.done
}

// IsAvailable reports whether the upstream is considered reachable.
func (hc *HealthChecker) IsAvailable() bool {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.status.Available
}

// Status returns a snapshot of the current health.
func (hc *HealthChecker) Status() HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.status
}

func (hc *HealthChecker) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	hc.record(hc.target.Ping(pingCtx))
}

// record updates the status. The upstream is marked unavailable after
// unavailableAfter consecutive failures, and available again on the first
// success, so a single dropped request does not flap readiness.
func (hc *HealthChecker) record(err error) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	hc.status.LastChecked = time.Now()

	if err == nil {
		if !hc.status.Available {
			slog.Info("steam api came back online")
		}
		hc.status.Available = true
		hc.status.FailureCount = 0
		hc.status.LastError = ""
		return
	}

	hc.status.FailureCount++
	hc.status.LastError = err.Error()

	if hc.status.FailureCount >= unavailableAfter && hc.status.Available {
		slog.Warn("steam api marked unavailable",
			"failures", hc.status.FailureCount, "error", err)
		hc.status.Available = false
	}
}
