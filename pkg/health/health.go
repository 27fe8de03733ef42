// Package health implements Kubernetes-style liveness and readiness probes.
//
// Every registered check runs on its own ticker goroutine. Consecutive
// failure and success thresholds keep a single slow database round trip or
// one lucky success from flipping the reported state back and forth.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc probes one component. Nil means healthy.
type CheckFunc func(ctx context.Context) error

// probe is one registered check plus its runtime state.
//
// observe() runs on a single goroutine, so the consecutive counters are
// unsynchronized. The healthy flag and the last error are shared with HTTP
// handlers and go through atomics.
type probe struct {
	name    string
	timeout time.Duration
	check   CheckFunc

	failAfter int
	passAfter int

	healthy atomic.Bool
	lastErr atomic.Pointer[error]

	fails  int
	passes int
}

func (p *probe) isHealthy() bool {
	return p.healthy.Load()
}

func (p *probe) lastError() error {
	if e := p.lastErr.Load(); e != nil {
		return *e
	}
	return nil
}

// observe runs the check once and advances the threshold counters.
// Not safe for concurrent use.
func (p *probe) observe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.check(probeCtx)
	p.lastErr.Store(&err)

	if err != nil {
		p.passes = 0
		p.fails++
		if p.fails >= p.failAfter {
			p.healthy.Store(false)
		}
		return
	}
	p.fails = 0
	p.passes++
	if p.passes >= p.passAfter {
		p.healthy.Store(true)
	}
}

// Health holds the liveness and readiness probes of a service.
type Health struct {
	ready atomic.Bool

	mu        sync.RWMutex
	liveness  []*probe
	readiness []*probe
	cancel    context.CancelFunc
}

// New returns a Health in the not-ready state. Call SetReady(true) once the
// service has finished starting up.
func New() *Health {
	return &Health{}
}

func newProbe(name string, timeout time.Duration, check CheckFunc) *probe {
	p := &probe{
		name:      name,
		timeout:   timeout,
		check:     check,
		failAfter: 3,
		passAfter: 1,
	}
	// Healthy until the probe has actually observed failures.
	p.healthy.Store(true)
	return p
}

// AddLivenessCheck registers a check answering "is this process still
// functioning", such as a goroutine leak detector.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.liveness = append(h.liveness, newProbe(name, timeout, check))
}

// AddReadinessCheck registers a check answering "can this process serve
// traffic", such as a database ping.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readiness = append(h.readiness, newProbe(name, timeout, check))
}

// Start launches one goroutine per registered probe, each firing at the
// given interval until Stop or context cancellation. Register all checks
// before calling Start.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancel = cancel
	probes := make([]*probe, 0, len(h.liveness)+len(h.readiness))
	probes = append(probes, h.liveness...)
	probes = append(probes, h.readiness...)
	h.mu.Unlock()

	for _, p := range probes {
		go observeLoop(ctx, p, interval)
	}
}

func observeLoop(ctx context.Context, p *probe, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.observe(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.observe(ctx)
		}
	}
}

// SetReady flips the manual readiness gate. Set it to false during graceful
// shutdown so the load balancer drains this instance.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the manual gate is open and every readiness probe
// currently passes.
func (h *Health) IsReady() bool {
	if !h.ready.Load() {
		return false
	}

	h.mu.RLock()
	probes := h.readiness
	h.mu.RUnlock()

	for _, p := range probes {
		if !p.isHealthy() {
			return false
		}
	}
	return true
}

// Stop cancels the probe goroutines. Safe to call more than once.
func (h *Health) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

type statusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint serves the liveness probe. 200 when every liveness check
// passes, 503 with per-check messages otherwise.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	probes := make([]*probe, len(h.liveness))
	copy(probes, h.liveness)
	h.mu.RUnlock()

	writeStatus(w, failures(probes))
}

// ReadyEndpoint serves the readiness probe. 200 only when the manual gate is
// open and every readiness check passes.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	ready := h.ready.Load()

	h.mu.RLock()
	probes := make([]*probe, len(h.readiness))
	copy(probes, h.readiness)
	h.mu.RUnlock()

	failed := failures(probes)
	if !ready {
		failed["_readiness"] = "service is not ready"
	}
	writeStatus(w, failed)
}

// failures reports the message of every unhealthy probe by name. It reads
// the stored last error instead of re-running checks on the request path.
func failures(probes []*probe) map[string]string {
	failed := make(map[string]string)
	for _, p := range probes {
		if p.isHealthy() {
			continue
		}
		if err := p.lastError(); err != nil {
			failed[p.name] = err.Error()
		} else {
			failed[p.name] = "check is unhealthy"
		}
	}
	return failed
}

func writeStatus(w http.ResponseWriter, failed map[string]string) {
	w.Header().Set("Content-Type", "application/json")

	resp := statusResponse{Status: "ok"}
	code := http.StatusOK
	if len(failed) > 0 {
		resp.Status = "unhealthy"
		resp.Checks = failed
		code = http.StatusServiceUnavailable
	}

	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
