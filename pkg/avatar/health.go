package avatar

import (
	"sync"
	"time"

	"github.com/avatarworks/mouthpiece/pkg/types"
)

// Circuit-breaker thresholds applied by IsHealthy on top of the raw status.
// A provider that fails most of the time but occasionally succeeds would
// otherwise be retried on every single call.
const (
	unhealthyErrorRate  = 0.5
	unhealthyErrorCount = 3
)

// HealthTracker keeps per-provider rolling success/error counters and derives
// an advisory up/down signal from them. Counters only grow; they reset on
// process restart.
type HealthTracker struct {
	mu        sync.Mutex
	providers map[ProviderID]*providerHealth
}

type providerHealth struct {
	status       types.HealthStatus
	lastCheck    *time.Time
	responseTime float64
	successCount uint64
	errorCount   uint64
	lastError    string
}

// NewHealthTracker creates a tracker with the given providers pre-registered
// in the unknown state.
func NewHealthTracker(providers ...ProviderID) *HealthTracker {
	t := &HealthTracker{providers: make(map[ProviderID]*providerHealth, len(providers))}
	for _, p := range providers {
		t.providers[p] = &providerHealth{status: types.HealthUnknown}
	}
	return t
}

// Record registers the outcome of one completed provider attempt.
func (t *HealthTracker) Record(provider ProviderID, success bool, responseTime float64, errDetail string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := t.get(provider)
	now := time.Now()
	h.lastCheck = &now
	h.responseTime = responseTime

	if success {
		h.successCount++
		h.status = types.HealthHealthy
		h.lastError = ""
	} else {
		h.errorCount++
		h.status = types.HealthError
		h.lastError = errDetail
	}
}

// IsHealthy reports whether the provider should be attempted. A provider that
// has never been checked is healthy: the first attempt is optimistic.
func (t *HealthTracker) IsHealthy(provider ProviderID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	h := t.get(provider)
	if h.lastCheck == nil {
		return true
	}

	total := h.successCount + h.errorCount
	errorRate := float64(h.errorCount) / float64(total)
	if errorRate > unhealthyErrorRate && h.errorCount > unhealthyErrorCount {
		return false
	}
	return h.status != types.HealthError
}

// Snapshot returns a copy of every tracked provider's health.
func (t *HealthTracker) Snapshot() map[ProviderID]types.ProviderHealth {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := make(map[ProviderID]types.ProviderHealth, len(t.providers))
	for provider, h := range t.providers {
		entry := types.ProviderHealth{
			Status:       h.status,
			ResponseTime: h.responseTime,
			SuccessCount: h.successCount,
			ErrorCount:   h.errorCount,
			LastError:    h.lastError,
		}
		if h.lastCheck != nil {
			checked := *h.lastCheck
			entry.LastCheck = &checked
		}
		snapshot[provider] = entry
	}
	return snapshot
}

// get returns the provider's record, registering it on first sight.
// Callers must hold t.mu.
func (t *HealthTracker) get(provider ProviderID) *providerHealth {
	h, ok := t.providers[provider]
	if !ok {
		h = &providerHealth{status: types.HealthUnknown}
		t.providers[provider] = h
	}
	return h
}
