package authgate

import "sync/atomic"

// MetricID enumerates the engine's hot-path counters.
type MetricID int

const (
	MetricSessionIssued MetricID = iota
	MetricValidateOK
	MetricValidateMismatch
	MetricValidateFailClosed
	MetricVersionIncrement
	MetricRateAllowed
	MetricRateRejected
	MetricGuardAllowed
	MetricGuardUnauthenticated
	MetricGuardForbidden
	MetricAuditEmitted
	metricCount
)

var metricNames = [metricCount]string{
	MetricSessionIssued:        "sessions_issued",
	MetricValidateOK:           "validate_ok",
	MetricValidateMismatch:     "validate_version_mismatch",
	MetricValidateFailClosed:   "validate_fail_closed",
	MetricVersionIncrement:     "version_increments",
	MetricRateAllowed:          "rate_allowed",
	MetricRateRejected:         "rate_rejected",
	MetricGuardAllowed:         "guard_allowed",
	MetricGuardUnauthenticated: "guard_unauthenticated",
	MetricGuardForbidden:       "guard_forbidden",
	MetricAuditEmitted:         "audit_emitted",
}

func (id MetricID) String() string {
	if id < 0 || id >= metricCount {
		return "unknown"
	}
	return metricNames[id]
}

// paddedCounter keeps each counter on its own cache line so concurrent
// increments of different metrics do not false-share.
type paddedCounter struct {
	value atomic.Uint64
	_     [56]byte
}

type engineMetrics struct {
	counters [metricCount]paddedCounter
}

func newEngineMetrics() *engineMetrics {
	return &engineMetrics{}
}

func (m *engineMetrics) inc(id MetricID) {
	if m == nil || id < 0 || id >= metricCount {
		return
	}
	m.counters[id].value.Add(1)
}

func (m *engineMetrics) get(id MetricID) uint64 {
	if m == nil || id < 0 || id >= metricCount {
		return 0
	}
	return m.counters[id].value.Load()
}

// MetricsSnapshot is a point-in-time copy of every counter, plus the
// audit dispatcher's drop count.
type MetricsSnapshot struct {
	Counters     map[string]uint64
	AuditDropped uint64
}

// MetricsSnapshot copies the engine's counters. Cheap enough to call from
// a scrape handler.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[string]uint64, int(metricCount))}
	if e == nil {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		snap.Counters[id.String()] = e.metrics.get(id)
	}
	if e.audit != nil {
		snap.AuditDropped = e.audit.Dropped()
	}
	return snap
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil {
		return
	}
	e.metrics.inc(id)
}
