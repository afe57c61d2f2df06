package output

import "time"

// Metrics records what the lifecycle engine does. Implementations must be safe
// for concurrent use.
type Metrics interface {
	ScanCycle(duration time.Duration, scanned int)
	ScanFailure(reason string)
	NotificationSent(stage string)
	ReactionRemoved(reason string)
	Dialogue(outcome string)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) ScanCycle(time.Duration, int) {}
func (NopMetrics) ScanFailure(string)           {}
func (NopMetrics) NotificationSent(string)      {}
func (NopMetrics) ReactionRemoved(string)       {}
func (NopMetrics) Dialogue(string)              {}
