package summarizer

import (
	"strings"
	"sync"
	"time"

	"docsumm/internal/resilience/circuitbreaker"
	"docsumm/internal/resilience/retry"
)

type fakeMetrics struct {
	mu        sync.Mutex
	lengths   map[string][]int
	exceeded  map[string]int
	attempts  map[string]int
	fallbacks map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		lengths:   map[string][]int{},
		exceeded:  map[string]int{},
		attempts:  map[string]int{},
		fallbacks: map[string]int{},
	}
}

func (f *fakeMetrics) RecordLength(provider string, length int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lengths[provider] = append(f.lengths[provider], length)
}

func (f *fakeMetrics) RecordLimitExceeded(provider string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exceeded[provider]++
}

func (f *fakeMetrics) RecordDuration(string, time.Duration) {}

func (f *fakeMetrics) RecordAttempt(provider, result string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[provider+"/"+result]++
}

func (f *fakeMetrics) RecordFallback(provider string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fallbacks[provider]++
}

// fastGuard retries quickly so tests do not sleep for seconds.
func fastGuard(provider string, m SummaryMetricsRecorder) *guard {
	return newGuard(provider, circuitbreaker.DefaultConfig(provider+"-test"), retry.Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}, 0, m)
}

// longText is well above the pass-through threshold.
func longText() string {
	return strings.Join([]string{
		"Distributed systems replicate data across several machines to survive hardware failures.",
		"Consensus protocols such as Raft elect a leader that orders every write.",
		"Followers apply the replicated log in the same order as the leader.",
		"Network partitions can temporarily split the cluster into isolated groups.",
		"A minority partition refuses writes so that replicated data never diverges.",
		"Operators monitor leader elections because frequent changes signal instability.",
	}, " ")
}
