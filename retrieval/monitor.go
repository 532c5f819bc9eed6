package retrieval

import (
	"sync"

	"github.com/kejr2/RAGDocs/core"
)

// Monitor provides hooks to observe the retrieval pipeline.
// Implement this interface to track intermediate steps during a request.
type Monitor interface {
	Start(query string)
	CacheHit(query string)
	PlanReady(plan *core.QueryPlan)
	BranchSearched(topic string, proseHits, codeHits int)
	BranchDegraded(topic string, err error)
	AfterRank(hits []core.ScoredHit)
	AfterSelect(hits []core.ScoredHit)
	Finish(evidence *core.EvidenceSet)
}

// noopMonitor is a no-op implementation of Monitor.
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                      {}
func (n *noopMonitor) CacheHit(_ string)                   {}
func (n *noopMonitor) PlanReady(_ *core.QueryPlan)         {}
func (n *noopMonitor) BranchSearched(_ string, _, _ int)   {}
func (n *noopMonitor) BranchDegraded(_ string, _ error)    {}
func (n *noopMonitor) AfterRank(_ []core.ScoredHit)        {}
func (n *noopMonitor) AfterSelect(_ []core.ScoredHit)      {}
func (n *noopMonitor) Finish(_ *core.EvidenceSet)          {}

// Stats are aggregate counters collected by a StatsMonitor.
type Stats struct {
	Queries          int
	CacheHits        int
	FanOutBranches   int
	DegradedBranches int
	Insufficient     int
}

// StatsMonitor is a Monitor that aggregates counters across requests.
// Safe for concurrent use.
type StatsMonitor struct {
	mu    sync.Mutex
	stats Stats
}

var _ Monitor = (*StatsMonitor)(nil)

// NewStatsMonitor creates a monitor that counts pipeline events.
func NewStatsMonitor() *StatsMonitor {
	return &StatsMonitor{}
}

// Snapshot returns a copy of the counters collected so far.
func (m *StatsMonitor) Snapshot() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

func (m *StatsMonitor) Start(_ string) {
	m.mu.Lock()
	m.stats.Queries++
	m.mu.Unlock()
}

func (m *StatsMonitor) CacheHit(_ string) {
	m.mu.Lock()
	m.stats.CacheHits++
	m.mu.Unlock()
}

func (m *StatsMonitor) PlanReady(_ *core.QueryPlan) {}

func (m *StatsMonitor) BranchSearched(_ string, _, _ int) {
	m.mu.Lock()
	m.stats.FanOutBranches++
	m.mu.Unlock()
}

func (m *StatsMonitor) BranchDegraded(_ string, _ error) {
	m.mu.Lock()
	m.stats.DegradedBranches++
	m.mu.Unlock()
}

func (m *StatsMonitor) AfterRank(_ []core.ScoredHit)   {}
func (m *StatsMonitor) AfterSelect(_ []core.ScoredHit) {}

func (m *StatsMonitor) Finish(evidence *core.EvidenceSet) {
	if evidence == nil || !evidence.Insufficient {
		return
	}
	m.mu.Lock()
	m.stats.Insufficient++
	m.mu.Unlock()
}
