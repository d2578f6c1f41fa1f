package aggregator

import (
	"github.com/SpongeBobBD/logflow-processor/internal/model"
)

// Aggregate accumulates tag and port/protocol-combination counts for one run.
// It is not safe for concurrent use; in worker-pool mode each worker owns its
// own Aggregate and the partials are folded together with Merge.
type Aggregate struct {
	tagCounts          map[string]uint64
	portProtocolCounts map[model.PortProtocol]uint64
	processed          uint64
	skipped            uint64
}

// New creates an empty Aggregate.
func New() *Aggregate {
	return &Aggregate{
		tagCounts:          make(map[string]uint64),
		portProtocolCounts: make(map[model.PortProtocol]uint64),
	}
}

// Record counts one classified line, incrementing both counters by exactly one.
func (a *Aggregate) Record(tag string, port int, protocol string) {
	a.tagCounts[tag]++
	a.portProtocolCounts[model.PortProtocol{Port: port, Protocol: protocol}]++
	a.processed++
}

// Skip counts one malformed line that was dropped without classification.
func (a *Aggregate) Skip() {
	a.skipped++
}

// Merge folds the counts of another Aggregate into this one.
func (a *Aggregate) Merge(other *Aggregate) {
	for tag, count := range other.tagCounts {
		a.tagCounts[tag] += count
	}
	for key, count := range other.portProtocolCounts {
		a.portProtocolCounts[key] += count
	}
	a.processed += other.processed
	a.skipped += other.skipped
}

// Snapshot returns a read-only copy of the accumulated counts.
func (a *Aggregate) Snapshot() *model.ReportSnapshot {
	tags := make(map[string]uint64, len(a.tagCounts))
	for tag, count := range a.tagCounts {
		tags[tag] = count
	}
	combos := make(map[model.PortProtocol]uint64, len(a.portProtocolCounts))
	for key, count := range a.portProtocolCounts {
		combos[key] = count
	}
	return &model.ReportSnapshot{
		TagCounts:          tags,
		PortProtocolCounts: combos,
		ProcessedLines:     a.processed,
		SkippedLines:       a.skipped,
	}
}
