package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpongeBobBD/logflow-processor/internal/model"
)

func TestRecord(t *testing.T) {
	agg := New()
	agg.Record("web", 80, "tcp")
	agg.Record("web", 80, "tcp")
	agg.Record("dns", 53, "udp")
	agg.Skip()

	snap := agg.Snapshot()
	assert.Equal(t, uint64(2), snap.TagCounts["web"])
	assert.Equal(t, uint64(1), snap.TagCounts["dns"])
	assert.Equal(t, uint64(2), snap.PortProtocolCounts[model.PortProtocol{Port: 80, Protocol: "tcp"}])
	assert.Equal(t, uint64(3), snap.ProcessedLines)
	assert.Equal(t, uint64(1), snap.SkippedLines)
}

func TestCountSumsMatchProcessedLines(t *testing.T) {
	agg := New()
	agg.Record("web", 80, "tcp")
	agg.Record("web", 443, "tcp")
	agg.Record("dns", 53, "udp")
	agg.Record("Untagged", 22, "tcp")

	snap := agg.Snapshot()

	var tagSum, comboSum uint64
	for _, count := range snap.TagCounts {
		tagSum += count
	}
	for _, count := range snap.PortProtocolCounts {
		comboSum += count
	}
	assert.Equal(t, snap.ProcessedLines, tagSum)
	assert.Equal(t, snap.ProcessedLines, comboSum)
}

func TestMerge(t *testing.T) {
	a := New()
	a.Record("web", 80, "tcp")
	a.Skip()

	b := New()
	b.Record("web", 80, "tcp")
	b.Record("dns", 53, "udp")

	a.Merge(b)
	snap := a.Snapshot()

	assert.Equal(t, uint64(2), snap.TagCounts["web"])
	assert.Equal(t, uint64(1), snap.TagCounts["dns"])
	assert.Equal(t, uint64(3), snap.ProcessedLines)
	assert.Equal(t, uint64(1), snap.SkippedLines)
}

func TestSnapshotIsACopy(t *testing.T) {
	agg := New()
	agg.Record("web", 80, "tcp")

	snap := agg.Snapshot()
	snap.TagCounts["web"] = 99
	snap.PortProtocolCounts[model.PortProtocol{Port: 80, Protocol: "tcp"}] = 99

	fresh := agg.Snapshot()
	require.Equal(t, uint64(1), fresh.TagCounts["web"])
	require.Equal(t, uint64(1), fresh.PortProtocolCounts[model.PortProtocol{Port: 80, Protocol: "tcp"}])
}

func TestEmptySnapshot(t *testing.T) {
	snap := New().Snapshot()
	assert.Empty(t, snap.TagCounts)
	assert.Empty(t, snap.PortProtocolCounts)
	assert.Zero(t, snap.ProcessedLines)
}
