package tagger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpongeBobBD/logflow-processor/internal/lookup"
	"github.com/SpongeBobBD/logflow-processor/internal/model"
)

func TestProtocolName(t *testing.T) {
	assert.Equal(t, "tcp", ProtocolName(6))
	assert.Equal(t, "udp", ProtocolName(17))
	assert.Equal(t, "icmp", ProtocolName(1))
	assert.Equal(t, "sctp", ProtocolName(132))

	// Unrecognized numbers resolve to their decimal representation.
	assert.Equal(t, "255", ProtocolName(255))
	assert.Equal(t, "0", ProtocolName(0))
}

func TestResolve(t *testing.T) {
	table, err := lookup.Parse(strings.NewReader("80,tcp,web\n53,udp,dns\n"))
	require.NoError(t, err)

	tag, protocol := Resolve(&model.FlowRecord{DstPort: 80, Protocol: 6}, table)
	assert.Equal(t, "web", tag)
	assert.Equal(t, "tcp", protocol)

	tag, protocol = Resolve(&model.FlowRecord{DstPort: 53, Protocol: 17}, table)
	assert.Equal(t, "dns", tag)
	assert.Equal(t, "udp", protocol)
}

func TestResolveUntagged(t *testing.T) {
	table, err := lookup.Parse(strings.NewReader("80,tcp,web\n"))
	require.NoError(t, err)

	// Known protocol, unmatched port.
	tag, protocol := Resolve(&model.FlowRecord{DstPort: 22, Protocol: 6}, table)
	assert.Equal(t, Untagged, tag)
	assert.Equal(t, "tcp", protocol)

	// Unknown protocol number.
	tag, protocol = Resolve(&model.FlowRecord{DstPort: 80, Protocol: 199}, table)
	assert.Equal(t, Untagged, tag)
	assert.Equal(t, "199", protocol)
}

func TestResolveCaseInsensitiveTableCase(t *testing.T) {
	table, err := lookup.Parse(strings.NewReader("80,TCP,web\n"))
	require.NoError(t, err)

	tag, _ := Resolve(&model.FlowRecord{DstPort: 80, Protocol: 6}, table)
	assert.Equal(t, "web", tag)
}
