package tagger

import (
	"strconv"

	"github.com/SpongeBobBD/logflow-processor/internal/lookup"
	"github.com/SpongeBobBD/logflow-processor/internal/model"
)

// Untagged is the sentinel tag for records with no lookup table match.
const Untagged = "Untagged"

// protocolNames maps IANA protocol numbers to the names used in lookup keys.
var protocolNames = map[int]string{
	1:   "icmp",
	2:   "igmp",
	6:   "tcp",
	17:  "udp",
	41:  "ipv6-encapsulation",
	47:  "gre",
	50:  "esp",
	51:  "ah",
	58:  "icmpv6",
	89:  "ospf",
	132: "sctp",
}

// ProtocolName resolves a numeric protocol identifier to its lowercase name.
// Unrecognized numbers resolve to their decimal representation rather than
// failing, so an unknown protocol still aggregates under a stable key.
func ProtocolName(number int) string {
	if name, ok := protocolNames[number]; ok {
		return name
	}
	return strconv.Itoa(number)
}

// Resolve classifies a record against the lookup table. It returns the tag
// (Untagged when the table has no entry) and the resolved protocol name.
func Resolve(rec *model.FlowRecord, table *lookup.Table) (tag string, protocol string) {
	protocol = ProtocolName(rec.Protocol)
	tag, ok := table.Lookup(rec.DstPort, protocol)
	if !ok {
		tag = Untagged
	}
	return tag, protocol
}
