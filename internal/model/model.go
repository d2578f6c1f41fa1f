package model

// FlowRecord holds the fields of a single version-2 flow log line.
// Only Version, DstPort and Protocol feed the aggregation; the remaining
// columns are parsed so that malformed lines are caught in one place.
type FlowRecord struct {
	Version     int
	AccountID   string
	InterfaceID string
	SrcAddr     string
	DstAddr     string
	DstPort     int
	SrcPort     int
	Protocol    int
	Packets     int64
	Bytes       int64
	Start       int64
	End         int64
	Action      string
	LogStatus   string
}

// PortProtocol identifies a destination port / protocol name combination.
// The protocol name is always lowercase.
type PortProtocol struct {
	Port     int
	Protocol string
}

// ReportSnapshot is the read-only result of a completed aggregation run.
type ReportSnapshot struct {
	TagCounts          map[string]uint64
	PortProtocolCounts map[PortProtocol]uint64

	// ProcessedLines is the number of lines that contributed to the counts.
	// SkippedLines counts malformed lines that were dropped.
	ProcessedLines uint64
	SkippedLines   uint64
}
