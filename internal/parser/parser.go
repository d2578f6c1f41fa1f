package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SpongeBobBD/logflow-processor/internal/model"
)

// SupportedVersion is the single flow log record version this parser accepts.
const SupportedVersion = 2

// recordFields is the column count of a version-2 flow log record:
// version account-id interface-id srcaddr dstaddr dstport srcport protocol
// packets bytes start end action log-status.
const recordFields = 14

// ErrBadLine marks a malformed log line. The line is skippable; callers check
// for it with errors.Is and continue with the next line.
var ErrBadLine = errors.New("malformed flow log line")

// VersionError reports a record whose version field parsed but does not equal
// SupportedVersion. It is fatal for the whole run: the lookup table and
// record schema are version-specific, so continuing would corrupt every
// subsequent count.
type VersionError struct {
	Found int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("unsupported log version %d, expected %d", e.Found, SupportedVersion)
}

// ParseLine splits one raw log line into a FlowRecord, validating the field
// count and every numeric column exactly once. It returns an error wrapping
// ErrBadLine for skippable lines and a *VersionError for version mismatches.
func ParseLine(line string) (*model.FlowRecord, error) {
	fields := strings.Fields(line)
	if len(fields) != recordFields {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrBadLine, recordFields, len(fields))
	}

	version, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid version field '%s'", ErrBadLine, fields[0])
	}
	if version != SupportedVersion {
		return nil, &VersionError{Found: version}
	}

	dstPort, err := parsePort(fields[5])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid dstport field: %v", ErrBadLine, err)
	}
	srcPort, err := parsePort(fields[6])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid srcport field: %v", ErrBadLine, err)
	}
	protocol, err := strconv.Atoi(fields[7])
	if err != nil || protocol < 0 {
		return nil, fmt.Errorf("%w: invalid protocol field '%s'", ErrBadLine, fields[7])
	}

	packets, err := strconv.ParseInt(fields[8], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid packets field '%s'", ErrBadLine, fields[8])
	}
	bytes, err := strconv.ParseInt(fields[9], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid bytes field '%s'", ErrBadLine, fields[9])
	}
	start, err := strconv.ParseInt(fields[10], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start field '%s'", ErrBadLine, fields[10])
	}
	end, err := strconv.ParseInt(fields[11], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end field '%s'", ErrBadLine, fields[11])
	}

	return &model.FlowRecord{
		Version:     version,
		AccountID:   fields[1],
		InterfaceID: fields[2],
		SrcAddr:     fields[3],
		DstAddr:     fields[4],
		DstPort:     dstPort,
		SrcPort:     srcPort,
		Protocol:    protocol,
		Packets:     packets,
		Bytes:       bytes,
		Start:       start,
		End:         end,
		Action:      fields[12],
		LogStatus:   fields[13],
	}, nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("'%s' is not a number", s)
	}
	if port < 0 || port > 65535 {
		return 0, fmt.Errorf("%d out of range", port)
	}
	return port, nil
}
