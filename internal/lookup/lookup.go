package lookup

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/SpongeBobBD/logflow-processor/internal/model"
)

// Table maps a (destination port, protocol name) pair to a tag. The protocol
// part of the key is stored lowercase so lookups are case-insensitive.
// A Table is immutable once built.
type Table struct {
	entries map[model.PortProtocol]string
}

// Load reads the lookup table from a CSV file with rows of the form
// port,protocol,tag. A first row whose port field is not numeric is treated
// as a header and skipped. Duplicate keys are resolved last-write-wins.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lookup table: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load lookup table from '%s': %w", path, err)
	}
	return t, nil
}

// Parse builds a Table from CSV rows read from r.
func Parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	entries := make(map[model.PortProtocol]string)
	row := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed lookup row: %w", err)
		}
		row++

		port, portErr := strconv.Atoi(strings.TrimSpace(record[0]))
		if portErr != nil {
			if row == 1 {
				// Header row, e.g. "destination_port,protocol,tag".
				continue
			}
			return nil, fmt.Errorf("lookup row %d: invalid port '%s'", row, record[0])
		}
		if port < 0 || port > 65535 {
			return nil, fmt.Errorf("lookup row %d: port %d out of range", row, port)
		}

		protocol := strings.ToLower(strings.TrimSpace(record[1]))
		if protocol == "" {
			return nil, fmt.Errorf("lookup row %d: missing protocol", row)
		}
		tag := strings.TrimSpace(record[2])
		if tag == "" {
			return nil, fmt.Errorf("lookup row %d: missing tag", row)
		}

		entries[model.PortProtocol{Port: port, Protocol: protocol}] = tag
	}

	return &Table{entries: entries}, nil
}

// Lookup returns the tag for a (port, protocol) pair. The protocol name is
// matched case-insensitively.
func (t *Table) Lookup(port int, protocol string) (string, bool) {
	tag, ok := t.entries[model.PortProtocol{Port: port, Protocol: strings.ToLower(protocol)}]
	return tag, ok
}

// Len returns the number of distinct keys in the table.
func (t *Table) Len() int {
	return len(t.entries)
}
