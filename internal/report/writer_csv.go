package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/SpongeBobBD/logflow-processor/internal/model"
	"github.com/SpongeBobBD/logflow-processor/internal/tagger"
)

// CSVWriter renders a report snapshot into the canonical two-section CSV
// document. It implements the model.Writer interface.
//
// Section one is "Tag Counts" with Tag,Count rows sorted by descending count,
// ties broken by ascending tag name, and the Untagged row always last.
// Section two is "Port/Protocol Combination Counts" with Port,Protocol,Count
// rows sorted by ascending port then protocol name. The ordering is fully
// deterministic, so identical input produces a byte-identical report.
type CSVWriter struct {
	path string
}

// NewCSVWriter creates a writer that publishes the report at path.
func NewCSVWriter(path string) model.Writer {
	return &CSVWriter{path: path}
}

// Write renders the snapshot to a temporary file and renames it into place,
// so a failed run never leaves a partial report at the destination.
func (w *CSVWriter) Write(snapshot *model.ReportSnapshot, timestamp string) error {
	tmpPath := w.path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create report file '%s': %w", tmpPath, err)
	}

	if err := render(file, snapshot); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close report file: %w", err)
	}

	if err := os.Rename(tmpPath, w.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to publish report to '%s': %w", w.path, err)
	}
	return nil
}

func render(out io.Writer, snapshot *model.ReportSnapshot) error {
	cw := csv.NewWriter(out)

	cw.Write([]string{"Tag Counts"})
	cw.Write([]string{"Tag", "Count"})
	for _, row := range sortedTagCounts(snapshot) {
		cw.Write([]string{row.Tag, strconv.FormatUint(row.Count, 10)})
	}

	cw.Write([]string{})
	cw.Write([]string{"Port/Protocol Combination Counts"})
	cw.Write([]string{"Port", "Protocol", "Count"})
	for _, row := range sortedPortProtocolCounts(snapshot) {
		cw.Write([]string{
			strconv.Itoa(row.Key.Port),
			row.Key.Protocol,
			strconv.FormatUint(row.Count, 10),
		})
	}

	cw.Flush()
	return cw.Error()
}

// TagCount is one row of the tag section in its final order.
type TagCount struct {
	Tag   string
	Count uint64
}

// PortProtocolCount is one row of the combination section in its final order.
type PortProtocolCount struct {
	Key   model.PortProtocol
	Count uint64
}

// sortedTagCounts orders tags by descending count with ascending-name
// tie-breaks. Untagged is held out and appended last regardless of its count,
// and is omitted entirely when zero.
func sortedTagCounts(snapshot *model.ReportSnapshot) []TagCount {
	rows := make([]TagCount, 0, len(snapshot.TagCounts))
	for tag, count := range snapshot.TagCounts {
		if tag == tagger.Untagged {
			continue
		}
		rows = append(rows, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Tag < rows[j].Tag
	})
	if untagged := snapshot.TagCounts[tagger.Untagged]; untagged > 0 {
		rows = append(rows, TagCount{Tag: tagger.Untagged, Count: untagged})
	}
	return rows
}

func sortedPortProtocolCounts(snapshot *model.ReportSnapshot) []PortProtocolCount {
	rows := make([]PortProtocolCount, 0, len(snapshot.PortProtocolCounts))
	for key, count := range snapshot.PortProtocolCounts {
		rows = append(rows, PortProtocolCount{Key: key, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Key.Port != rows[j].Key.Port {
			return rows[i].Key.Port < rows[j].Key.Port
		}
		return rows[i].Key.Protocol < rows[j].Key.Protocol
	})
	return rows
}
