package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"
)

// wellKnownPorts pairs common destination ports with the protocol they ride on.
var wellKnownPorts = map[int]string{
	22:    "tcp",
	23:    "tcp",
	25:    "tcp",
	53:    "udp",
	80:    "tcp",
	110:   "tcp",
	143:   "tcp",
	443:   "tcp",
	993:   "tcp",
	3389:  "tcp",
	49153: "udp",
}

// tagOptions deliberately mixes case to exercise case-insensitive matching.
var tagOptions = []string{"sv_P1", "sv_P2", "sv_P3", "sv_P4", "sv_P5", "SV_P1", "SV_P2", "email", "Email"}

func main() {
	logSizeMB := flag.Int("log-size-mb", 10, "Maximum size of the generated log file in MB")
	lookupEntries := flag.Int("lookup-entries", 10000, "Number of rows in the generated lookup table")
	logPrefix := flag.String("log-prefix", "network_logs", "Prefix for the date-stamped log file")
	lookupFile := flag.String("lookup", "port_protocol_lookup.csv", "Output path for the lookup table CSV")
	flag.Parse()

	logFile := fmt.Sprintf("%s_%s.log", *logPrefix, time.Now().Format("2006-01-02"))

	log.Printf("Generating up to %d MB of flow logs into %s...", *logSizeMB, logFile)
	if err := generateLogFile(logFile, *logSizeMB); err != nil {
		log.Fatalf("Failed to generate log file: %v", err)
	}

	log.Printf("Generating %d lookup rows into %s...", *lookupEntries, *lookupFile)
	if err := generateLookupFile(*lookupFile, *lookupEntries); err != nil {
		log.Fatalf("Failed to generate lookup file: %v", err)
	}

	log.Println("Done.")
}

// generateLogFile writes random version-2 flow log records until the file
// reaches maxSizeMB.
func generateLogFile(path string, maxSizeMB int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	maxBytes := maxSizeMB * 1024 * 1024
	written := 0

	ports := make([]int, 0, len(wellKnownPorts))
	for port := range wellKnownPorts {
		ports = append(ports, port)
	}

	start := int64(1620140761)
	for written < maxBytes {
		dstPort := ports[rand.Intn(len(ports))]
		protocol := 6 // tcp
		if rand.Intn(2) == 1 {
			protocol = 17 // udp
		}
		end := start + int64(rand.Intn(1000)+1)
		action := "ACCEPT"
		if rand.Intn(2) == 1 {
			action = "REJECT"
		}

		line := fmt.Sprintf("2 123456789012 eni-%c%d%c%d 10.0.%d.%d 198.51.100.%d %d %d %d %d %d %d %d %s OK\n",
			'a'+rune(rand.Intn(6)), rand.Intn(9)+1, 'a'+rune(rand.Intn(6)), rand.Intn(9)+1,
			rand.Intn(256), rand.Intn(256), rand.Intn(255)+1,
			dstPort, rand.Intn(65535)+1, protocol,
			rand.Intn(100)+1, rand.Intn(99900)+100, start, end, action)

		n, err := w.WriteString(line)
		if err != nil {
			return err
		}
		written += n
	}

	return w.Flush()
}

// generateLookupFile writes a header row followed by random port/protocol/tag
// mappings drawn from the well-known port set.
func generateLookupFile(path string, entries int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"destination_port", "protocol", "tag"}); err != nil {
		return err
	}

	ports := make([]int, 0, len(wellKnownPorts))
	for port := range wellKnownPorts {
		ports = append(ports, port)
	}

	for i := 0; i < entries; i++ {
		port := ports[rand.Intn(len(ports))]
		row := []string{strconv.Itoa(port), wellKnownPorts[port], tagOptions[rand.Intn(len(tagOptions))]}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
