package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validLine = "2 123456789012 eni-a1b2 10.0.0.1 198.51.100.2 443 49153 6 25 20000 1620140761 1620141061 ACCEPT OK"

func TestParseLine(t *testing.T) {
	rec, err := ParseLine(validLine)
	require.NoError(t, err)

	assert.Equal(t, 2, rec.Version)
	assert.Equal(t, "123456789012", rec.AccountID)
	assert.Equal(t, "eni-a1b2", rec.InterfaceID)
	assert.Equal(t, "10.0.0.1", rec.SrcAddr)
	assert.Equal(t, "198.51.100.2", rec.DstAddr)
	assert.Equal(t, 443, rec.DstPort)
	assert.Equal(t, 49153, rec.SrcPort)
	assert.Equal(t, 6, rec.Protocol)
	assert.Equal(t, int64(25), rec.Packets)
	assert.Equal(t, int64(20000), rec.Bytes)
	assert.Equal(t, "ACCEPT", rec.Action)
	assert.Equal(t, "OK", rec.LogStatus)
}

func TestParseLineHandlesRepeatedWhitespace(t *testing.T) {
	rec, err := ParseLine("2  123456789012\teni-a1b2 10.0.0.1 198.51.100.2 80 1024 17 1 100 1620140761 1620140762 ACCEPT OK")
	require.NoError(t, err)
	assert.Equal(t, 80, rec.DstPort)
	assert.Equal(t, 17, rec.Protocol)
}

func TestParseLineMalformed(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{"too few fields", "2 123456789012 eni-a1b2 10.0.0.1 198.51.100.2 443 49153 6 25 20000"},
		{"too many fields", validLine + " extra"},
		{"non-numeric version", "x 123456789012 eni-a1b2 10.0.0.1 198.51.100.2 443 49153 6 25 20000 1620140761 1620141061 ACCEPT OK"},
		{"non-numeric dstport", "2 123456789012 eni-a1b2 10.0.0.1 198.51.100.2 http 49153 6 25 20000 1620140761 1620141061 ACCEPT OK"},
		{"dstport out of range", "2 123456789012 eni-a1b2 10.0.0.1 198.51.100.2 70000 49153 6 25 20000 1620140761 1620141061 ACCEPT OK"},
		{"non-numeric protocol", "2 123456789012 eni-a1b2 10.0.0.1 198.51.100.2 443 49153 tcp 25 20000 1620140761 1620141061 ACCEPT OK"},
		{"non-numeric bytes", "2 123456789012 eni-a1b2 10.0.0.1 198.51.100.2 443 49153 6 25 x 1620140761 1620141061 ACCEPT OK"},
		{"empty line", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := ParseLine(tc.line)
			require.Error(t, err)
			assert.Nil(t, rec)
			assert.True(t, errors.Is(err, ErrBadLine), "expected a skippable line error, got %v", err)
		})
	}
}

func TestParseLineVersionMismatchIsFatal(t *testing.T) {
	rec, err := ParseLine("3 123456789012 eni-a1b2 10.0.0.1 198.51.100.2 443 49153 6 25 20000 1620140761 1620141061 ACCEPT OK")
	require.Error(t, err)
	assert.Nil(t, rec)

	var vErr *VersionError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, 3, vErr.Found)
	assert.False(t, errors.Is(err, ErrBadLine), "a version mismatch must not look skippable")
	assert.Contains(t, vErr.Error(), "unsupported log version 3")
}
