package lookup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	table, err := Parse(strings.NewReader("80,tcp,web\n53,udp,dns\n"))
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	tag, ok := table.Lookup(80, "tcp")
	require.True(t, ok)
	assert.Equal(t, "web", tag)

	_, ok = table.Lookup(8080, "tcp")
	assert.False(t, ok)
}

func TestParseSkipsHeaderRow(t *testing.T) {
	table, err := Parse(strings.NewReader("destination_port,protocol,tag\n80,tcp,web\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	tag, ok := table.Lookup(80, "tcp")
	require.True(t, ok)
	assert.Equal(t, "web", tag)
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	table, err := Parse(strings.NewReader("80,TCP,web\n443,tcp,secure-web\n"))
	require.NoError(t, err)

	for _, protocol := range []string{"tcp", "TCP", "Tcp"} {
		tag, ok := table.Lookup(80, protocol)
		require.True(t, ok, "protocol %q should match", protocol)
		assert.Equal(t, "web", tag)
	}
}

func TestParseDuplicateKeysLastWriteWins(t *testing.T) {
	table, err := Parse(strings.NewReader("80,tcp,first\n80,TCP,second\n"))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	tag, ok := table.Lookup(80, "tcp")
	require.True(t, ok)
	assert.Equal(t, "second", tag)
}

func TestParseMalformedRows(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"non-numeric port past first row", "80,tcp,web\nabc,tcp,oops\n"},
		{"missing tag field", "80,tcp,web\n53,udp\n"},
		{"extra field", "80,tcp,web,extra\n"},
		{"port out of range", "70000,tcp,web\n"},
		{"empty protocol", "80,,web\n"},
		{"empty tag", "80,tcp,\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lookup.csv")
	require.NoError(t, os.WriteFile(path, []byte("80,tcp,web\n"), 0644))

	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.csv"))
	assert.Error(t, err)
}
