package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV_NoRows(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []string{"a", "b"}, nil)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestWriteCSV_HeaderFirst(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf,
		[]string{"timestamp", "temperature"},
		[][]string{
			{"2026-08-31 10:00:00", "26.5"},
			{"2026-08-31 10:00:05", "27.1"},
		})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "timestamp,temperature", lines[0])
	assert.Equal(t, "2026-08-31 10:00:00,26.5", lines[1])
}

func TestWriteCSV_QuotesFields(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf,
		[]string{"time", "description"},
		[][]string{{"2026-08-31 10:00:00", `Pompa "utama", ON`}})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"Pompa ""utama"", ON"`)
}
