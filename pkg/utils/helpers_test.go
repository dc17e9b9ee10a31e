package utils

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	tests := map[string]string{
		"1234.5":     "1234.5",
		"1234,50":    "1234.5",
		"R$ 99,90":   "99.9",
		" -12.00 ":   "-12",
		"":           "0",
		"abc":        "0",
		"1.234,56":   "0",
		"R$":         "0",
		"0,01":       "0.01",
		"150":        "150",
		"  1500,5  ": "1500.5",
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseDecimal(in).String(), "input %q", in)
	}
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 5*time.Minute, ParseDuration("5m", time.Second))
	assert.Equal(t, time.Second, ParseDuration("", time.Second))
	assert.Equal(t, time.Second, ParseDuration("soon", time.Second))
	assert.Equal(t, time.Second, ParseDuration("-3s", time.Second))
	assert.Equal(t, 1500*time.Millisecond, ParseDuration(" 1.5s ", time.Second))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "ab...", Truncate("abc", 2))
	assert.Equal(t, "çã...", Truncate("çãoé", 2))
}

func TestOutputManager(t *testing.T) {
	base := t.TempDir()
	om := NewOutputManager(base)

	p, err := om.OutputFilePath("../../u-1", "../report.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "u-1", "report.json"), p)
	assert.DirExists(t, filepath.Join(base, "u-1"))
}

func TestFileType(t *testing.T) {
	assert.Equal(t, "csv", FileType("out/Rejected.CSV"))
	assert.Equal(t, "json", FileType("report.json"))
	assert.Equal(t, "excel", FileType("orders.xlsx"))
	assert.Equal(t, "unknown", FileType("README"))
}
