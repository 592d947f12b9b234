package betaprobe

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestWriteCSV_RoundTrip(t *testing.T) {
	first := sampleResult("/a.html", 200)
	first.SentCookies = "beta=new"
	first.CacheHit = CacheHit{Verdict: "TCP_HIT", Node: "a1-2-3-4"}
	first.AkamaiHost = "a1-2-3-4"

	second := sampleResult("/b.html", StatusTransportError)
	second.ContentLength = 0

	groups := []Group{
		{Result: first, Count: 2, TotalElapsed: 3.0},
		{Result: second, Count: 1, TotalElapsed: 30.0, Label: "timeout"},
	}

	path := filepath.Join(t.TempDir(), "results.csv")
	assert.NilError(t, writeCSV(path, groups))

	file, err := os.Open(path)
	assert.NilError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	assert.NilError(t, err)
	assert.Equal(t, len(rows), 2)

	assert.Equal(t, rows[0][1], "beta.example.com")
	assert.Equal(t, rows[0][2], "/a.html")
	assert.Equal(t, rows[0][3], "beta=new")
	assert.Equal(t, rows[0][4], "200")
	assert.Equal(t, rows[0][8], "true")
	assert.Equal(t, rows[0][10], "TCP_HIT")
	assert.Equal(t, rows[0][15], "2")
	avg, err := strconv.ParseFloat(rows[0][16], 64)
	assert.NilError(t, err)
	assert.Equal(t, avg, 1.5)
	assert.Equal(t, rows[0][17], "")

	assert.Equal(t, rows[1][4], "timeout")
	assert.Equal(t, rows[1][17], "timeout")
}

func TestWriteCSV_QuotesEveryField(t *testing.T) {
	result := sampleResult("/a.html", 200)
	result.CacheKey = `key with "quotes"`

	path := filepath.Join(t.TempDir(), "results.csv")
	assert.NilError(t, writeCSV(path, []Group{{Result: result, Count: 1, TotalElapsed: 1.0}}))

	raw, err := os.ReadFile(path)
	assert.NilError(t, err)

	line := strings.TrimSuffix(string(raw), "\n")
	assert.Assert(t, strings.HasPrefix(line, `"`))
	assert.Assert(t, strings.HasSuffix(line, `"`))
	assert.Assert(t, strings.Contains(line, `"key with ""quotes"""`))
	// every field is quoted, so separators are always quote-comma-quote
	assert.Equal(t, strings.Count(line, `","`), 17)
}

func TestWriteCSV_UnwritablePathFails(t *testing.T) {
	err := writeCSV(filepath.Join(t.TempDir(), "missing", "results.csv"), nil)
	assert.ErrorContains(t, err, "could not open output file")
}
