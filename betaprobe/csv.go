package betaprobe

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// csvRow flattens a group into its output fields: the Result fields in
// signature order, then count, average elapsed seconds and outcome label.
func csvRow(group Group) []string {
	result := group.Result
	return []string{
		result.Address,
		result.Host,
		result.Path,
		result.SentCookies,
		statusString(result.StatusCode),
		string(result.Origin),
		result.ReceivedCookies,
		strconv.FormatInt(result.ContentLength, 10),
		strconv.FormatBool(result.InTest),
		result.AkamaiHost,
		result.CacheHit.Verdict,
		result.CacheHit.Node,
		result.CacheKey,
		result.TrueCacheKey,
		result.Cacheable,
		strconv.Itoa(group.Count),
		strconv.FormatFloat(group.AverageElapsed(), 'f', 6, 64),
		group.Label,
	}
}

// writeCSV writes one row per group to path, header-free, in the order
// given. Every field is quoted; encoding/csv only quotes on demand, so the
// quoting is done by hand (the reader side still parses it as regular CSV).
func writeCSV(path string, groups []Group) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not open output file")
	}

	writer := bufio.NewWriter(file)
	for _, group := range groups {
		fields := csvRow(group)
		for index, field := range fields {
			fields[index] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
		}
		if _, err := writer.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
			file.Close()
			return errors.Wrap(err, "could not write output row")
		}
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		return errors.Wrap(err, "could not flush output file")
	}

	return errors.Wrap(file.Close(), "could not finish output file")
}
