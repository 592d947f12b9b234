package betaprobe

import (
	"net/http"
	"sort"
	"strconv"
)

// aggregate groups timed results by their full outcome signature,
// accumulating count and total elapsed time per group, then labels each
// group and sorts them into the natural Result order. Input order is
// irrelevant: the same multiset of results always produces the same
// groups in the same order.
func aggregate(results []timedResult) []Group {
	grouped := map[Result]*Group{}
	for _, pair := range results {
		group := grouped[pair.result]
		if group == nil {
			group = &Group{Result: pair.result}
			grouped[pair.result] = group
		}
		group.Count++
		group.TotalElapsed += pair.elapsed
	}

	groups := make([]Group, 0, len(grouped))
	for _, group := range grouped {
		group.Label = outcomeLabel(group.Result)
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Result.less(groups[j].Result)
	})

	return groups
}

// outcomeLabel applies the anomaly heuristics: any non-200 status is
// suspect and labelled with its string form, a 200 with an empty body is
// suspect too, everything else passes unlabelled.
func outcomeLabel(result Result) string {
	if result.StatusCode != http.StatusOK {
		return statusString(result.StatusCode)
	}
	if result.ContentLength == 0 {
		return "empty response"
	}
	return ""
}

// statusString renders a status code for output, mapping the transport
// failure sentinel to the word operators grep for.
func statusString(code int) string {
	if code == StatusTransportError {
		return "timeout"
	}
	return strconv.Itoa(code)
}
