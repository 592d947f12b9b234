package betaprobe

import (
	"bytes"
	"net/http"
	"regexp"
	"sort"
	"strings"
)

// xCachePattern matches diagnostic values such as "TCP_HIT from a23-56-12-9".
var xCachePattern = regexp.MustCompile(`^(\w+) from ([\w-]+)`)

// parseXCache splits an X-Cache header value into its verdict and serving
// node. Absent or malformed values yield the zero CacheHit, never an error.
func parseXCache(value string) CacheHit {
	groups := xCachePattern.FindStringSubmatch(value)
	if groups == nil {
		return CacheHit{}
	}
	return CacheHit{Verdict: groups[1], Node: groups[2]}
}

// guessOrigin decides which origin variant produced a response body. The
// marker substring only ever appears in pages rendered by the new origin;
// there is no authoritative header for this, so it stays a content
// heuristic. A nil body (unreadable response) is unknown.
func guessOrigin(body []byte, marker string) Origin {
	if body == nil || marker == "" {
		return OriginUnknown
	}
	if bytes.Contains(body, []byte(marker)) {
		return OriginNew
	}
	return OriginOld
}

// canonicalCookies reduces a cookie mapping to its canonical grouping form:
// pairs restricted to recognized names, sorted, rendered "name=value" and
// joined with "; ". Any two mappings with the same recognized content
// canonicalize identically regardless of key order or extraneous cookies.
func canonicalCookies(cookies map[string]string, recognized map[string]bool) string {
	pairs := make([]string, 0, len(cookies))
	for name, value := range cookies {
		if recognized[name] {
			pairs = append(pairs, name+"="+value)
		}
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "; ")
}

// receivedCookies renders the cookies a response set, sorted for stable
// grouping.
func receivedCookies(resp *http.Response) string {
	pairs := make([]string, 0, len(resp.Cookies()))
	for _, cookie := range resp.Cookies() {
		pairs = append(pairs, cookie.Name+"="+cookie.Value)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "; ")
}
