package betaprobe

import (
	"net/http"
	"testing"

	"gotest.tools/v3/assert"
)

func TestParseXCache(t *testing.T) {
	hit := parseXCache("TCP_HIT from a104-78-10-9")

	assert.Equal(t, hit.Verdict, "TCP_HIT")
	assert.Equal(t, hit.Node, "a104-78-10-9")
}

func TestParseXCache_TrailingDetailIgnored(t *testing.T) {
	hit := parseXCache("TCP_MISS from edge-node-12 (AkamaiGHost/10.4)")

	assert.Equal(t, hit.Verdict, "TCP_MISS")
	assert.Equal(t, hit.Node, "edge-node-12")
}

func TestParseXCache_Malformed(t *testing.T) {
	assert.Equal(t, parseXCache(""), CacheHit{})
	assert.Equal(t, parseXCache("garbage"), CacheHit{})
	assert.Equal(t, parseXCache("from nowhere"), CacheHit{})
}

func TestGuessOrigin(t *testing.T) {
	marker := "Current revision:"

	assert.Equal(t, guessOrigin([]byte("<html>Current revision: 42</html>"), marker), OriginNew)
	assert.Equal(t, guessOrigin([]byte("<html>legacy page</html>"), marker), OriginOld)
	assert.Equal(t, guessOrigin(nil, marker), OriginUnknown)
	assert.Equal(t, guessOrigin([]byte("anything"), ""), OriginUnknown)
}

func TestCanonicalCookies(t *testing.T) {
	recognized := map[string]bool{"beta": true, "legacy": true}

	cookies := map[string]string{
		"sessionid": "abc123",
		"legacy":    "old",
		"beta":      "new",
	}

	assert.Equal(t, canonicalCookies(cookies, recognized), "beta=new; legacy=old")
}

func TestCanonicalCookies_DropsUnrecognized(t *testing.T) {
	recognized := map[string]bool{"beta": true}

	assert.Equal(t, canonicalCookies(map[string]string{"tracking": "x"}, recognized), "")
	assert.Equal(t, canonicalCookies(map[string]string{}, recognized), "")
}

func TestReceivedCookies_Sorted(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Add("Set-Cookie", "zone=west")
	resp.Header.Add("Set-Cookie", "abtest=b")

	assert.Equal(t, receivedCookies(resp), "abtest=b; zone=west")
}
