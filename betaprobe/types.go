package betaprobe

// Origin identifies which backend variant generated a response.
type Origin string

const (
	OriginNew     Origin = "new"
	OriginOld     Origin = "old"
	OriginUnknown Origin = ""
)

// StatusTransportError is the sentinel status code recorded when a request
// never produced an HTTP response (timeout, connection or DNS failure).
const StatusTransportError = 0

// Request describes one diagnostic request. It is fully determined by the
// cross-product indices the generator iterates over and carries no derived
// state.
type Request struct {
	Address string // explicit endpoint; empty means resolve Host via DNS
	Host    string
	Path    string
	Headers map[string]string
	Cookies map[string]string
	InTest  bool
}

// CacheHit is the parsed form of the CDN X-Cache header. The zero value
// means the header was absent or malformed.
type CacheHit struct {
	Verdict string
	Node    string
}

// Result is the canonical outcome signature of one request. It is a plain
// comparable value so it can key the grouping map directly: two requests
// whose outcomes agree on every field fall into the same output row.
// Elapsed time is deliberately not part of the signature.
type Result struct {
	Address         string
	Host            string
	Path            string
	SentCookies     string // canonical "name=value; ..." form, see canonicalCookies
	StatusCode      int
	Origin          Origin
	ReceivedCookies string
	ContentLength   int64
	InTest          bool
	AkamaiHost      string
	CacheHit        CacheHit
	CacheKey        string
	TrueCacheKey    string
	Cacheable       string
}

// less orders Results by their natural field order, giving the output a
// deterministic total order across runs.
func (r Result) less(other Result) bool {
	if r.Address != other.Address {
		return r.Address < other.Address
	}
	if r.Host != other.Host {
		return r.Host < other.Host
	}
	if r.Path != other.Path {
		return r.Path < other.Path
	}
	if r.SentCookies != other.SentCookies {
		return r.SentCookies < other.SentCookies
	}
	if r.StatusCode != other.StatusCode {
		return r.StatusCode < other.StatusCode
	}
	if r.Origin != other.Origin {
		return r.Origin < other.Origin
	}
	if r.ReceivedCookies != other.ReceivedCookies {
		return r.ReceivedCookies < other.ReceivedCookies
	}
	if r.ContentLength != other.ContentLength {
		return r.ContentLength < other.ContentLength
	}
	if r.InTest != other.InTest {
		return !r.InTest
	}
	if r.AkamaiHost != other.AkamaiHost {
		return r.AkamaiHost < other.AkamaiHost
	}
	if r.CacheHit != other.CacheHit {
		if r.CacheHit.Verdict != other.CacheHit.Verdict {
			return r.CacheHit.Verdict < other.CacheHit.Verdict
		}
		return r.CacheHit.Node < other.CacheHit.Node
	}
	if r.CacheKey != other.CacheKey {
		return r.CacheKey < other.CacheKey
	}
	if r.TrueCacheKey != other.TrueCacheKey {
		return r.TrueCacheKey < other.TrueCacheKey
	}
	return r.Cacheable < other.Cacheable
}

// timedResult pairs a Result with the wall-clock seconds its request took.
type timedResult struct {
	result  Result
	elapsed float64
}

// Group is one aggregated set of requests sharing a Result signature.
type Group struct {
	Result       Result
	Count        int
	TotalElapsed float64 // seconds
	Label        string  // anomaly heuristic, empty when nothing looks wrong
}

// AverageElapsed returns the mean per-request wall time of the group.
func (g Group) AverageElapsed() float64 {
	if g.Count == 0 {
		return 0
	}
	return g.TotalElapsed / float64(g.Count)
}
