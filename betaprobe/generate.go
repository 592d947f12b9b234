package betaprobe

import "context"

// generateRequests produces the lazy cross product of repetition, path,
// cookie variant and address, in that nesting order. The channel is closed
// once the sequence is exhausted or the context is cancelled; calling again
// restarts the sequence from the top. Each Request carries its own copy of
// the header map so downstream consumers cannot leak state into each other.
func generateRequests(ctx context.Context, cfg Config) <-chan Request {
	headers := make(map[string]string, len(cfg.Headers)+1)
	for name, value := range cfg.Headers {
		headers[name] = value
	}
	headers["Host"] = cfg.Host

	addresses := cfg.Addresses
	if len(addresses) == 0 {
		addresses = []string{""}
	}

	out := make(chan Request)
	go func() {
		defer close(out)
		for rep := 0; rep < cfg.TestsPerPath; rep++ {
			for _, pathSpec := range cfg.Paths {
				for _, cookies := range cfg.CookieVariants {
					for _, address := range addresses {
						request := Request{
							Address: address,
							Host:    cfg.Host,
							Path:    pathSpec.Path,
							Headers: copyHeaders(headers),
							Cookies: cookies,
							InTest:  pathSpec.InTest,
						}
						select {
						case out <- request:
						case <-ctx.Done():
							return
						}
					}
				}
			}
		}
	}()

	return out
}

func copyHeaders(headers map[string]string) map[string]string {
	ret := make(map[string]string, len(headers))
	for name, value := range headers {
		ret[name] = value
	}
	return ret
}
