package betaprobe

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// executor performs diagnostic requests through one shared pooled client.
// It is safe for concurrent use: all fields are read-only after creation.
type executor struct {
	client     *http.Client
	delay      time.Duration
	marker     string
	recognized map[string]bool
	logger     *logrus.Logger
}

func newExecutor(cfg Config, logger *logrus.Logger) *executor {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          cfg.Processes,
		MaxIdleConnsPerHost:   cfg.Processes,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &executor{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		delay:      cfg.Delay,
		marker:     cfg.OriginMarker,
		recognized: cfg.recognizedCookieNames(),
		logger:     logger,
	}
}

// Do executes one diagnostic request and always returns a terminal Result
// plus the wall-clock seconds the network call took. Transport failures are
// converted into the sentinel signature, never propagated. The pre-call
// delay is outside the measured window.
func (e *executor) Do(ctx context.Context, request Request) (Result, float64) {
	if e.delay > 0 {
		select {
		case <-time.After(e.delay):
		case <-ctx.Done():
		}
	}

	target := request.Address
	if target == "" {
		target = request.Host
	}
	url := "http://" + target + request.Path

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		e.logger.WithError(err).Errorf("could not build request for %s", url)
		return e.failedResult(request), 0
	}
	for name, value := range request.Headers {
		if strings.EqualFold(name, "Host") {
			continue
		}
		httpReq.Header.Set(name, value)
	}
	httpReq.Host = request.Host
	for name, value := range request.Cookies {
		httpReq.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	before := time.Now()
	resp, err := e.client.Do(httpReq)
	if err != nil {
		elapsed := time.Since(before).Seconds()
		e.logger.WithError(err).Errorf("request to %s failed", url)
		return e.failedResult(request), elapsed
	}
	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	elapsed := time.Since(before).Seconds()

	e.logger.Infof("%s [%.2f]", url, elapsed)

	result := Result{
		Address:         request.Address,
		Host:            request.Host,
		Path:            request.Path,
		SentCookies:     canonicalCookies(request.Cookies, e.recognized),
		StatusCode:      resp.StatusCode,
		ReceivedCookies: receivedCookies(resp),
		InTest:          request.InTest,
		CacheHit:        parseXCache(resp.Header.Get("X-Cache")),
		CacheKey:        resp.Header.Get("X-Cache-Key"),
		TrueCacheKey:    resp.Header.Get("X-True-Cache-Key"),
		Cacheable:       resp.Header.Get("X-Check-Cacheable"),
	}
	result.AkamaiHost = result.CacheHit.Node
	if readErr != nil {
		e.logger.WithError(readErr).Errorf("could not read body from %s", url)
	} else {
		result.Origin = guessOrigin(body, e.marker)
		result.ContentLength = int64(len(body))
	}

	return result, elapsed
}

// failedResult is the terminal signature of a request that never produced
// an HTTP response. Response-derived fields stay at their unknown zero
// values.
func (e *executor) failedResult(request Request) Result {
	return Result{
		Address:     request.Address,
		Host:        request.Host,
		Path:        request.Path,
		SentCookies: canonicalCookies(request.Cookies, e.recognized),
		StatusCode:  StatusTransportError,
		InTest:      request.InTest,
	}
}
