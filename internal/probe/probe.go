package probe

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/angeloszaimis/site-monitor/internal/models"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "Website-Monitor/1.0"

	timeoutDetail = "Timeout"
)

// Prober issues GET requests against sites and classifies the outcome.
type Prober struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	now       func() time.Time
}

// Option customises a Prober.
type Option func(*Prober)

// WithClock replaces the clock used for observed_at timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Prober) {
		p.now = now
	}
}

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(p *Prober) {
		p.client.Transport = rt
	}
}

// New creates a Prober. Certificate chains are not verified and redirects are
// not followed: a 3xx answer is itself a reachable response.
func New(timeout time.Duration, userAgent string, opts ...Option) *Prober {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}

	p := &Prober{
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		timeout:   timeout,
		userAgent: userAgent,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Probe checks one site and returns exactly one result.
func (p *Prober) Probe(ctx context.Context, site models.Site) models.CheckResult {
	result := models.CheckResult{
		Site:       site,
		LatencyMS:  models.LatencyNotMeasured,
		ObservedAt: p.now(),
	}

	target, err := parseTarget(site.URL)
	if err != nil {
		result.Error = "invalid URL: " + err.Error()
		return result
	}
	result.Secure = target.Scheme == "https"

	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target.String(), nil)
	if err != nil {
		result.Error = "invalid URL: " + err.Error()
		return result
	}
	req.Header.Set("User-Agent", p.userAgent)

	start := time.Now()
	res, err := p.client.Do(req)
	if err != nil {
		result.Error = describeError(err)
		result.ObservedAt = p.now()
		return result
	}
	res.Body.Close()

	result.LatencyMS = time.Since(start).Milliseconds()
	result.StatusCode = res.StatusCode
	result.Reachable = models.IsReachableStatus(res.StatusCode)
	result.ObservedAt = p.now()
	if !result.Reachable {
		result.Error = fmt.Sprintf("HTTP %d", res.StatusCode)
	}

	return result
}

func parseTarget(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return nil, urlErr.Err
		}
		return nil, err
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		if u.Scheme == "" {
			return nil, errors.New("missing scheme")
		}
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("missing host")
	}

	return u, nil
}

func describeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return timeoutDetail
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return timeoutDetail
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}

	return err.Error()
}
