package whm

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	DefaultPort    = 2087
	DefaultTimeout = 10 * time.Second

	userAgent = "Mozilla/5.0 (WHM Monitor)"
)

var ErrMissingToken = errors.New("whm: api token not configured")

// Config identifies the panel and the credentials used against it.
type Config struct {
	Host     string
	Port     int
	Username string
	APIToken string
	Timeout  time.Duration
}

// Client calls the panel's JSON API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a Client. Zero port and timeout take the defaults.
func NewClient(cfg Config) *Client {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
	}
}

// FetchDomainRecords lists every domain known to the panel.
func (c *Client) FetchDomainRecords(ctx context.Context) (*DomainInfo, error) {
	var res domainInfoResponse
	if err := c.call(ctx, "get_domain_info", nil, &res); err != nil {
		return nil, err
	}

	items, err := decodeDomainItems(res.Data)
	if err != nil {
		return nil, fmt.Errorf("whm: failed to parse domain list: %w", err)
	}

	return buildDomainInfo(items), nil
}

// Ping checks connectivity and credentials.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.FetchDomainRecords(ctx)
	return err
}

func (c *Client) call(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.cfg.APIToken == "" {
		return ErrMissingToken
	}

	query := url.Values{}
	query.Set("api.version", "1")
	for k, vs := range params {
		for _, v := range vs {
			query.Add(k, v)
		}
	}

	endpointURL := url.URL{
		Scheme:   "https",
		Host:     net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port)),
		Path:     "/json-api/" + endpoint,
		RawQuery: query.Encode(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL.String(), nil)
	if err != nil {
		return fmt.Errorf("whm: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("WHM %s:%s", c.cfg.Username, c.cfg.APIToken))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whm: request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("whm: failed to read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("whm: api error: HTTP %d", res.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("whm: failed to parse response: %w", err)
	}

	return nil
}

// decodeDomainItems accepts data as an item array or as an object holding a
// "domains" array. Missing or null data means no domains.
func decodeDomainItems(data json.RawMessage) ([]rawDomain, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var items []rawDomain
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var wrapped struct {
		Domains []rawDomain `json:"domains"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Domains, nil
}
