// Package ors talks to OpenRouteService for geocoding, reverse geocoding and
// driving directions. Client implements ports.Geocoder, ports.ReverseGeocoder
// and ports.RoutingProvider and is safe for concurrent use.
//
// Every failure is classified against the port sentinels:
//   - ports.ErrAddressNotFound: the service answered with no matching place
//   - ports.ErrNoRoute: the service answered but no road path exists
//   - ports.ErrProviderUnavailable: transport errors, timeouts, non 2xx answers
//     and undecodable payloads
package ors

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.openrouteservice.org"
	DefaultProfile = "driving-car"
	DefaultTimeout = 10 * time.Second
)

var ErrAPIKeyIsEmpty = errors.New("ORS api key is empty")

// Client is an OpenRouteService HTTP client.
type Client struct {
	session      *http.Client
	apiKey       string
	baseURL      string
	profile      string
	maxAttempts  int
	retryBackoff time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at another ORS installation, e.g. a self-hosted one.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithProfile selects the directions profile ("driving-car", "driving-hgv", ...).
func WithProfile(profile string) Option {
	return func(c *Client) {
		if profile != "" {
			c.profile = profile
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(session *http.Client) Option {
	return func(c *Client) {
		if session != nil {
			c.session = session
		}
	}
}

// WithRetry sets the number of attempts and the initial backoff for transient failures.
func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(c *Client) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		if backoff >= 0 {
			c.retryBackoff = backoff
		}
	}
}

// NewClient creates an ORS client. Requests are logged at debug level through logger.
//
// Example:
//
//	client, err := ors.NewClient(cfg.ORSAPIKey, logger, ors.WithProfile("driving-hgv"))
//	if err != nil {
//	    return err
//	}
//	loc, err := client.Geocode(ctx, "Alexanderplatz 1, Berlin")
func NewClient(apiKey string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrAPIKeyIsEmpty
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		session: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &loggingRoundTripper{
				proxied: http.DefaultTransport,
				logger:  logger.With("component", "ors_client"),
			},
		},
		apiKey:       apiKey,
		baseURL:      DefaultBaseURL,
		profile:      DefaultProfile,
		maxAttempts:  4,
		retryBackoff: 200 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// normalize collapses whitespace so equal addresses produce equal requests.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
