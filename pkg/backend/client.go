package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"mercator-hq/gateway/pkg/config"
	"mercator-hq/gateway/pkg/telemetry/tracing"
)

// Config configures a Client.
type Config struct {
	// ChatURL is the streaming chat-completion endpoint.
	ChatURL string

	// HealthURL is the endpoint probed for readiness.
	HealthURL string

	// DialTimeout bounds connection establishment. Zero means no bound.
	DialTimeout time.Duration

	// ResponseHeaderTimeout bounds the wait for response headers. Zero means
	// no bound.
	ResponseHeaderTimeout time.Duration

	// ReadBufferSize is the size of each body read and so the largest chunk
	// a Stream yields.
	ReadBufferSize int

	// MaxIdleConns is the size of the keep-alive pool.
	MaxIdleConns int
}

// ConfigFrom converts the backend section of the gateway configuration.
func ConfigFrom(cfg config.BackendConfig) Config {
	return Config{
		ChatURL:               cfg.ChatURL(),
		HealthURL:             cfg.HealthURL(),
		DialTimeout:           cfg.DialTimeout,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
		ReadBufferSize:        cfg.ReadBufferSize,
		MaxIdleConns:          cfg.MaxIdleConns,
	}
}

// Client opens streaming requests against the inference backend.
// It is safe for concurrent use.
type Client struct {
	config Config
	client *http.Client
}

// New creates a Client. The underlying http.Client has no overall timeout
// because a generation may stream for as long as the backend keeps producing
// tokens.
func New(cfg Config) *Client {
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = config.DefaultBackendReadBufferSize
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConns,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
		// Bytes are relayed verbatim, so the transport must not negotiate
		// and transparently decode compression.
		DisableCompression: true,
	}

	return &Client{
		config: cfg,
		client: &http.Client{
			Transport: transport,
			Timeout:   0,
		},
	}
}

// OpenStream posts body to the chat endpoint and returns the response as a
// chunk stream. Cancelling ctx aborts the request at any point, including
// while the stream is being read.
//
// A non-2xx response is not an error: its body is streamed like any other so
// the caller sees exactly what the backend said. Only transport failures are
// reported, as *ConnectError.
func (c *Client) OpenStream(ctx context.Context, body []byte) (*Stream, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.ChatURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create backend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	tracing.Inject(ctx, req.Header)

	slog.DebugContext(ctx, "opening backend stream", "url", c.config.ChatURL, "body_bytes", len(body))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ConnectError{URL: c.config.ChatURL, Cause: err}
	}

	return newStream(resp, c.config.ReadBufferSize), nil
}

// Probe checks that the backend health endpoint answers with a 2xx status.
func (c *Client) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.HealthURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create probe request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &ConnectError{URL: c.config.HealthURL, Cause: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ProbeError{StatusCode: resp.StatusCode}
	}
	return nil
}

// Close releases idle keep-alive connections.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
