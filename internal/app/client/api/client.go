package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/exp/slog"

	"travelex/internal/app/client/config"
	"travelex/internal/app/client/session"
)

// Client is the thin HTTP layer every collection call goes through: JSON
// bodies, bearer token from the session, typed errors per status code.
// It keeps no local cache.
type Client struct {
	client    *http.Client
	log       *slog.Logger
	session   *session.Session
	baseURL   string
	userAgent string
}

func New(cfg *config.Config, sess *session.Session, log *slog.Logger) (*Client, error) {
	transport := &http.Transport{
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  false,
		DisableKeepAlives:   false,
		MaxIdleConnsPerHost: 10,
	}

	scheme := "http://"
	if cfg.EnableTLS {
		scheme = "https://"
		if cfg.CACertPath != "" {
			pool, err := rootCAs(cfg.CACertPath)
			if err != nil {
				return nil, err
			}
			transport.TLSClientConfig = &tls.Config{RootCAs: pool}
		}
	}

	return &Client{
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		log:       log.With("component", "api_client"),
		session:   sess,
		baseURL:   scheme + cfg.ServerAddress,
		userAgent: "Travelex-Admin/1.0",
	}, nil
}

// rootCAs loads the configured CA bundle for servers with certificates
// outside the system trust store.
func rootCAs(path string) (*x509.CertPool, error) {
	pemData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ca certificate: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemData) {
		return nil, fmt.Errorf("no certificates found in %s", path)
	}
	return pool, nil
}

// NewForBase builds a client against an explicit base URL. Used by tests and
// by tooling pointed at a non-default endpoint.
func NewForBase(baseURL string, sess *session.Session, log *slog.Logger) *Client {
	return &Client{
		client:    &http.Client{Timeout: 30 * time.Second},
		log:       log.With("component", "api_client"),
		session:   sess,
		baseURL:   baseURL,
		userAgent: "Travelex-Admin/1.0",
	}
}

func (c *Client) Session() *session.Session {
	return c.session
}

// Health checks server availability.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil, nil)
}

// Login authenticates the operator and starts the session.
func (c *Client) Login(ctx context.Context, login, password string) error {
	body := map[string]string{"login": login, "password": password}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, nil, &resp); err != nil {
		return err
	}

	if err := c.session.Start(resp.Token, login); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	return nil
}

// Logout tears the session down. Purely local: tokens are stateless
// server-side.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// do issues one JSON request and decodes the response into out (when out is
// non-nil). Extra headers are optional.
func (c *Client) do(ctx context.Context, method, path string, body any, headers map[string]string, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	c.log.Debug("sending request",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := c.client.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}

	return c.parseResponse(resp, out)
}

func (c *Client) parseResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	c.log.Debug("received response",
		"status", resp.StatusCode,
		"bytes", len(body),
	)

	if resp.StatusCode >= 400 {
		return c.errorFor(resp, body)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return &ServerError{Status: resp.StatusCode, Detail: "unparseable response body"}
		}
	}

	return nil
}

func (c *Client) errorFor(resp *http.Response, body []byte) error {
	detail, fields := decodeDetail(body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// The token is dead either way; drop the session so the CLI
		// demands a fresh login.
		if err := c.session.Clear(); err != nil {
			c.log.Warn("failed to clear session", "error", err)
		}
		return &AuthError{Detail: detail}
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Path: resp.Request.URL.Path, Detail: detail}
	case resp.StatusCode == http.StatusUnprocessableEntity,
		resp.StatusCode == http.StatusBadRequest && fields != nil:
		return &ValidationError{Fields: fields, Detail: detail}
	default:
		return &ServerError{Status: resp.StatusCode, Detail: detail}
	}
}
