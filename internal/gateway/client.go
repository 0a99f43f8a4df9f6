// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/ictchat/internal/extract"
	"github.com/jeranaias/ictchat/internal/model"
	"github.com/jeranaias/ictchat/internal/util"
)

// Configuration constants for the chat webhook.
const (
	// DefaultTimeout bounds one chat request.
	DefaultTimeout = 120 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion attacks.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// SystemHint scopes every answer to the institution's own material.
	SystemHint = "Focus strictly on ICT Bangladesh institutional data (est 2018)."
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// No client timeout; each request carries its own context deadline.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// Payload is the JSON body POSTed to the webhook.
type Payload struct {
	ChatInput  string        `json:"chatInput"`
	SessionID  string        `json:"sessionId"`
	Config     PayloadConfig `json:"config"`
	ClientInfo ClientInfo    `json:"client_info"`
}

// PayloadConfig carries the landing-screen selections.
type PayloadConfig struct {
	Audience   string `json:"audience"`
	Topic      string `json:"topic"`
	Language   string `json:"language"`
	SystemHint string `json:"system_hint"`
}

// ClientInfo identifies the caller.
type ClientInfo struct {
	UserAgent string `json:"userAgent"`
	Platform  string `json:"platform"`
}

// Request is one question.
type Request struct {
	Input     string
	SessionID string
	Config    model.ChatConfig
}

// Reply is a successful answer.
type Reply struct {
	// Text is what to display. It is extract.Fallback when nothing usable
	// was found in the body.
	Text string
	// Sources are citation links, possibly empty.
	Sources []model.Source
	// Raw is the response body as received.
	Raw []byte
	// Duration is the round-trip time.
	Duration time.Duration
	// Matched is false when Text is the fallback.
	Matched bool
}

// =============================================================================
// CLIENT
// =============================================================================

// Client posts chat requests to one webhook URL.
type Client struct {
	url        string
	httpClient *http.Client
	timeout    time.Duration
	version    string
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithVersion sets the version reported in client_info.
func WithVersion(v string) Option {
	return func(c *Client) { c.version = v }
}

// New creates a client for the webhook at rawURL.
func New(rawURL string, opts ...Option) *Client {
	c := &Client{
		url:        strings.TrimSpace(rawURL),
		httpClient: sharedHTTPClient,
		timeout:    DefaultTimeout,
		version:    "dev",
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the webhook URL.
func (c *Client) URL() string { return c.url }

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

// UserAgent returns the client_info user agent string.
func (c *Client) UserAgent() string {
	return fmt.Sprintf("ictchat/%s (%s; %s)", c.version, runtime.GOOS, runtime.GOARCH)
}

// BuildPayload assembles the request body. Input is NFC-normalized and empty
// config fields take their defaults.
func (c *Client) BuildPayload(req Request) Payload {
	cfg := req.Config.WithDefaults()
	return Payload{
		ChatInput: norm.NFC.String(strings.TrimSpace(req.Input)),
		SessionID: req.SessionID,
		Config: PayloadConfig{
			Audience:   cfg.Audience,
			Topic:      cfg.Topic,
			Language:   cfg.Language,
			SystemHint: SystemHint,
		},
		ClientInfo: ClientInfo{
			UserAgent: c.UserAgent(),
			Platform:  runtime.GOOS,
		},
	}
}

// Send posts one question and extracts the answer. It makes exactly one
// attempt.
func (c *Client) Send(ctx context.Context, req Request) (*Reply, error) {
	if strings.TrimSpace(req.Input) == "" {
		return nil, ErrEmptyInput
	}

	body, err := json.Marshal(c.BuildPayload(req))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, &GatewayError{Kind: KindBusy, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.UserAgent())

	logRequest(httpReq)
	start := c.now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.classify(ctx, reqCtx, 0, err)
	}
	defer resp.Body.Close()

	raw, err := readResponse(resp)
	duration := c.now().Sub(start)
	logResponse(resp, duration)
	if err != nil {
		return nil, c.classify(ctx, reqCtx, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &GatewayError{Kind: KindBusy, Status: resp.StatusCode}
	}

	return parseReply(raw, duration)
}

// classify maps a transport error to ErrCanceled or a GatewayError.
func (c *Client) classify(parent, reqCtx context.Context, status int, err error) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return ErrCanceled
	}
	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &GatewayError{Kind: KindTimeout, Status: status, Err: err}
	}
	return &GatewayError{Kind: KindBusy, Status: status, Err: err}
}

// parseReply decodes a 2xx body.
func parseReply(raw []byte, duration time.Duration) (*Reply, error) {
	v, err := extract.Decode(raw)
	if err != nil {
		return nil, &GatewayError{Kind: KindBusy, Err: fmt.Errorf("decode response: %w", err)}
	}

	// Text and sources are printed to a terminal; Raw stays byte-exact for
	// the payload viewer.
	text, ok := extract.Find(v)
	if ok {
		text = util.SanitizeTerminal(text)
		ok = strings.TrimSpace(text) != ""
	}
	reply := &Reply{
		Text:     text,
		Raw:      raw,
		Duration: duration,
		Matched:  ok,
	}
	if !ok {
		reply.Text = extract.Fallback
		return reply, nil
	}
	reply.Sources = Sources(v)
	return reply, nil
}

// Sources lifts citation links from a top-level "sources" array. Elements
// that are not objects, or carry neither a uri nor a title string, are
// skipped.
func Sources(v extract.Value) []model.Source {
	if v.Kind() != extract.KindObject {
		return nil
	}
	arr, ok := v.Get("sources")
	if !ok || arr.Kind() != extract.KindArray {
		return nil
	}

	var out []model.Source
	for _, item := range arr.Items() {
		if item.Kind() != extract.KindObject {
			continue
		}
		var src model.Source
		if u, ok := item.Get("uri"); ok && u.Kind() == extract.KindString {
			src.URI = strings.TrimSpace(util.SanitizeTerminal(u.Str()))
		}
		if t, ok := item.Get("title"); ok && t.Kind() == extract.KindString {
			src.Title = strings.TrimSpace(util.SanitizeTerminal(t.Str()))
		}
		if src.URI == "" && src.Title == "" {
			continue
		}
		out = append(out, src)
	}
	return out
}

// readResponse reads the response body with size limits to prevent memory exhaustion.
//
// SECURITY: Response size limit prevents memory exhaustion attacks.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// =============================================================================
// Request/Response Logging (without sensitive data)
// =============================================================================

// logRequest logs the method and endpoint. The body carries the user's
// question and is never logged.
func logRequest(req *http.Request) {
	log.Printf("API Request: %s %s", req.Method, redactURL(req.URL))
}

// logResponse logs status and duration only.
func logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API Response: %s (%v)", resp.Status, duration)
}

// redactURL drops the query string and user info.
func redactURL(u *url.URL) string {
	clean := *u
	clean.User = nil
	clean.RawQuery = ""
	clean.Fragment = ""
	return clean.String()
}
