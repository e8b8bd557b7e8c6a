// Package client implements the control API client.
//
// All requests travel over the local control socket as plain HTTP. GET
// returns the JSON value at the request path; PUT and DELETE return the
// server's acknowledgment. Server-side rejections carry an error message
// and an optional detail, both surfaced in the returned error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/goc9000/nuri/internal/errors"
	"github.com/goc9000/nuri/internal/logging"
)

// Client talks to the configuration service over its control socket.
type Client struct {
	httpc  *http.Client
	socket string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets a total timeout on each request. The default is no
// timeout, editors and slow reconfigurations take as long as they take.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpc.Timeout = d
	}
}

// WithTransport replaces the HTTP transport. Used in tests to point the
// client at servers not reachable through a socket path.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpc.Transport = rt
	}
}

// New creates a client for the control socket at the given path.
func New(socket string, opts ...Option) *Client {
	c := &Client{
		socket: socket,
		httpc: &http.Client{
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					var d net.Dialer
					return d.DialContext(ctx, "unix", socket)
				},
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Socket returns the control socket path this client talks to.
func (c *Client) Socket() string {
	return c.socket
}

// Ack is the server's acknowledgment of a mutating request.
type Ack struct {
	Success string `json:"success"`
}

// Text returns the acknowledgment text, or "done" when the server sent none.
func (a *Ack) Text() string {
	if a.Success != "" {
		return a.Success
	}
	return "done"
}

// Get returns the JSON value at apiPath.
func (c *Client) Get(ctx context.Context, apiPath string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, apiPath, nil)
}

// Put replaces the value at apiPath. A json.RawMessage or []byte body is
// sent verbatim; anything else is marshaled.
func (c *Client) Put(ctx context.Context, apiPath string, body any) (*Ack, error) {
	encoded, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, http.MethodPut, apiPath, encoded)
	if err != nil {
		return nil, err
	}
	return decodeAck(data)
}

// Delete removes the value at apiPath.
func (c *Client) Delete(ctx context.Context, apiPath string) (*Ack, error) {
	data, err := c.do(ctx, http.MethodDelete, apiPath, nil)
	if err != nil {
		return nil, err
	}
	return decodeAck(data)
}

// Status returns the server's usage snapshot.
func (c *Client) Status(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "/status")
}

// Certificates returns the certificate bundle listing.
func (c *Client) Certificates(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "/certificates")
}

// RestartApp asks the server to restart the named application.
func (c *Client) RestartApp(ctx context.Context, name string) (*Ack, error) {
	apiPath := "/control/applications/" + url.PathEscape(name) + "/restart"

	data, err := c.do(ctx, http.MethodGet, apiPath, nil)
	if err != nil {
		if errors.GetExitCode(err) == errors.ExitNotFound {
			return nil, errors.AppNotFound(name)
		}
		return nil, err
	}
	return decodeAck(data)
}

func (c *Client) do(ctx context.Context, method, apiPath string, body []byte) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	// The host is a placeholder, routing happens via the socket dialer.
	req, err := http.NewRequestWithContext(ctx, method, "http://unit"+apiPath, reader)
	if err != nil {
		return nil, errors.Transport("building control request failed", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.Debug("control request", "method", method, "path", apiPath)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Transport(fmt.Sprintf("cannot reach control socket %s", c.socket), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Transport("reading control response failed", err)
	}

	logging.Debug("control response", "method", method, "path", apiPath,
		"status", resp.StatusCode, "bytes", len(data))

	if resp.StatusCode >= 400 {
		return nil, decodeAPIError(resp.StatusCode, apiPath, data)
	}

	return json.RawMessage(data), nil
}

func encodeBody(body any) ([]byte, error) {
	switch v := body.(type) {
	case json.RawMessage:
		return v, nil
	case []byte:
		return v, nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("cannot encode request body: %w", err)
		}
		return encoded, nil
	}
}

func decodeAck(data []byte) (*Ack, error) {
	var ack Ack
	if err := json.Unmarshal(data, &ack); err != nil {
		return nil, errors.Transport("undecodable control response", err)
	}
	return &ack, nil
}

func decodeAPIError(status int, apiPath string, data []byte) error {
	var apiErr struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}

	if err := json.Unmarshal(data, &apiErr); err != nil || apiErr.Error == "" {
		return errors.Transport(fmt.Sprintf("control request for %s failed with status %d", apiPath, status), nil)
	}

	if status == http.StatusNotFound {
		return errors.New(errors.ExitNotFound, fmt.Sprintf("%s: %s", apiPath, apiErr.Error))
	}

	return errors.Validation(apiErr.Error, apiErr.Detail)
}
