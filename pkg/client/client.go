// Package client talks to the question/answer backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/liut/tutorbot/pkg/models/chat"
)

const (
	dftTimeout = time.Second * 90

	pathAsk     = "/ask"
	pathHistory = "/history"
)

func logger() *zap.SugaredLogger {
	return zap.S()
}

// StatusError is a non-2xx reply
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
}

// Unwrap lets errors.Is match ErrForbidden on 403
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusForbidden {
		return chat.ErrForbidden
	}
	return nil
}

// Option ...
type Option func(c *Client)

// WithHTTPClient replaces the http client, its jar is kept if set
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// WithBasicAuth sends the credentials of a registered user
func WithBasicAuth(email, password string) Option {
	return func(c *Client) {
		c.email, c.password = email, password
	}
}

// WithTimeout ...
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.hc.Timeout = d
	}
}

// Client implements widget.API over HTTP
type Client struct {
	base string
	hc   *http.Client

	email    string
	password string
}

// New returns a client for the backend at baseURL
func New(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: dftTimeout, Jar: jar},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registered reports credentials are configured
func (c *Client) Registered() bool {
	return len(c.email) > 0
}

// Ask posts a question and returns the answer
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	body, err := json.Marshal(&chat.AskRequest{Question: question})
	if err != nil {
		return "", err
	}
	var res struct {
		Answer *string `json:"answer"`
	}
	if err = c.do(ctx, http.MethodPost, pathAsk, body, &res); err != nil {
		return "", err
	}
	if res.Answer == nil {
		return "", chat.ErrMalformed
	}
	return *res.Answer, nil
}

// History returns the saved conversations of the current identity
func (c *Client) History(ctx context.Context) (*chat.History, error) {
	var res struct {
		Count         *int               `json:"count"`
		Conversations chat.Conversations `json:"conversations"`
	}
	if err := c.do(ctx, http.MethodGet, pathHistory, nil, &res); err != nil {
		return nil, err
	}
	if res.Count == nil {
		return nil, chat.ErrMalformed
	}
	return &chat.History{Count: *res.Count, Conversations: res.Conversations}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Registered() {
		req.SetBasicAuth(c.email, c.password)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		logger().Infow("request fail", "method", method, "path", path, "err", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		logger().Infow("decode fail", "path", path, "err", err)
		return fmt.Errorf("%w: %s", chat.ErrMalformed, err)
	}
	return nil
}
