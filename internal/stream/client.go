package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Role tags a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the conversation as sent to the endpoint.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is the demo chat endpoint's body.
type Request struct {
	Messages []Message `json:"messages"`
	Tier     string    `json:"tier"`
}

// Streamer runs one request and feeds its body into an assembler.
type Streamer interface {
	Stream(ctx context.Context, req Request, asm *Assembler) error
}

// Client posts to the demo chat endpoint and streams the reply.
type Client struct {
	http     *http.Client
	endpoint string
	token    string
	bufSize  int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.http = c }
}

// WithReadSize sets the size of each body read.
func WithReadSize(n int) ClientOption {
	return func(cl *Client) {
		if n > 0 {
			cl.bufSize = n
		}
	}
}

// NewClient creates a new Client for endpoint. An empty token sends no
// Authorization header.
func NewClient(endpoint, token string, opts ...ClientOption) *Client {
	c := &Client{
		http:     &http.Client{},
		endpoint: endpoint,
		token:    token,
		bufSize:  4096,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stream sends req and feeds the response into asm until the completion
// sentinel or the end of the body. A failing status is classified without
// reading the body. Cancellation through ctx aborts the read and returns
// ctx's error; an expired deadline is a transport error.
func (c *Client) Stream(ctx context.Context, req Request, asm *Assembler) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return contextError(ctx)
		}
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return err
	}

	buf := make([]byte, c.bufSize)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			asm.Feed(buf[:n])
			if asm.Done() {
				return nil
			}
		}
		if err == io.EOF {
			return asm.Finish()
		}
		if err != nil {
			if ctx.Err() != nil {
				return contextError(ctx)
			}
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}
	}
}

func contextError(ctx context.Context) error {
	err := ctx.Err()
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return err
}

func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	case code == http.StatusPaymentRequired:
		return ErrQuotaExceeded
	default:
		return fmt.Errorf("%w: status %d", ErrRequestFailed, code)
	}
}
