package stream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// watchedBody records whether anything read from it.
type watchedBody struct {
	io.Reader
	reads  atomic.Int32
	closed atomic.Bool
}

func (b *watchedBody) Read(p []byte) (int, error) {
	b.reads.Add(1)
	return b.Reader.Read(p)
}

func (b *watchedBody) Close() error {
	b.closed.Store(true)
	return nil
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func stubClient(status int, body *watchedBody) *Client {
	return NewClient("http://demo.invalid/chat", "tok", WithHTTPClient(&http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: status, Body: body, Header: http.Header{}, Request: r}, nil
		}),
	}))
}

func TestClient_StreamsReply(t *testing.T) {
	var got Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, part := range []string{deltaLine("Hel"), deltaLine("lo"), "data: [DONE]\n"} {
			_, _ = io.WriteString(w, part)
			flusher.Flush()
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", WithReadSize(7))
	asm := NewAssembler()
	err := client.Stream(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
		Tier:     "premium",
	}, asm)

	require.NoError(t, err)
	assert.Equal(t, "Hello", asm.Text())
	assert.True(t, asm.Done())
	assert.Equal(t, "premium", got.Tier)
	assert.Equal(t, []Message{{Role: RoleUser, Content: "hi"}}, got.Messages)
}

func TestClient_FailingStatusDoesNotReadBody(t *testing.T) {
	tests := []struct {
		status int
		want   error
		msg    string
	}{
		{http.StatusTooManyRequests, ErrRateLimited, MessageRateLimited},
		{http.StatusPaymentRequired, ErrQuotaExceeded, MessageQuota},
		{http.StatusInternalServerError, ErrRequestFailed, MessageFailed},
		{http.StatusUnauthorized, ErrRequestFailed, MessageFailed},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			body := &watchedBody{Reader: strings.NewReader(`{"error":"nope"}`)}
			asm := NewAssembler()

			err := stubClient(tt.status, body).Stream(context.Background(), Request{}, asm)

			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.msg, TerminalMessage(err))
			assert.Zero(t, body.reads.Load())
			assert.True(t, body.closed.Load())
			assert.Empty(t, asm.Text())
		})
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	err := NewClient(url, "").Stream(context.Background(), Request{}, NewAssembler())
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, MessageConnection, TerminalMessage(err))
}

type failingReader struct {
	data []byte
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestClient_ConnectionDropsMidStream(t *testing.T) {
	body := &watchedBody{Reader: &failingReader{
		data: []byte(deltaLine("partial ")),
		err:  errors.New("connection reset by peer"),
	}}
	asm := NewAssembler()

	err := stubClient(http.StatusOK, body).Stream(context.Background(), Request{}, asm)

	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, "partial ", asm.Text())
}

func TestClient_BodyEndsMidFrame(t *testing.T) {
	body := &watchedBody{Reader: strings.NewReader(deltaLine("ok") + `data: {"choices":[{"del`)}
	asm := NewAssembler()

	err := stubClient(http.StatusOK, body).Stream(context.Background(), Request{}, asm)

	assert.ErrorIs(t, err, ErrIncompleteStream)
	assert.Equal(t, MessageConnection, TerminalMessage(err))
	assert.Equal(t, "ok", asm.Text())
}

func TestClient_CancelDuringStream(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, deltaLine("first"))
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	asm := NewAssembler(WithDeltaHandler(func(string, string) { cancel() }))

	done := make(chan error, 1)
	go func() { done <- NewClient(server.URL, "").Stream(ctx, Request{}, asm) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not stop after cancel")
	}
	assert.Equal(t, "first", asm.Text())
}

func TestClient_DeadlineDuringStream(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, deltaLine("first"))
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	asm := NewAssembler()

	err := NewClient(server.URL, "").Stream(ctx, Request{}, asm)

	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, context.Canceled)
	assert.Equal(t, MessageConnection, TerminalMessage(err))
	assert.Equal(t, "first", asm.Text())
}
