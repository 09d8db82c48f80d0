package stream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedStreamer feeds canned chunks, optionally blocking until released
// or canceled.
type scriptedStreamer struct {
	mu       sync.Mutex
	chunks   []string
	err      error
	block    chan struct{}
	started  chan struct{}
	requests []Request
}

func (s *scriptedStreamer) Stream(ctx context.Context, req Request, asm *Assembler) error {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	chunks, err, block, started := s.chunks, s.err, s.block, s.started
	s.mu.Unlock()

	for _, c := range chunks {
		asm.Feed([]byte(c))
	}
	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-block:
		}
	}
	if err != nil {
		return err
	}
	return asm.Finish()
}

func (s *scriptedStreamer) lastRequest() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1]
}

func TestSession_SendAppendsBothTurns(t *testing.T) {
	streamer := &scriptedStreamer{chunks: []string{deltaLine("Hel"), deltaLine("lo"), "data: [DONE]\n"}}
	var updates []Update
	s := NewSession(streamer, WithTier("business"), WithUpdateHandler(func(u Update) { updates = append(updates, u) }))

	reply, err := s.Send(context.Background(), "  hi  ")
	require.NoError(t, err)

	assert.Equal(t, "Hello", reply.Text)
	assert.False(t, reply.Failed())
	assert.False(t, reply.Canceled)
	assert.NotEmpty(t, reply.Token)
	assert.Equal(t, []Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "Hello"},
	}, s.History())
	assert.Equal(t, "business", streamer.lastRequest().Tier)
	require.Len(t, updates, 2)
	assert.Equal(t, reply.Token, updates[1].Token)
	assert.Equal(t, "Hello", updates[1].Text)
	assert.False(t, s.Busy())
}

func TestSession_RequestCarriesHistory(t *testing.T) {
	streamer := &scriptedStreamer{chunks: []string{deltaLine("ok"), "data: [DONE]\n"}}
	s := NewSession(streamer)

	_, err := s.Send(context.Background(), "one")
	require.NoError(t, err)
	_, err = s.Send(context.Background(), "two")
	require.NoError(t, err)

	assert.Equal(t, []Message{
		{Role: RoleUser, Content: "one"},
		{Role: RoleAssistant, Content: "ok"},
		{Role: RoleUser, Content: "two"},
	}, streamer.lastRequest().Messages)
	assert.Len(t, s.History(), 4)
}

func TestSession_EmptyPrompt(t *testing.T) {
	s := NewSession(&scriptedStreamer{})
	_, err := s.Send(context.Background(), " \n\t")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	assert.Empty(t, s.History())
}

func TestSession_FailureBecomesTerminalMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrRateLimited, MessageRateLimited},
		{ErrQuotaExceeded, MessageQuota},
		{fmt.Errorf("%w: status 500", ErrRequestFailed), MessageFailed},
		{fmt.Errorf("%w: reset", ErrTransport), MessageConnection},
		{context.DeadlineExceeded, MessageConnection},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			s := NewSession(&scriptedStreamer{err: tt.err})

			reply, err := s.Send(context.Background(), "hello")
			require.NoError(t, err)

			assert.True(t, reply.Failed())
			assert.ErrorIs(t, reply.Err, tt.err)
			assert.Equal(t, tt.want, reply.Text)
			assert.Equal(t, []Message{
				{Role: RoleUser, Content: "hello"},
				{Role: RoleAssistant, Content: tt.want},
			}, s.History())
		})
	}
}

func TestSession_DeadlineMidStreamIsConnectionError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, deltaLine("partial"))
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	s := NewSession(NewClient(server.URL, ""))
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	reply, err := s.Send(ctx, "hello")
	require.NoError(t, err)

	assert.False(t, reply.Canceled, "a deadline is not a user cancel")
	assert.True(t, reply.Failed())
	assert.Equal(t, MessageConnection, reply.Text)
	assert.Len(t, s.History(), 2)
}

func TestSession_RejectsOverlappingSend(t *testing.T) {
	streamer := &scriptedStreamer{
		chunks:  []string{deltaLine("slow")},
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	s := NewSession(streamer)

	first := make(chan Reply, 1)
	go func() {
		r, _ := s.Send(context.Background(), "first")
		first <- r
	}()
	<-streamer.started
	assert.True(t, s.Busy())

	_, err := s.Send(context.Background(), "second")
	assert.ErrorIs(t, err, ErrBusy)

	close(streamer.block)
	r := <-first
	assert.Equal(t, "slow", r.Text)
	assert.Equal(t, []Message{
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "slow"},
	}, s.History())
}

func TestSession_SupersedeCancelsPrevious(t *testing.T) {
	streamer := &scriptedStreamer{
		chunks:  []string{deltaLine("stale")},
		block:   make(chan struct{}),
		started: make(chan struct{}, 2),
	}
	s := NewSession(streamer, WithPolicy(PolicySupersede))

	first := make(chan Reply, 1)
	go func() {
		r, _ := s.Send(context.Background(), "first")
		first <- r
	}()
	<-streamer.started

	second := make(chan Reply, 1)
	go func() {
		r, _ := s.Send(context.Background(), "second")
		second <- r
	}()

	old := <-first
	assert.True(t, old.Canceled)
	assert.Equal(t, "stale", old.Text)

	<-streamer.started
	close(streamer.block)
	fresh := <-second

	assert.False(t, fresh.Canceled)
	assert.NotEqual(t, old.Token, fresh.Token)
	assert.Equal(t, []Message{
		{Role: RoleUser, Content: "second"},
		{Role: RoleAssistant, Content: "stale"},
	}, s.History())
	assert.Equal(t, []Message{{Role: RoleUser, Content: "second"}}, streamer.lastRequest().Messages)
}

func TestSession_CancelRemovesTurn(t *testing.T) {
	streamer := &scriptedStreamer{block: make(chan struct{}), started: make(chan struct{}, 1)}
	s := NewSession(streamer)

	done := make(chan Reply, 1)
	go func() {
		r, _ := s.Send(context.Background(), "never mind")
		done <- r
	}()
	<-streamer.started
	s.Cancel()

	r := <-done
	assert.True(t, r.Canceled)
	assert.False(t, r.Failed())
	assert.Empty(t, s.History())
	assert.False(t, s.Busy())
}

func TestSession_Cooldown(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	streamer := &scriptedStreamer{chunks: []string{"data: [DONE]\n"}}
	s := NewSession(streamer,
		WithMinInterval(2*time.Second),
		WithClock(func() time.Time { return now }),
	)

	_, err := s.Send(context.Background(), "a")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = s.Send(context.Background(), "b")
	assert.ErrorIs(t, err, ErrCooldown)

	now = now.Add(time.Second)
	_, err = s.Send(context.Background(), "c")
	assert.NoError(t, err)
}

func TestSession_ClearResetsHistoryAndCooldown(t *testing.T) {
	streamer := &scriptedStreamer{chunks: []string{deltaLine("x"), "data: [DONE]\n"}}
	s := NewSession(streamer, WithMinInterval(time.Hour))

	_, err := s.Send(context.Background(), "a")
	require.NoError(t, err)
	s.Clear()
	assert.Empty(t, s.History())

	_, err = s.Send(context.Background(), "b")
	assert.NoError(t, err)
	assert.Equal(t, []Message{{Role: RoleUser, Content: "b"}}, streamer.lastRequest().Messages)
}
