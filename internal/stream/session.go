package stream

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Policy decides what a send does while another request is in flight.
type Policy int

const (
	// PolicyReject refuses the new send with ErrBusy.
	PolicyReject Policy = iota
	// PolicySupersede aborts the in-flight request, waits for it to unwind,
	// then sends.
	PolicySupersede
)

// Update is a live view of the in-flight reply.
type Update struct {
	Token string
	Delta string
	Text  string
	HTML  string
}

// Reply is the immutable outcome of one send.
type Reply struct {
	Token string
	// Text is the assistant message: the streamed reply, or a terminal
	// message when Err is set.
	Text string
	HTML string
	Err  error
	// Canceled is set when the request was aborted before completing. A
	// canceled turn is removed from the history.
	Canceled bool
}

// Failed reports whether the reply is a terminal error message.
func (r Reply) Failed() bool { return r.Err != nil }

type flight struct {
	token  string
	cancel context.CancelFunc
	done   chan struct{}
}

// Session is one conversation. It owns the message history, the single
// in-flight request handle and the send cooldown. Create a new Session (or
// Clear this one) to start over.
type Session struct {
	streamer    Streamer
	tier        string
	policy      Policy
	minInterval time.Duration
	now         func() time.Time
	onUpdate    func(Update)

	mu         sync.Mutex
	history    []Message
	inflight   *flight
	lastSubmit time.Time
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithTier sets the pricing tier sent with every request.
func WithTier(tier string) SessionOption {
	return func(s *Session) { s.tier = tier }
}

// WithPolicy sets how a send treats a request already in flight. The
// default is PolicyReject.
func WithPolicy(p Policy) SessionOption {
	return func(s *Session) { s.policy = p }
}

// WithMinInterval sets the minimum time between two sends.
func WithMinInterval(d time.Duration) SessionOption {
	return func(s *Session) { s.minInterval = d }
}

// WithUpdateHandler receives every delta and preview change of the
// in-flight reply.
func WithUpdateHandler(fn func(Update)) SessionOption {
	return func(s *Session) { s.onUpdate = fn }
}

// WithClock replaces time.Now for the cooldown check.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession creates a new Session with an empty history.
func NewSession(streamer Streamer, opts ...SessionOption) *Session {
	s := &Session{streamer: streamer, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send submits prompt and blocks until the reply completes, fails or is
// canceled. Request failures come back as a terminal Reply, not an error;
// the error is reserved for sends that never started.
func (s *Session) Send(ctx context.Context, prompt string) (Reply, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Reply{}, ErrEmptyPrompt
	}

	s.mu.Lock()
	if s.minInterval > 0 && !s.lastSubmit.IsZero() && s.now().Sub(s.lastSubmit) < s.minInterval {
		s.mu.Unlock()
		return Reply{}, ErrCooldown
	}
	for s.inflight != nil {
		if s.policy == PolicyReject {
			s.mu.Unlock()
			return Reply{}, ErrBusy
		}
		prev := s.inflight
		s.mu.Unlock()
		prev.cancel()
		<-prev.done
		s.mu.Lock()
	}

	ctx, cancel := context.WithCancel(ctx)
	f := &flight{token: uuid.NewString(), cancel: cancel, done: make(chan struct{})}
	s.inflight = f
	s.lastSubmit = s.now()
	s.history = append(s.history, Message{Role: RoleUser, Content: prompt})
	turn := len(s.history) - 1
	req := Request{Messages: append([]Message(nil), s.history...), Tier: s.tier}
	s.mu.Unlock()

	defer cancel()
	asm := NewAssembler(
		WithDeltaHandler(func(delta, text string) {
			s.emit(Update{Token: f.token, Delta: delta, Text: text})
		}),
		WithPreviewHandler(func(html string) {
			s.emit(Update{Token: f.token, HTML: html})
		}),
	)
	err := s.streamer.Stream(ctx, req, asm)

	reply := Reply{Token: f.token, Text: asm.Text(), HTML: asm.HTML()}
	s.mu.Lock()
	defer func() {
		s.inflight = nil
		s.mu.Unlock()
		close(f.done)
	}()

	switch {
	case err == nil:
		s.history = append(s.history, Message{Role: RoleAssistant, Content: reply.Text})
	case canceled(err) && ctx.Err() != nil:
		reply.Canceled = true
		if turn < len(s.history) {
			s.history = s.history[:turn]
		}
	default:
		reply.Err = err
		reply.Text = TerminalMessage(err)
		s.history = append(s.history, Message{Role: RoleAssistant, Content: reply.Text})
	}
	return reply, nil
}

func (s *Session) emit(u Update) {
	if s.onUpdate != nil {
		s.onUpdate(u)
	}
}

// Cancel aborts the in-flight request, if any, and waits for it to unwind.
func (s *Session) Cancel() {
	s.mu.Lock()
	f := s.inflight
	s.mu.Unlock()
	if f == nil {
		return
	}
	f.cancel()
	<-f.done
}

// Clear cancels any in-flight request and resets the conversation and the
// cooldown.
func (s *Session) Clear() {
	s.Cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.lastSubmit = time.Time{}
}

// Busy reports whether a request is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight != nil
}

// History returns a copy of the conversation so far.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.history...)
}
