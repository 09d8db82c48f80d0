package stream

import (
	"context"
	"errors"
)

var (
	// ErrRateLimited: the endpoint answered 429 before streaming.
	ErrRateLimited = errors.New("stream: rate limited")
	// ErrQuotaExceeded: the endpoint answered 402 before streaming.
	ErrQuotaExceeded = errors.New("stream: usage limit exceeded")
	// ErrRequestFailed: any other non-success status before streaming.
	ErrRequestFailed = errors.New("stream: request failed")
	// ErrTransport: the connection failed before or during the stream.
	ErrTransport = errors.New("stream: transport error")
	// ErrIncompleteStream: the body ended in the middle of a frame.
	ErrIncompleteStream = errors.New("stream: incomplete stream")

	// ErrBusy: a request is already in flight and the session rejects
	// overlapping sends.
	ErrBusy = errors.New("stream: request already in flight")
	// ErrCooldown: the session's minimum interval between sends has not
	// elapsed.
	ErrCooldown = errors.New("stream: sending too quickly")
	// ErrEmptyPrompt: nothing to send.
	ErrEmptyPrompt = errors.New("stream: empty prompt")
)

// User-facing terminal messages. Each invites the user to try again.
const (
	MessageRateLimited = "Too many requests right now. Please wait a moment and try again."
	MessageQuota       = "The demo has reached its usage limit for now. Please try again later."
	MessageFailed      = "Something went wrong generating a response. Please try again."
	MessageConnection  = "Connection error. Please check your network and try again."
)

// TerminalMessage converts a request failure into the short message shown in
// place of the assistant's reply.
func TerminalMessage(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return MessageRateLimited
	case errors.Is(err, ErrQuotaExceeded):
		return MessageQuota
	case errors.Is(err, ErrTransport), errors.Is(err, ErrIncompleteStream),
		errors.Is(err, context.DeadlineExceeded):
		return MessageConnection
	default:
		return MessageFailed
	}
}

func canceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
