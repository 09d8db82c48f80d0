// Package stream consumes the demo chat endpoint's event stream: it frames
// `data:` lines, accumulates the assistant's reply, keeps a live HTML preview
// extracted from it, and owns the one-request-at-a-time conversation session.
package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
)

const (
	dataPrefix    = "data:"
	commentPrefix = ":"
	doneSentinel  = "[DONE]"
)

// frame is the slice of a chat-completion streaming chunk the assembler reads.
type frame struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Assembler turns raw stream bytes into the assistant's text and preview.
// Chunks may split lines, frames or UTF-8 sequences anywhere; the result
// only depends on the concatenated bytes.
//
// An Assembler is not safe for concurrent use. It belongs to one request.
type Assembler struct {
	carry   []byte
	pending string
	text    strings.Builder
	html    string
	done    bool
	skipped int

	onDelta   func(delta, text string)
	onPreview func(html string)
	logger    *slog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithDeltaHandler is called after every text delta with the delta and the
// full text so far.
func WithDeltaHandler(fn func(delta, text string)) Option {
	return func(a *Assembler) { a.onDelta = fn }
}

// WithPreviewHandler is called whenever a new HTML fragment replaces the
// current preview.
func WithPreviewHandler(fn func(html string)) Option {
	return func(a *Assembler) { a.onPreview = fn }
}

// WithLogger sets the logger used for dropped frames. It defaults to
// slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) { a.logger = l }
}

// NewAssembler creates a new Assembler.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Feed processes one network chunk. Input after the completion sentinel is
// ignored.
func (a *Assembler) Feed(chunk []byte) {
	if a.done {
		return
	}
	a.carry = append(a.carry, chunk...)
	for !a.done {
		i := bytes.IndexByte(a.carry, '\n')
		if i < 0 {
			break
		}
		line := string(a.carry[:i])
		a.carry = a.carry[i+1:]
		a.line(line)
	}
	if len(a.carry) == 0 {
		a.carry = nil
	}
}

// Write implements io.Writer so a body can be copied straight in.
func (a *Assembler) Write(p []byte) (int, error) {
	a.Feed(p)
	return len(p), nil
}

// Finish marks the end of the byte stream. A trailing line without a newline
// is processed first. A frame still waiting for its remainder means the
// stream was cut short and yields ErrIncompleteStream.
func (a *Assembler) Finish() error {
	if a.done {
		return nil
	}
	if len(a.carry) > 0 {
		line := string(a.carry)
		a.carry = nil
		a.line(line)
	}
	if a.done {
		return nil
	}
	a.done = true
	if a.pending != "" {
		a.pending = ""
		return ErrIncompleteStream
	}
	return nil
}

// Text is the assistant text accumulated so far.
func (a *Assembler) Text() string { return a.text.String() }

// HTML is the current preview fragment, empty if none has been found.
func (a *Assembler) HTML() string { return a.html }

// Done reports whether the stream has completed.
func (a *Assembler) Done() bool { return a.done }

// Skipped counts malformed frames that were dropped.
func (a *Assembler) Skipped() int { return a.skipped }

func (a *Assembler) line(line string) {
	line = strings.TrimSuffix(line, "\r")
	// Comments such as keep-alives may arrive between the halves of a held
	// frame and never belong to it.
	if strings.HasPrefix(line, commentPrefix) {
		return
	}

	if a.pending != "" {
		// A held frame continues on the next line unless that line starts a
		// new event of its own.
		if !strings.HasPrefix(line, dataPrefix) && line != "" {
			a.payload(a.pending + line)
			return
		}
		a.logger.Warn("Dropping truncated stream frame", "frame", truncate(a.pending, 120))
		a.pending = ""
		a.skipped++
	}

	if !strings.HasPrefix(line, dataPrefix) {
		return
	}
	data := strings.TrimPrefix(strings.TrimPrefix(line, dataPrefix), " ")
	if strings.TrimSpace(data) == doneSentinel {
		a.done = true
		return
	}
	a.payload(data)
}

func (a *Assembler) payload(data string) {
	a.pending = ""

	var f frame
	if err := json.Unmarshal([]byte(data), &f); err != nil {
		if truncated(err) {
			a.pending = data
			return
		}
		a.logger.Warn("Skipping malformed stream frame", "error", err, "frame", truncate(data, 120))
		a.skipped++
		return
	}
	if len(f.Choices) == 0 || f.Choices[0].Delta.Content == "" {
		return
	}

	delta := f.Choices[0].Delta.Content
	a.text.WriteString(delta)
	full := a.text.String()
	if a.onDelta != nil {
		a.onDelta(delta, full)
	}
	if html, ok := ExtractHTML(full); ok && html != a.html {
		a.html = html
		if a.onPreview != nil {
			a.onPreview(html)
		}
	}
}

func truncated(err error) bool {
	var syntaxErr *json.SyntaxError
	return errors.As(err, &syntaxErr) && strings.Contains(syntaxErr.Error(), "unexpected end of JSON input")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
