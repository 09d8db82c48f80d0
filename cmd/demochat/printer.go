package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"studio/backend/internal/stream"
)

var (
	colorAccent = lipgloss.Color("#F59E0B")
	colorMuted  = lipgloss.Color("#6B7280")
	colorError  = lipgloss.Color("#EF4444")

	promptStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError).Bold(true)
)

// printer writes replies either live, delta by delta, or once complete as
// rendered markdown.
type printer struct {
	out, errOut io.Writer
	render      bool
	streamed    bool
}

func newPrinter(out, errOut io.Writer, render bool) *printer {
	return &printer{out: out, errOut: errOut, render: render}
}

func (p *printer) update(u stream.Update) {
	if p.render || u.Delta == "" {
		return
	}
	p.streamed = true
	_, _ = io.WriteString(p.out, u.Delta)
}

func (p *printer) finish(text string) error {
	if !p.render {
		if p.streamed {
			_, _ = io.WriteString(p.out, "\n")
		}
		p.streamed = false
		return nil
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(text)
	if err != nil {
		return fmt.Errorf("failed to render reply: %w", err)
	}
	_, err = io.WriteString(p.out, out)
	return err
}

func (p *printer) prompt() {
	_, _ = fmt.Fprint(p.out, promptStyle.Render("you> "))
}

func (p *printer) status(msg string) {
	_, _ = fmt.Fprintln(p.errOut, statusStyle.Render(msg))
}

func (p *printer) failure(msg string) {
	if p.streamed {
		_, _ = io.WriteString(p.out, "\n")
		p.streamed = false
	}
	_, _ = fmt.Fprintln(p.errOut, errorStyle.Render(msg))
}
