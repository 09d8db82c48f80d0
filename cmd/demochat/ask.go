package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"studio/backend/internal/stream"
)

var errReplyFailed = errors.New("reply failed")

func newAskCmd(load func() options) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Send one prompt and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := load()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts.Render)
			session := opts.session(p.update)
			return ask(ctx, session, opts, p, strings.Join(args, " "))
		},
	}
}

func newChatCmd(load func() options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Hold a conversation; /clear starts over, /quit exits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := load()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts.Render)
			session := opts.session(p.update)
			return converse(ctx, cmd.InOrStdin(), session, opts, p)
		},
	}
}

func converse(ctx context.Context, in io.Reader, session *stream.Session, opts options, p *printer) error {
	scanner := bufio.NewScanner(in)
	for {
		p.prompt()
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/clear":
			session.Clear()
			p.status("conversation cleared")
			continue
		}
		if err := ask(ctx, session, opts, p, line); err != nil && !errors.Is(err, errReplyFailed) {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// ask sends one prompt. A failed or refused send is printed and reported as
// errReplyFailed so the caller can decide whether to carry on.
func ask(ctx context.Context, session *stream.Session, opts options, p *printer, prompt string) error {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	reply, err := session.Send(ctx, prompt)
	if err != nil {
		p.failure(err.Error())
		return fmt.Errorf("%w: %w", errReplyFailed, err)
	}
	switch {
	case reply.Canceled:
		p.status("canceled")
		return nil
	case reply.Failed():
		p.failure(reply.Text)
		return errReplyFailed
	}

	if err := p.finish(reply.Text); err != nil {
		return err
	}
	if opts.HTMLFile != "" && reply.HTML != "" {
		if err := os.WriteFile(opts.HTMLFile, []byte(reply.HTML+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write preview: %w", err)
		}
		p.status(fmt.Sprintf("preview saved to %s (%d bytes)", opts.HTMLFile, len(reply.HTML)))
	}
	return nil
}
