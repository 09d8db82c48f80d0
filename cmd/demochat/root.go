package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"studio/backend/internal/stream"
)

const defaultEndpoint = "http://localhost:8000/api/v1/demo-chat"

// options are the resolved settings shared by every subcommand.
type options struct {
	Endpoint    string
	Token       string
	Tier        string
	HTMLFile    string
	Render      bool
	Timeout     time.Duration
	MinInterval time.Duration
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "demochat",
		Short:         "Chat with the studio's demo assistant",
		Long:          `Streams replies from the demo chat endpoint and saves the generated HTML preview.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("endpoint", defaultEndpoint, "demo chat endpoint URL")
	flags.String("token", "", "bearer token for the endpoint")
	flags.String("tier", "basic", "pricing tier: basic, business or premium")
	flags.String("html", "", "write the last HTML preview to this file")
	flags.Bool("render", false, "render the final reply as markdown instead of streaming it")
	flags.Duration("timeout", 2*time.Minute, "maximum time for one reply")
	flags.Duration("min-interval", 0, "minimum time between two prompts")
	_ = v.BindPFlags(flags)

	v.SetEnvPrefix("DEMOCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	load := func() options {
		return options{
			Endpoint:    v.GetString("endpoint"),
			Token:       v.GetString("token"),
			Tier:        v.GetString("tier"),
			HTMLFile:    v.GetString("html"),
			Render:      v.GetBool("render"),
			Timeout:     v.GetDuration("timeout"),
			MinInterval: v.GetDuration("min-interval"),
		}
	}

	root.AddCommand(newAskCmd(load), newChatCmd(load))
	return root
}

func (o options) session(onUpdate func(stream.Update)) *stream.Session {
	return stream.NewSession(
		stream.NewClient(o.Endpoint, o.Token),
		stream.WithTier(o.Tier),
		stream.WithMinInterval(o.MinInterval),
		stream.WithUpdateHandler(onUpdate),
	)
}
