package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/deckcanvas"
	"github.com/gogpu/deckcanvas/app"
	"github.com/gogpu/deckcanvas/internal/demo"
	"github.com/gogpu/deckcanvas/mixer"
)

func demoCmd() *cobra.Command {
	var names []string
	var help strings.Builder
	for _, p := range demo.Pages() {
		names = append(names, p.Name)
		fmt.Fprintf(&help, "  %-10s %s\n", p.Name, p.Summary)
	}

	return &cobra.Command{
		Use:       "demo [" + strings.Join(names, "|") + "]",
		Short:     "Run a built-in page",
		Long:      "Run a built-in page. Pages:\n\n" + help.String(),
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := names[0]
			if len(args) == 1 {
				name = args[0]
			}
			page, err := demo.Lookup(name)
			if err != nil {
				return err
			}

			var m mixer.Mixer
			if page.Name == "volume" {
				m = openMixer()
				defer m.Close()
			}
			return app.New(appOptions(), page.Hooks(m)).Run(cmd.Context())
		},
	}
}

// openMixer connects to PulseAudio, or returns an in-memory mixer when no
// server is reachable.
func openMixer() mixer.Mixer {
	p, err := mixer.NewPulse()
	if err != nil {
		deckcanvas.Logger().Warn("pulseaudio unavailable, using a simulated mixer", "error", err)
		return mixer.NewStatic(0.5)
	}
	return p
}
