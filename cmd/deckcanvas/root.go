package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/deckcanvas"
	"github.com/gogpu/deckcanvas/app"
	"github.com/gogpu/deckcanvas/config"

	// Registers the streamdeck render backend.
	_ "github.com/gogpu/deckcanvas/device"
)

var (
	configPath string
	backend    string
	fps        int
	verbose    bool

	cfg *config.Config
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "deckcanvas",
		Short:         "Draw widget pages on a Stream Deck",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = config.DefaultPath()
			}
			c, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = c

			level, err := cfg.SlogLevel()
			if err != nil {
				return err
			}
			if verbose {
				level = slog.LevelDebug
			}
			deckcanvas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVar(&backend, "backend", "", `render backend: "auto", streamdeck, terminal or debug`)
	pf.IntVar(&fps, "fps", 0, "frames per second, 1..60 (default from config)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(detectCmd(), demoCmd(), playCmd(), snapshotCmd(), createCmd())
	return root
}

func execute() error {
	return newRootCmd().Execute()
}

// appOptions merges the config file with the global flags.
func appOptions() app.Options {
	opts := app.FromConfig(cfg, configPath)
	if backend != "" {
		opts.Backend = backend
	}
	opts.FPS = fps
	return opts
}
