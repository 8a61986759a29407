package main

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/deckcanvas"
	"github.com/gogpu/deckcanvas/app"
	"github.com/gogpu/deckcanvas/layout"
)

func playCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "play <layout.yaml>",
		Short: "Run a YAML layout page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			page, err := layout.Load(path)
			if err != nil {
				return err
			}
			opts, err := pageOptions(page)
			if err != nil {
				return err
			}

			a := app.New(opts, app.Hooks{
				Setup: func(a *app.App) error { return load(a, page) },
			})
			if !watch {
				return a.Run(cmd.Context())
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				defer cancel()
				return a.Run(gctx)
			})
			g.Go(func() error {
				return layout.Watch(gctx, path, func(p *layout.Page, err error) {
					if err != nil {
						return
					}
					if err := load(a, p); err != nil {
						deckcanvas.Logger().Warn("layout not applied", "path", path, "error", err)
					}
				})
			})
			return g.Wait()
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the page when the file changes")
	return cmd
}

// pageOptions sizes the debug and terminal canvases after the page. A
// stream deck keeps its own geometry.
func pageOptions(p *layout.Page) (app.Options, error) {
	m, err := p.Geometry()
	if err != nil {
		return app.Options{}, err
	}
	opts := appOptions()
	opts.Render.Cols, opts.Render.Rows, opts.Render.ButtonSize = m.Cols, m.Rows, m.ButtonSize
	if p.Background != "" {
		opts.Render.Background = p.Background
	}
	return opts, nil
}

// load builds p and swaps it in as the app's page.
func load(a *app.App, p *layout.Page) error {
	mgr, err := p.Build()
	if err != nil {
		return err
	}
	a.Widgets().Replace(mgr.All()...)
	return nil
}
