package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/deckcanvas/layout"
)

func snapshotCmd() *cobra.Command {
	var out string
	var frames int
	cmd := &cobra.Command{
		Use:   "snapshot <layout.yaml>",
		Short: "Render a YAML layout page to a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if frames < 1 {
				return fmt.Errorf("--frames must be at least 1")
			}
			page, err := layout.Load(args[0])
			if err != nil {
				return err
			}
			if err := snapshot(page, out, frames); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "snapshot.png", "output PNG file")
	cmd.Flags().IntVar(&frames, "frames", 1, "frames to render before saving, advancing animations")
	return cmd
}

func snapshot(page *layout.Page, out string, frames int) error {
	c, err := page.NewCanvas()
	if err != nil {
		return err
	}
	defer c.Close()
	mgr, err := page.Build()
	if err != nil {
		return err
	}
	for i := 0; i < frames; i++ {
		if err := c.Clear(page.Background); err != nil {
			return err
		}
		if err := mgr.RenderAll(c); err != nil {
			return err
		}
	}
	return c.SaveDebug(out)
}
