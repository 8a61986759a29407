package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/karalabe/hid"
	"github.com/spf13/cobra"

	"github.com/gogpu/deckcanvas"
	"github.com/gogpu/deckcanvas/device"
	"github.com/gogpu/deckcanvas/render"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(deckcanvas.ColorPrimary))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(deckcanvas.ColorTextSecondary)).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(deckcanvas.ColorTextPrimary))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(deckcanvas.ColorWarning))
	tipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(deckcanvas.ColorTextSecondary)).PaddingLeft(2)
)

func detectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "List attached Stream Decks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printDevices(cmd.OutOrStdout(), device.NewManager().Detect())
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), labelStyle.Render("backends"), valueStyle.Render(fmt.Sprint(render.Available())))
			return nil
		},
	}
}

func printDevices(w io.Writer, infos []device.Info) {
	if len(infos) == 0 {
		fmt.Fprintln(w, warnStyle.Render("No Stream Deck found."))
		for _, tip := range troubleshooting() {
			fmt.Fprintln(w, tipStyle.Render("• "+tip))
		}
		return
	}
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d Stream Deck(s) found", len(infos))))
	for i, info := range infos {
		m := info.Model
		grid := deckcanvas.Model{Cols: m.Cols, Rows: m.Rows, ButtonSize: m.ImageSize}
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("[%d] %s", i, m.Name)))
		field(w, "serial", orDash(info.Serial))
		field(w, "firmware", orDash(info.Firmware()))
		field(w, "grid", fmt.Sprintf("%dx%d (%d keys)", m.Cols, m.Rows, m.Keys))
		field(w, "key size", fmt.Sprintf("%dpx %s", m.ImageSize, m.Format))
		field(w, "canvas", fmt.Sprintf("%dx%dpx", grid.Width(), grid.Height()))
		field(w, "path", info.Path)
	}
}

func field(w io.Writer, label, value string) {
	fmt.Fprintln(w, labelStyle.Render(label), valueStyle.Render(value))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func troubleshooting() []string {
	var tips []string
	if !hid.Supported() {
		tips = append(tips, "USB HID is not available in this build; rebuild with CGO_ENABLED=1.")
	}
	tips = append(tips,
		"Check the cable and try another USB port.",
		"Quit the Elgato Stream Deck app, it holds the device open.",
	)
	if runtime.GOOS == "linux" {
		tips = append(tips, `Add a udev rule granting access to vendor 0fd9, e.g. SUBSYSTEM=="usb", ATTRS{idVendor}=="0fd9", MODE="0660", TAG+="uaccess".`)
	}
	tips = append(tips, "Without a device, run with --backend terminal or --backend debug.")
	return tips
}
