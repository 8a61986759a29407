// Command deckcanvas drives Stream Deck pages built from deckcanvas widgets.
//
// Usage:
//
//	deckcanvas detect
//	deckcanvas demo [showcase|dashboard|audio|volume]
//	deckcanvas play page.yaml --watch
//	deckcanvas snapshot page.yaml -o page.png
//	deckcanvas create MyWidget --dir ./widgets
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, "deckcanvas:", err)
		os.Exit(1)
	}
}
