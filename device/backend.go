package device

import (
	"github.com/gogpu/deckcanvas/render"
)

func init() {
	render.Register("streamdeck", render.PriorityDevice, newRenderer, func() bool {
		return len(Enumerate()) > 0
	})
}

// newRenderer opens the deck named by opts.Serial, or the first one, and
// wraps it in a render.DeckRenderer.
func newRenderer(opts render.Options) (render.Renderer, error) {
	d, err := NewManager().Connect(opts.Serial)
	if err != nil {
		return nil, err
	}
	r, err := render.NewDeckRenderer(d, opts)
	if err != nil {
		d.Close()
		return nil, err
	}
	return r, nil
}
