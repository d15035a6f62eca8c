package emil

import (
	"io"

	"github.com/aymanbagabas/go-osc52/v2"
)

// Clipboard is the external-collaborator boundary for system clipboard
// access (§1): OSC 52 encoding and the terminal write it requires belong
// here, not scattered through the editing primitives.
type Clipboard struct {
	w io.Writer
}

// NewClipboard wraps w (typically os.Stdout) for OSC 52 clipboard writes.
func NewClipboard(w io.Writer) *Clipboard {
	return &Clipboard{w: w}
}

// Copy encodes text as an OSC 52 clipboard-set sequence and writes it.
func (c *Clipboard) Copy(text []byte) error {
	seq := osc52.New(string(text))
	_, err := seq.WriteTo(c.w)
	if err != nil {
		return wrapError(KindIOFailed, "clipboard copy", err)
	}
	return nil
}
