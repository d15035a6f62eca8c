package emil

import (
	"fmt"
	"time"
)

// statusMaxAge is how long a status message stays visible in the
// minibuffer before it is suppressed.
const statusMaxAge = 5 * time.Second

// StatusMessage is a timestamped message shown in the minibuffer.
type StatusMessage struct {
	Text string
	At   time.Time
}

// Fresh reports whether the message is still within the display window.
func (m StatusMessage) Fresh(now time.Time) bool {
	if m.Text == "" {
		return false
	}
	return now.Sub(m.At) < statusMaxAge
}

// SetStatus records a status message with the current time, matching the
// editorSetStatusMessage behavior of stamping every message it receives.
func (s *EditorState) SetStatus(format string, args ...any) {
	s.status = StatusMessage{Text: fmt.Sprintf(format, args...), At: time.Now()}
}

// Status returns the current status message, or the zero value if it has
// expired under statusMaxAge.
func (s *EditorState) Status() StatusMessage {
	if !s.status.Fresh(time.Now()) {
		return StatusMessage{}
	}
	return s.status
}

// StatusRaw returns the status message regardless of age, without the 5s
// fade that Status applies. The renderer uses Status.
func (s *EditorState) StatusRaw() StatusMessage {
	return s.status
}
