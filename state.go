package emil

import "strings"

// EditorState is the aggregate root for one running editor session: the
// buffer list, the window layout, the minibuffer, and the shared
// kill-ring/register/config state that every buffer and window draws on.
type EditorState struct {
	buffers *Buffer // head of the buffer linked list
	current *Buffer // buffer of the focused window, kept in sync by FocusNext

	windows []*Window

	minibuffer *Buffer
	prompting  bool
	searching  bool
	prompt     *Prompt // active prompt while prompting is true

	pendingCtrlX bool // C-x was pressed; next key picks the suffix

	clipboard *Clipboard // system clipboard, nil if none is attached

	status StatusMessage

	killRing  KillRing
	registers RegisterBank

	config Config

	commands []string

	screenRows, screenCols int

	quit bool
}

// SetClipboard attaches the system clipboard the M-w binding copies
// through. A nil clipboard leaves M-w copying to the kill ring only.
func (s *EditorState) SetClipboard(c *Clipboard) { s.clipboard = c }

// ActivePrompt returns the prompt currently driving the minibuffer, or nil
// if none is active. The run loop routes keys here instead of Dispatch
// while Prompting reports true.
func (s *EditorState) ActivePrompt() *Prompt { return s.prompt }

// FinishPrompt is called once ActivePrompt().HandleKey reports done; it
// clears the active prompt and, for an accepted find-file prompt, loads
// the chosen path into a new buffer and focuses it.
func (s *EditorState) FinishPrompt() {
	p := s.prompt
	s.prompt = nil
	if p == nil {
		return
	}
	done, accepted, text := p.Done()
	if !done || !accepted || text == "" {
		return
	}
	switch p.typ {
	case PromptFiles:
		buf := NewBuffer()
		res, err := Load(buf, text)
		if err != nil {
			s.SetStatus("%s", err.Error())
			return
		}
		s.AddBuffer(buf)
		s.OpenInFocusedWindow(buf)
		if res.LockConflict != nil {
			s.SetStatus("%s", res.LockConflict.Message)
		} else {
			s.SetStatus("%q", buf.DisplayName())
		}
	}
}

// RegisterCommand adds name to the M-x completion source. Dispatching a
// command by name to the function that implements it is an external
// collaborator (§1's keystroke dispatch boundary); this registry only
// needs to remember names for completion.
func (s *EditorState) RegisterCommand(name string) {
	s.commands = append(s.commands, strings.ToLower(name))
}

// NewEditorState creates a session with one scratch buffer and one
// window, matching the source editor's startup state before any file is
// opened.
func NewEditorState(cfg Config) *EditorState {
	s := &EditorState{config: cfg}
	scratch := NewBuffer()
	s.buffers = scratch
	s.current = scratch

	w := newWindow(scratch)
	w.focused = true
	s.windows = []*Window{w}

	mb := NewBuffer()
	mb.SetSingleLine(true)
	s.minibuffer = mb

	return s
}

// AddBuffer prepends buf to the buffer list and returns it.
func (s *EditorState) AddBuffer(buf *Buffer) *Buffer {
	buf.next = s.buffers
	s.buffers = buf
	return buf
}

// Buffers returns the buffer list as a slice, head first.
func (s *EditorState) Buffers() []*Buffer {
	var out []*Buffer
	for b := s.buffers; b != nil; b = b.next {
		out = append(out, b)
	}
	return out
}

// FindBuffer returns the first buffer with the given display name, or
// nil.
func (s *EditorState) FindBuffer(name string) *Buffer {
	for b := s.buffers; b != nil; b = b.next {
		if b.DisplayName() == name {
			return b
		}
	}
	return nil
}

// RemoveBuffer unlinks buf from the buffer list. Any window still
// pointing at it is the caller's responsibility to reassign first.
func (s *EditorState) RemoveBuffer(buf *Buffer) {
	if s.buffers == buf {
		s.buffers = buf.next
		return
	}
	for b := s.buffers; b != nil; b = b.next {
		if b.next == buf {
			b.next = buf.next
			return
		}
	}
}

// CurrentBuffer returns the buffer the focused window displays.
func (s *EditorState) CurrentBuffer() *Buffer { return s.current }

// Minibuffer returns the single shared minibuffer/prompt buffer.
func (s *EditorState) Minibuffer() *Buffer { return s.minibuffer }

// Prompting reports whether a minibuffer prompt is currently active.
func (s *EditorState) Prompting() bool { return s.prompting }

// Searching reports whether an incremental search is in progress.
func (s *EditorState) Searching() bool { return s.searching }

// SetScreenSize records the terminal size used for scroll and layout
// math. Call on startup and on every SIGWINCH.
func (s *EditorState) SetScreenSize(rows, cols int) {
	s.screenRows, s.screenCols = rows, cols
	for b := s.buffers; b != nil; b = b.next {
		b.invalidateScreenCache()
	}
}

func (s *EditorState) ScreenSize() (rows, cols int) { return s.screenRows, s.screenCols }

// RequestQuit marks the session for exit; the run loop checks this after
// each command.
func (s *EditorState) RequestQuit()    { s.quit = true }
func (s *EditorState) QuitRequested() bool { return s.quit }

// KillRing returns the shared kill ring.
func (s *EditorState) KillRing() *KillRing { return &s.killRing }

// Registers returns the shared register bank.
func (s *EditorState) Registers() *RegisterBank { return &s.registers }

// ModifiedBuffers returns every non-special buffer with unsaved changes.
func (s *EditorState) ModifiedBuffers() []*Buffer {
	var out []*Buffer
	for b := s.buffers; b != nil; b = b.next {
		if b.Dirty() > 0 && !b.specialBuffer {
			out = append(out, b)
		}
	}
	return out
}
