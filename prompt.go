package emil

// Prompt drives one minibuffer interaction: a prefix label, a
// completion source, and a history store. The history is the store the
// caller passes to StartPrompt, or a new empty in-memory one when it
// passes nil; prompts share history only through a store the caller
// passes to each of them. The caller (an external keystroke dispatcher, §1) decodes
// raw input into Keys and feeds them to HandleKey; this type owns
// everything about what a keystroke means once it reaches the
// minibuffer.
type Prompt struct {
	typ      PromptType
	prefix   string
	history  historyStore
	done     bool
	accepted bool
	result   string
}

// StartPrompt arms the minibuffer for a new prompt, clearing any prior
// text and completion state.
func (s *EditorState) StartPrompt(typ PromptType, prefix string, history historyStore) *Prompt {
	s.prompting = true
	s.minibuffer.rows = []*Row{newRow(nil)}
	s.minibuffer.cx, s.minibuffer.cy = 0, 0
	s.minibuffer.completion.reset()
	if history == nil {
		history = newMemoryHistory()
	}
	p := &Prompt{typ: typ, prefix: prefix, history: history}
	s.prompt = p
	return p
}

// HandleKey routes one decoded key to either a prompt-specific action
// (accept, cancel, complete, history) or a plain minibuffer edit, and
// reports whether the prompt has finished.
func (p *Prompt) HandleKey(s *EditorState, k Key) (done bool) {
	mb := s.minibuffer

	switch {
	case k.Special == SpecialEnter:
		p.accepted = true
		p.done = true
		p.result = currentText(mb)
		p.history.Add(p.result)
		s.prompting = false
		s.closeCompletionsBuffer()
		return true

	case k.Ctrl && k.Rune == 'g':
		p.done = true
		p.accepted = false
		s.prompting = false
		s.closeCompletionsBuffer()
		return true

	case k.Special == SpecialTab:
		msg, _ := s.HandleCompletion(p.typ)
		if msg != "" {
			s.SetStatus(msg)
		}
		return false

	case k.Special == SpecialUp:
		if text, ok := p.history.Prev(currentText(mb)); ok {
			replaceMinibufferText(mb, text)
		}
		return false

	case k.Special == SpecialDown:
		if text, ok := p.history.Next(); ok {
			replaceMinibufferText(mb, text)
		}
		return false

	case k.Alt && k.Rune == 'n':
		s.CycleCompletion(1)
		return false

	case k.Alt && k.Rune == 'p':
		s.CycleCompletion(-1)
		return false

	case k.Special == SpecialBackspace:
		s.closeCompletionsBuffer()
		mb.Backspace(nil, 1)
		return false

	case k.IsRune() && !k.Ctrl && !k.Alt:
		s.closeCompletionsBuffer()
		if k.Rune < 0x80 {
			mb.InsertChar(nil, byte(k.Rune), 1)
		} else {
			mb.InsertUnicode(nil, k.Rune)
		}
		return false
	}
	return false
}

// Done reports whether the prompt has finished and, if so, whether it
// was accepted (Enter) or cancelled (C-g), along with the final text.
func (p *Prompt) Done() (done, accepted bool, text string) {
	return p.done, p.accepted, p.result
}

func currentText(mb *Buffer) string {
	if len(mb.rows) == 0 {
		return ""
	}
	return string(mb.rows[0].bytes)
}
