package emil

import "testing"

func TestPromptEnterAcceptsAndRecordsHistory(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	hist := newMemoryHistory()
	p := s.StartPrompt(PromptCommand, "M-x ", hist)
	for _, r := range "save-buffer" {
		p.HandleKey(s, charKey(r))
	}
	if !p.HandleKey(s, Key{Special: SpecialEnter}) {
		t.Fatal("Enter should finish the prompt")
	}
	done, accepted, text := p.Done()
	if !done || !accepted || text != "save-buffer" {
		t.Fatalf("got done=%v accepted=%v text=%q", done, accepted, text)
	}
	if s.Prompting() {
		t.Fatal("Prompting() should be false once the prompt is done")
	}
}

func TestPromptCtrlGCancels(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	p := s.StartPrompt(PromptCommand, "M-x ", nil)
	p.HandleKey(s, charKey('x'))
	if !p.HandleKey(s, ctrlKey('g')) {
		t.Fatal("C-g should finish the prompt")
	}
	done, accepted, _ := p.Done()
	if !done || accepted {
		t.Fatalf("got done=%v accepted=%v, want done=true accepted=false", done, accepted)
	}
}

func TestPromptBackspaceClosesCompletionsBuffer(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	s.SetScreenSize(40, 80)
	p := s.StartPrompt(PromptCommand, "M-x ", nil)
	newCompletionState(s, "save-buffer", "save-as")
	for _, r := range "save-" {
		p.HandleKey(s, charKey(r))
	}
	s.HandleCompletion(PromptCommand) // not unique: arms
	s.HandleCompletion(PromptCommand) // second TAB: opens *Completions*
	if s.FindBuffer("*Completions*") == nil {
		t.Fatal("setup failed: expected a *Completions* buffer")
	}

	p.HandleKey(s, Key{Special: SpecialBackspace})
	if s.FindBuffer("*Completions*") != nil {
		t.Fatal("editing the minibuffer text should close *Completions*")
	}
}

func TestPromptRuneInsertClosesCompletionsBuffer(t *testing.T) {
	s := NewEditorState(DefaultConfig())
	s.SetScreenSize(40, 80)
	p := s.StartPrompt(PromptCommand, "M-x ", nil)
	newCompletionState(s, "save-buffer", "save-as")
	for _, r := range "save-" {
		p.HandleKey(s, charKey(r))
	}
	s.HandleCompletion(PromptCommand)
	s.HandleCompletion(PromptCommand)
	if s.FindBuffer("*Completions*") == nil {
		t.Fatal("setup failed: expected a *Completions* buffer")
	}

	p.HandleKey(s, charKey('x'))
	if s.FindBuffer("*Completions*") != nil {
		t.Fatal("typing a character should close *Completions*")
	}
}
