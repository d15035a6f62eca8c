package emil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PromptType selects a prompt's completion source and filters, per §4.7.
type PromptType int

const (
	PromptFiles PromptType = iota
	PromptDir
	PromptBuffer
	PromptCommand
	PromptSearch
)

// completionState is the per-minibuffer completion state machine of
// §4.7: Fresh until the first unsuccessful TAB, then Armed until the text
// changes or a prompt completes.
type completionState struct {
	lastCompletedText string
	hasLast           bool
	successiveTabs    int
	matches           []string
	selected          int
}

func (cs *completionState) reset() {
	*cs = completionState{selected: -1}
}

// completionResult is the output of one completion-source query.
type completionResult struct {
	matches      []string
	commonPrefix string
}

// findCommonPrefix returns the longest shared byte prefix of strs.
func findCommonPrefix(strs []string) string {
	if len(strs) == 0 {
		return ""
	}
	if len(strs) == 1 {
		return strs[0]
	}
	prefix := strs[0]
	for _, s := range strs[1:] {
		n := 0
		for n < len(prefix) && n < len(s) && prefix[n] == s[n] {
			n++
		}
		prefix = prefix[:n]
		if prefix == "" {
			break
		}
	}
	return prefix
}

// getFileCompletions globs prefix+"*" after tilde expansion, marking
// directory matches with a trailing slash the way GLOB_MARK does.
func getFileCompletions(prefix string) completionResult {
	pattern := prefix
	if strings.HasPrefix(pattern, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			pattern = filepath.Join(home, pattern[1:])
			if strings.HasSuffix(prefix, "/") {
				pattern += "/"
			}
		}
	}
	matches, err := filepath.Glob(pattern + "*")
	if err != nil || len(matches) == 0 {
		return completionResult{}
	}
	sort.Strings(matches)
	out := make([]string, len(matches))
	for i, m := range matches {
		if st, err := os.Stat(m); err == nil && st.IsDir() {
			m += "/"
		}
		out[i] = m
	}
	return completionResult{matches: out, commonPrefix: findCommonPrefix(out)}
}

// getDirCompletions is getFileCompletions filtered to directory matches.
func getDirCompletions(prefix string) completionResult {
	r := getFileCompletions(prefix)
	var dirs []string
	for _, m := range r.matches {
		if strings.HasSuffix(m, "/") {
			dirs = append(dirs, m)
		}
	}
	if len(dirs) == 0 {
		return completionResult{}
	}
	return completionResult{matches: dirs, commonPrefix: findCommonPrefix(dirs)}
}

// getBufferCompletions matches prefix against every buffer's basename
// except the current buffer and *Completions*, returning display names
// as matches but computing the common prefix over basenames (since the
// user types basenames into the prompt).
func getBufferCompletions(s *EditorState, prefix string, current *Buffer) completionResult {
	var matches, basenames []string
	for b := s.buffers; b != nil; b = b.next {
		if b == current || b.DisplayName() == "*Completions*" {
			continue
		}
		base := b.DisplayName()
		if strings.HasPrefix(base, prefix) {
			matches = append(matches, base)
			basenames = append(basenames, base)
		}
	}
	if len(matches) == 0 {
		return completionResult{}
	}
	return completionResult{matches: matches, commonPrefix: findCommonPrefix(basenames)}
}

// getCommandCompletions case-insensitively prefix-matches registered
// command names.
func getCommandCompletions(s *EditorState, prefix string) completionResult {
	lower := strings.ToLower(prefix)
	var matches []string
	for _, name := range s.commands {
		if strings.HasPrefix(name, lower) {
			matches = append(matches, name)
		}
	}
	if len(matches) == 0 {
		return completionResult{}
	}
	return completionResult{matches: matches, commonPrefix: findCommonPrefix(matches)}
}

func queryCompletions(s *EditorState, typ PromptType, text string, current *Buffer) completionResult {
	switch typ {
	case PromptFiles:
		return getFileCompletions(text)
	case PromptDir:
		return getDirCompletions(text)
	case PromptBuffer, PromptSearch:
		return getBufferCompletions(s, text, current)
	case PromptCommand:
		return getCommandCompletions(s, text)
	default:
		return completionResult{}
	}
}

// replaceMinibufferText overwrites the minibuffer's single row with text
// and places the cursor at its end.
func replaceMinibufferText(mb *Buffer, text string) {
	mb.rows = []*Row{newRow([]byte(text))}
	mb.cx = len(text)
	mb.cy = 0
	mb.invalidateScreenCache()
}

// HandleCompletion runs one TAB-completion step against the minibuffer,
// per the Fresh/Armed state machine of §4.7. It returns the status
// message to show, if any, and whether a *Completions* buffer should now
// be displayed (the caller owns window layout).
func (s *EditorState) HandleCompletion(typ PromptType) (statusMsg string, showCompletions bool) {
	mb := s.minibuffer
	cs := &mb.completion
	text := ""
	if len(mb.rows) > 0 {
		text = string(mb.rows[0].bytes)
	}

	if !cs.hasLast || cs.lastCompletedText != text {
		cs.reset()
	}

	result := queryCompletions(s, typ, text, s.current)

	switch {
	case len(result.matches) == 0:
		statusMsg = "[No match]"
	case len(result.matches) == 1:
		replaceMinibufferText(mb, result.matches[0])
		s.closeCompletionsBuffer()
	default:
		if len(result.commonPrefix) > len(text) {
			replaceMinibufferText(mb, result.commonPrefix)
			s.closeCompletionsBuffer()
		} else if cs.successiveTabs > 0 {
			s.showCompletionsBuffer(result.matches, typ)
			showCompletions = true
		} else {
			statusMsg = "[Complete, but not unique]"
		}
	}

	cs.successiveTabs++
	cs.hasLast = true
	if len(mb.rows) > 0 {
		cs.lastCompletedText = string(mb.rows[0].bytes)
	} else {
		cs.lastCompletedText = ""
	}
	return statusMsg, showCompletions
}

// CycleCompletion advances the *Completions* selection by direction
// (+1 for M-n, -1 for M-p) and rewrites the minibuffer to the selected
// match's basename.
func (s *EditorState) CycleCompletion(direction int) {
	cs := &s.minibuffer.completion
	if len(cs.matches) == 0 {
		return
	}
	cs.selected += direction
	if cs.selected >= len(cs.matches) {
		cs.selected = 0
	}
	if cs.selected < 0 {
		cs.selected = len(cs.matches) - 1
	}
	match := cs.matches[cs.selected]
	base := filepath.Base(match)
	if strings.HasSuffix(match, "/") {
		base += "/"
	}
	replaceMinibufferText(s.minibuffer, base)
	cs.lastCompletedText = base

	if comp := s.FindBuffer("*Completions*"); comp != nil {
		comp.cy = cs.selected + 2
	}
}

// showCompletionsBuffer populates (or creates) the *Completions* buffer
// and gives it a window, columnar for files/commands, one match per line
// for buffers, then rebalances window heights so no window drops below
// three lines.
func (s *EditorState) showCompletionsBuffer(matches []string, typ PromptType) {
	comp := s.FindBuffer("*Completions*")
	if comp == nil {
		comp = NewBuffer()
		comp.SetFilename("*Completions*")
		comp.SetSpecial(true)
		s.AddBuffer(comp)
	}
	comp.rows = nil
	comp.SetReadOnly(false)
	comp.rows = append(comp.rows, newRow([]byte(header(len(matches)))))
	comp.rows = append(comp.rows, newRow(nil))

	if typ == PromptBuffer || typ == PromptSearch {
		for _, m := range matches {
			comp.rows = append(comp.rows, newRow([]byte(m)))
		}
		s.minibuffer.completion.matches = append([]string(nil), matches...)
		s.minibuffer.completion.selected = 0
		comp.cy = 2
	} else {
		maxWidth := 0
		for _, m := range matches {
			if w := computeWidth([]byte(m)); w > maxWidth {
				maxWidth = w
			}
		}
		colWidth := maxWidth + 2
		cols := s.screenCols / colWidth
		if cols < 1 {
			cols = 1
		}
		rows := (len(matches) + cols - 1) / cols
		for row := 0; row < rows; row++ {
			var line strings.Builder
			for col := 0; col < cols; col++ {
				idx := row + col*rows
				if idx >= len(matches) {
					break
				}
				line.WriteString(matches[idx])
				pad := colWidth - computeWidth([]byte(matches[idx]))
				for i := 0; i < pad; i++ {
					line.WriteByte(' ')
				}
			}
			text := strings.TrimRight(line.String(), " ")
			comp.rows = append(comp.rows, newRow([]byte(text)))
		}
	}
	comp.SetReadOnly(true)
	comp.invalidateScreenCache()

	if s.FindBufferWindow(comp) == -1 {
		focusedIdx := s.windowFocusedIdx()
		s.CreateWindow()
		newWin := s.windows[len(s.windows)-1]
		newWin.buf = comp
		newWin.focused = false
		for i, w := range s.windows {
			w.focused = i == focusedIdx
		}
	}
	s.rebalanceForCompletions(comp)
}

func header(n int) string {
	return fmt.Sprintf("Possible completions (%d):", n)
}

// rebalanceForCompletions gives the completions window enough height to
// show its content (capped so every other window keeps at least three
// lines), and distributes the remainder evenly among the rest.
func (s *EditorState) rebalanceForCompletions(comp *Buffer) {
	idx := s.FindBufferWindow(comp)
	if idx < 0 || len(s.windows) < 2 {
		return
	}
	contentRows := s.screenRows - 1 - len(s.windows) // minus minibuffer and status rows
	others := len(s.windows) - 1
	minForOthers := others * 3
	maxCompHeight := contentRows - minForOthers
	compHeight := comp.NumRows() + 2
	if compHeight > maxCompHeight {
		compHeight = maxCompHeight
	}
	if compHeight < 3 {
		compHeight = 3
	}
	remaining := contentRows - compHeight
	perOther := remaining / others
	for i, w := range s.windows {
		if i == idx {
			w.height = compHeight
		} else {
			w.height = perOther
		}
	}
}

// closeCompletionsBuffer removes the *Completions* window and buffer, if
// present, and resets the minibuffer's cycling state.
func (s *EditorState) closeCompletionsBuffer() {
	s.minibuffer.completion.matches = nil
	s.minibuffer.completion.selected = -1

	comp := s.FindBuffer("*Completions*")
	if comp == nil {
		return
	}
	if idx := s.FindBufferWindow(comp); idx >= 0 && len(s.windows) > 1 {
		s.DestroyWindow(idx)
	}
	s.RemoveBuffer(comp)
	if s.current == comp {
		if s.buffers != nil {
			s.current = s.buffers
		}
	}
}
