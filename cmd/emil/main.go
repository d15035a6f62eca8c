// Command emil is a modal-free, terminal text editor.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/nicholascarroll/emil"
)

func main() {
	os.Exit(run())
}

func run() int {
	args := os.Args[1:]
	var startLine int
	var files []string

	for _, a := range args {
		switch {
		case a == "--version":
			fmt.Println("emil", emil.Version)
			return 0
		case strings.HasPrefix(a, "+"):
			n, err := strconv.Atoi(a[1:])
			if err == nil {
				startLine = n
			}
		default:
			files = append(files, a)
		}
	}

	cfg, err := emil.LoadConfig(emil.DefaultConfigPath())
	if err != nil {
		fmt.Fprintln(os.Stderr, "emil:", err)
	}

	state := emil.NewEditorState(cfg)
	exitCode := 0

	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, "emil: reading stdin:", err)
			return 1
		}
		buf, loadErr := loadStdin(data)
		if loadErr != nil {
			fmt.Fprintln(os.Stderr, "emil:", loadErr)
			return 1
		}
		state.AddBuffer(buf)
		state.FocusedWindow().Buffer().SetFilename("")

		tty, err := os.Open("/dev/tty")
		if err != nil {
			fmt.Fprintln(os.Stderr, "emil: reopening /dev/tty:", err)
			return 1
		}
		defer tty.Close()
		os.Stdin = tty
	}

	for _, f := range files {
		buf := emil.NewBuffer()
		if _, err := emil.Load(buf, f); err != nil {
			fmt.Fprintln(os.Stderr, "emil:", err)
			exitCode = 1
			continue
		}
		state.AddBuffer(buf)
	}
	if b := firstRealBuffer(state); b != nil {
		state.OpenInFocusedWindow(b)
		if startLine > 0 {
			b.SetCursor(0, startLine-1)
		}
	}

	term := emil.NewTerminal(int(os.Stdin.Fd()))
	if err := term.EnterRaw(); err != nil {
		fmt.Fprintln(os.Stderr, "emil:", err)
		return 1
	}
	defer term.ExitRaw()

	state.SetClipboard(emil.NewClipboard(os.Stdout))

	size := term.Size()
	state.SetScreenSize(size.Rows, size.Cols)

	decoder := emil.NewKeyDecoder(bufio.NewReader(os.Stdin))
	hint := emil.RefreshFull
	os.Stdout.Write(state.Render(hint))

	for !state.QuitRequested() {
		select {
		case sz := <-term.Resize():
			state.SetScreenSize(sz.Rows, sz.Cols)
			hint = emil.RefreshFull
		default:
		}

		key, err := decoder.Decode()
		if err != nil {
			break
		}
		if p := state.ActivePrompt(); p != nil {
			if p.HandleKey(state, key) {
				state.FinishPrompt()
			}
		} else {
			state.Dispatch(key)
		}
		// The loop cannot tell which keys only moved the cursor, so every
		// frame is a full redraw.
		os.Stdout.Write(state.Render(hint))
	}

	return exitCode
}

func loadStdin(data []byte) (*emil.Buffer, error) {
	buf := emil.NewBuffer()
	if err := emil.LoadStdin(buf, data); err != nil {
		return nil, err
	}
	buf.SetReadOnly(true)
	buf.SetWordWrap(true)
	return buf, nil
}

func firstRealBuffer(s *emil.EditorState) *emil.Buffer {
	// AddBuffer prepends, so the initial scratch buffer is the list tail
	// and the first file loaded sits just before it.
	bufs := s.Buffers()
	if len(bufs) < 2 {
		return nil
	}
	return bufs[len(bufs)-2]
}

