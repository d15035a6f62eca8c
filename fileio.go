package emil

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// wordWrapExtensions are file extensions that default word-wrap on, for
// prose-oriented file types.
var wordWrapExtensions = map[string]bool{
	".org":      true,
	".md":       true,
	".txt":      true,
	".fountain": true,
}

// checkUTF8Validity walks every row's bytes and rejects null bytes,
// overlong encodings, surrogate halves, and codepoints above U+10FFFF.
// This is the same byte-by-byte validation as the error taxonomy's
// KindUTF8Invalid, performed on a whole buffer at load time rather than
// incrementally.
func checkUTF8Validity(b *Buffer) bool {
	for _, row := range b.rows {
		if !rowIsValidUTF8(row.bytes) {
			return false
		}
	}
	return true
}

func rowIsValidUTF8(s []byte) bool {
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == 0x00:
			return false
		case c <= 0x7F:
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(s) || s[i+1]&0xC0 != 0x80 {
				return false
			}
			cp := (uint32(c&0x1F) << 6) | uint32(s[i+1]&0x3F)
			if cp < 0x80 {
				return false
			}
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(s) || s[i+1]&0xC0 != 0x80 || s[i+2]&0xC0 != 0x80 {
				return false
			}
			cp := (uint32(c&0x0F) << 12) | (uint32(s[i+1]&0x3F) << 6) | uint32(s[i+2]&0x3F)
			if cp < 0x800 {
				return false
			}
			if cp >= 0xD800 && cp <= 0xDFFF {
				return false
			}
			i += 3
		case c&0xF8 == 0xF0:
			if i+3 >= len(s) || s[i+1]&0xC0 != 0x80 || s[i+2]&0xC0 != 0x80 || s[i+3]&0xC0 != 0x80 {
				return false
			}
			cp := (uint32(c&0x07) << 18) | (uint32(s[i+1]&0x3F) << 12) | (uint32(s[i+2]&0x3F) << 6) | uint32(s[i+3]&0x3F)
			if cp < 0x10000 || cp > 0x10FFFF {
				return false
			}
			i += 4
		default:
			return false
		}
	}
	return true
}

// fileContainsNullBytes prescans a file for embedded NUL bytes before
// line-based reading, since bufio.Scanner does not special-case them the
// way a C getline-based reader would silently truncate on them — but a
// buffer loaded from a file containing one is still never valid UTF-8, so
// this check lets us fail fast with a clearer message.
func fileContainsNullBytes(f *os.File) (bool, error) {
	defer f.Seek(0, 0)
	buf := make([]byte, 8192)
	for {
		n, err := f.Read(buf)
		if n > 0 && bytes.IndexByte(buf[:n], 0) >= 0 {
			return true, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		}
		if n == 0 {
			return false, nil
		}
	}
}

// LoadResult carries the informational summary of a successful Load for
// the status line: line count, widest row and whether the file is new.
// A failure is reported through Load's error return instead.
type LoadResult struct {
	Lines, MaxWidth int
	NewFile         bool

	// LockConflict is set when the file is already locked by another
	// process; the buffer still loads, but read-only, and the caller
	// should surface LockConflict.Message on the status line.
	LockConflict *Error
}

// defaultLocker is the advisory-lock implementation Load uses to guard
// against two processes editing the same file at once.
var defaultLocker fileLocker = newUnixFileLocker()

// Load reads filename into buf. A missing file is not a failure: the
// buffer is left empty with the filename set, matching editorOpen's
// "new file" behavior. Read-only is set when the file's owner-write
// permission bit is clear or the file is already locked by another
// process.
func Load(buf *Buffer, filename string) (LoadResult, error) {
	buf.SetFilename(filename)

	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return LoadResult{NewFile: true}, nil
		}
		buf.filename = ""
		buf.displayName = ""
		return LoadResult{}, wrapError(KindIOFailed, "open "+filename, err)
	}
	defer f.Close()

	var lockConflict *Error
	if held, holderPID, lockErr := defaultLocker.Lock(filename); lockErr == nil && !held {
		buf.SetReadOnly(true)
		buf.lockHolderPID = holderPID
		lockConflict = newError(KindLockConflict, LockStatusMessage(holderPID))
	}

	hasNull, err := fileContainsNullBytes(f)
	if err != nil {
		buf.filename = ""
		return LoadResult{}, wrapError(KindIOFailed, "scan "+filename, err)
	}
	if hasNull {
		buf.filename = ""
		return LoadResult{}, newError(KindUTF8Invalid, "File failed UTF-8 validation (contains null bytes)")
	}

	var rows []*Row
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		rows = append(rows, newRow([]byte(line)))
	}
	if err := sc.Err(); err != nil {
		buf.filename = ""
		return LoadResult{}, wrapError(KindIOFailed, "read "+filename, err)
	}
	if len(rows) == 0 {
		rows = []*Row{newRow(nil)}
	}
	buf.rows = rows

	if !checkUTF8Validity(buf) {
		buf.rows = []*Row{newRow(nil)}
		buf.filename = ""
		buf.displayName = ""
		return LoadResult{}, newError(KindUTF8Invalid, "File failed UTF-8 validation")
	}

	maxWidth := 0
	for _, r := range buf.rows {
		if w := r.DisplayWidth(); w > maxWidth {
			maxWidth = w
		}
	}

	buf.ClearDirty()

	if st, err := os.Stat(filename); err == nil {
		if st.Mode().Perm()&0200 == 0 {
			buf.SetReadOnly(true)
		}
	}

	ext := filepath.Ext(buf.filename)
	if wordWrapExtensions[ext] {
		buf.SetWordWrap(true)
	}

	if st, err := os.Stat(filename); err == nil {
		buf.openModTime = st.ModTime().UnixNano()
	}

	return LoadResult{Lines: len(buf.rows), MaxWidth: maxWidth, LockConflict: lockConflict}, nil
}

// LoadStdin fills buf from piped stdin data, per §6: rejecting null
// bytes as binary input, leaving the buffer without a filename and
// giving it the display name *stdin* (the caller marks it read-only and
// word-wrapped).
func LoadStdin(buf *Buffer, data []byte) error {
	if bytes.IndexByte(data, 0) >= 0 {
		return newError(KindUTF8Invalid, "stdin looks like binary data (contains null bytes)")
	}
	lines := bytes.Split(data, []byte("\n"))
	rows := make([]*Row, 0, len(lines))
	for i, line := range lines {
		if i == len(lines)-1 && len(line) == 0 {
			break // trailing newline doesn't create an extra empty row
		}
		rows = append(rows, newRow(bytes.TrimRight(line, "\r")))
	}
	if len(rows) == 0 {
		rows = []*Row{newRow(nil)}
	}
	buf.rows = rows
	if !checkUTF8Validity(buf) {
		buf.rows = []*Row{newRow(nil)}
		return newError(KindUTF8Invalid, "stdin failed UTF-8 validation")
	}
	buf.SetFilename("")
	buf.displayName = "*stdin*"
	buf.ClearDirty()
	return nil
}

// CheckExternalModification compares the file's current mtime against
// the one recorded at load/save time, firing at most once per drift. It
// is meant to be polled, e.g. once per display refresh.
func (b *Buffer) CheckExternalModification() bool {
	if b.filename == "" || b.openModTime == 0 || b.externalMod {
		return false
	}
	st, err := os.Stat(b.filename)
	if err != nil {
		return false
	}
	if st.ModTime().UnixNano() != b.openModTime {
		b.externalMod = true
		return true
	}
	return false
}

// Save writes buf to its filename using a temp-file-then-rename protocol:
// write to "<filename>.tmpXXXXXX" in the same directory, fsync, then
// rename over the target so a crash mid-write never corrupts the
// original. The temp file is unlinked on any failure along the way.
func Save(buf *Buffer) (int, error) {
	if buf.filename == "" {
		return 0, newError(KindIOFailed, "no filename set")
	}
	data := []byte(buf.RowsToString())

	dir := filepath.Dir(buf.filename)
	tmp, err := os.CreateTemp(dir, filepath.Base(buf.filename)+".tmp")
	if err != nil {
		return 0, wrapError(KindIOFailed, "create temp file", err)
	}
	tmpName := tmp.Name()
	cleanup := func(err error) (int, error) {
		tmp.Close()
		os.Remove(tmpName)
		return 0, err
	}

	if st, statErr := os.Stat(buf.filename); statErr == nil {
		tmp.Chmod(st.Mode().Perm())
	}

	written := 0
	for written < len(data) {
		n, err := tmp.Write(data[written:])
		if err != nil {
			return cleanup(wrapError(KindIOFailed, "write", err))
		}
		if n == 0 {
			return cleanup(newError(KindIOFailed, "wrote 0 bytes unexpectedly"))
		}
		written += n
	}

	if err := tmp.Sync(); err != nil {
		return cleanup(wrapError(KindIOFailed, "fsync", err))
	}
	if err := tmp.Close(); err != nil {
		return cleanup(wrapError(KindIOFailed, "close", err))
	}
	if err := os.Rename(tmpName, buf.filename); err != nil {
		os.Remove(tmpName)
		return 0, wrapError(KindIOFailed, "rename", err)
	}

	buf.ClearDirty()
	buf.externalMod = false
	if st, err := os.Stat(buf.filename); err == nil {
		buf.openModTime = st.ModTime().UnixNano()
	}
	return len(data), nil
}

// LockStatusMessage formats the status line text for a lock conflict,
// matching the source editor's "%d" PID-in-message convention. pid of 0
// means the holder's PID could not be determined.
func LockStatusMessage(pid int) string {
	if pid == 0 {
		return "File is locked by another process"
	}
	return fmt.Sprintf("File is locked by another process (pid %d)", pid)
}

// fileLocker is the external-collaborator interface for advisory file
// locking, matching spec §6: the implementation needs only to call
// through it, not implement fcntl locking itself.
type fileLocker interface {
	Lock(path string) (held bool, holderPID int, err error)
	Unlock(path string)
}
