package emil

import (
	"os"

	"golang.org/x/sys/unix"
)

// unixFileLocker implements fileLocker with POSIX fcntl advisory locks,
// mirroring editorLockFile: try O_RDWR+F_WRLCK first, fall back to
// O_RDONLY+F_RDLCK for files we can't write, and report the blocking
// PID via F_GETLK when the lock is already held.
type unixFileLocker struct {
	fds map[string]*os.File
}

func newUnixFileLocker() *unixFileLocker {
	return &unixFileLocker{fds: make(map[string]*os.File)}
}

func (l *unixFileLocker) Lock(path string) (held bool, holderPID int, err error) {
	f, openErr := os.OpenFile(path, os.O_RDWR, 0)
	lockType := int16(unix.F_WRLCK)
	if openErr != nil {
		if os.IsNotExist(openErr) {
			return false, 0, nil
		}
		f, openErr = os.OpenFile(path, os.O_RDONLY, 0)
		if openErr != nil {
			return false, 0, openErr
		}
		lockType = unix.F_RDLCK
	}

	fl := unix.Flock_t{
		Type:   lockType,
		Whence: int16(os.SEEK_SET),
		Start:  0,
		Len:    0,
	}
	if err := unix.FcntlFlock(f.Fd(), unix.F_SETLK, &fl); err == nil {
		l.fds[path] = f
		return true, 0, nil
	}

	query := unix.Flock_t{Type: unix.F_WRLCK, Whence: int16(os.SEEK_SET)}
	pid := 0
	if err := unix.FcntlFlock(f.Fd(), unix.F_GETLK, &query); err == nil && query.Type != unix.F_UNLCK {
		pid = int(query.Pid)
	}
	f.Close()
	return false, pid, nil
}

func (l *unixFileLocker) Unlock(path string) {
	if f, ok := l.fds[path]; ok {
		f.Close()
		delete(l.fds, path)
	}
}
