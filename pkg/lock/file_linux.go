package lock

import (
	"io"
	"os"

	"emperror.dev/errors"
	"golang.org/x/sys/unix"
)

// FileLock is an advisory lock on the first byte of a file. The byte content is irrelevant.
//
// It uses open file description locks, so two descriptors opened by the same
// process contend with each other exactly like two processes do. These locks
// also conflict with classic POSIX record locks taken on the same range.
type FileLock struct {
	f *os.File
}

var _ Locker = &FileLock{}

// NewFileLock returns a lock bound to f. Shared locks need f open for reading,
// exclusive locks need it open for writing.
func NewFileLock(f *os.File) *FileLock {
	return &FileLock{f: f}
}

func (l *FileLock) AcquireExclusive() error {
	return errors.Wrap(l.set(unix.F_WRLCK), "could not take exclusive lock")
}

func (l *FileLock) AcquireShared() error {
	return errors.Wrap(l.set(unix.F_RDLCK), "could not take shared lock")
}

func (l *FileLock) Release() error {
	return errors.Wrap(l.set(unix.F_UNLCK), "could not release lock")
}

func (l *FileLock) set(typ int16) error {
	flock := unix.Flock_t{
		Type:   typ,
		Whence: io.SeekStart,
		Start:  0,
		Len:    1,
	}
	for {
		err := unix.FcntlFlock(l.f.Fd(), unix.F_OFD_SETLKW, &flock)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return errors.WithDetails(err, "file", l.f.Name())
		}
		return nil
	}
}
