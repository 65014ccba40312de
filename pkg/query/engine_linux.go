package query

import (
	"os"

	"emperror.dev/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/voluzi/process-watcher/pkg/lock"
)

// Engine answers queries against a history file on disk.
type Engine struct {
	path string
}

func NewEngine(path string) *Engine {
	return &Engine{path: path}
}

// Run maps the history file under a shared lock and scans it.
// The lock is held until the whole scan is done, so a long query delays the
// capturer's next sample.
func (e *Engine) Run(q Query) (*Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	f, err := os.Open(e.path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %s for reading", e.path)
	}
	defer f.Close()

	l := lock.NewFileLock(f)
	if err := l.AcquireShared(); err != nil {
		return nil, err
	}

	result, scanErr := e.scanLocked(f, q)
	if err := l.Release(); err != nil {
		return nil, errors.Combine(scanErr, err)
	}
	return result, scanErr
}

func (e *Engine) scanLocked(f *os.File, q Query) (*Result, error) {
	// Size is taken under the lock: every byte up to it belongs to a complete snapshot.
	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "could not stat %s", e.path)
	}
	size := fi.Size()
	if size == 0 {
		return Scan(nil, q)
	}
	if int64(int(size)) != size {
		return nil, errors.WithDetails(errors.New("history file too large to map"), "size", size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrapf(err, "could not mmap %s", e.path)
	}

	log.WithFields(map[string]interface{}{
		"file":  e.path,
		"bytes": size,
	}).Debug("scanning history")

	result, scanErr := Scan(data, q)
	if err := unix.Munmap(data); err != nil {
		return nil, errors.Combine(scanErr, errors.Wrap(err, "could not munmap history"))
	}
	return result, scanErr
}
