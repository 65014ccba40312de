//go:build linux

package capture

import (
	"context"
	"io"
	"os"
	"time"

	"emperror.dev/errors"
	"github.com/c2h5oh/datasize"
	log "github.com/sirupsen/logrus"

	"github.com/voluzi/process-watcher/pkg/lock"
	"github.com/voluzi/process-watcher/pkg/snapshot"
)

// Enumerator lists running processes in ascending pid order.
type Enumerator interface {
	Pids(ctx context.Context) ([]int32, error)
}

// MetricReader reads the parent and memory usage of a process.
// A process that vanished must be reported as a zero record, not an error.
type MetricReader interface {
	Read(pid int32) (snapshot.Record, error)
}

// Capturer samples the process table at a fixed delay and appends every
// sample to the history file.
type Capturer struct {
	cfg    *Options
	pids   Enumerator
	reader MetricReader
	now    func() time.Time

	file *os.File
	lock lock.Locker
	buf  []byte
}

func New(pids Enumerator, reader MetricReader, opts ...Option) *Capturer {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return &Capturer{
		cfg:    options,
		pids:   pids,
		reader: reader,
		now:    time.Now,
	}
}

// Open creates or truncates the history file and writes its header.
// In append mode a non-empty file is kept if it holds only complete snapshots.
func (c *Capturer) Open() error {
	f, err := os.OpenFile(c.cfg.Path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return errors.Wrapf(err, "could not open %s for writing", c.cfg.Path)
	}
	c.file = f
	c.lock = lock.NewFileLock(f)

	if err := c.lock.AcquireExclusive(); err != nil {
		return errors.Combine(err, c.Close())
	}
	initErr := c.initFile()
	if err := c.lock.Release(); err != nil {
		initErr = errors.Combine(initErr, err)
	}
	if initErr != nil {
		return errors.Combine(initErr, c.Close())
	}
	return nil
}

func (c *Capturer) initFile() error {
	fi, err := c.file.Stat()
	if err != nil {
		return errors.Wrapf(err, "could not stat %s", c.cfg.Path)
	}

	if c.cfg.Append && fi.Size() > 0 {
		data, err := io.ReadAll(c.file)
		if err != nil {
			return errors.Wrapf(err, "could not read %s", c.cfg.Path)
		}
		count, err := snapshot.Validate(data)
		if err != nil {
			return errors.WithDetails(errors.Wrap(err, "refusing to append"), "file", c.cfg.Path)
		}
		// Reading left the offset at the end of the file.
		log.WithFields(map[string]interface{}{
			"file":      c.cfg.Path,
			"size":      datasize.ByteSize(fi.Size()).HumanReadable(),
			"snapshots": count,
		}).Info("appending to existing history")
		return nil
	}

	if err := c.file.Truncate(0); err != nil {
		return errors.Wrapf(err, "could not truncate %s", c.cfg.Path)
	}
	if _, err := c.file.WriteAt([]byte(snapshot.Header), 0); err != nil {
		return errors.Wrap(err, "write error while writing the header")
	}
	if _, err := c.file.Seek(int64(snapshot.HeaderSize), io.SeekStart); err != nil {
		return errors.Wrap(err, "could not seek past the header")
	}
	return c.flush()
}

// Close releases the history file.
func (c *Capturer) Close() error {
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}

// Sample takes one snapshot of the process table.
func (c *Capturer) Sample(ctx context.Context) (snapshot.Snapshot, error) {
	s := snapshot.Snapshot{Timestamp: c.now().Unix()}

	pids, err := c.pids.Pids(ctx)
	if err != nil {
		return s, err
	}

	s.Records = make([]snapshot.Record, 0, len(pids))
	for _, pid := range pids {
		r, err := c.reader.Read(pid)
		if err != nil {
			return s, errors.WrapIfWithDetails(err, "could not read process status", "pid", pid)
		}
		s.Records = append(s.Records, r)
	}
	return s, nil
}

// Write appends s to the history file under the exclusive lock.
func (c *Capturer) Write(s snapshot.Snapshot) error {
	if c.file == nil {
		return errors.New("history file is not open")
	}

	var err error
	c.buf, err = snapshot.AppendEncoded(c.buf[:0], s)
	if err != nil {
		return err
	}

	if err := c.lock.AcquireExclusive(); err != nil {
		return err
	}
	writeErr := c.append(c.buf)
	if err := c.lock.Release(); err != nil {
		return errors.Combine(writeErr, err)
	}
	return writeErr
}

func (c *Capturer) append(b []byte) error {
	if _, err := c.file.Write(b); err != nil {
		return errors.Wrap(err, "could not write snapshot")
	}
	return c.flush()
}

func (c *Capturer) flush() error {
	if !c.cfg.Fsync {
		return nil
	}
	return errors.Wrap(c.file.Sync(), "could not sync history")
}

// Run opens the history file and samples until ctx is cancelled.
// Any error ends the loop; there is no retry.
func (c *Capturer) Run(ctx context.Context) error {
	if err := c.Open(); err != nil {
		return err
	}
	defer c.Close()

	log.WithFields(map[string]interface{}{
		"file":     c.cfg.Path,
		"interval": c.cfg.Interval,
		"append":   c.cfg.Append,
	}).Info("capture started")

	for {
		s, err := c.Sample(ctx)
		if err != nil {
			return err
		}
		if err := c.Write(s); err != nil {
			return err
		}
		c.logSample(s)

		select {
		case <-ctx.Done():
			log.Info("capture stopped")
			return nil
		case <-time.After(c.cfg.Interval):
		}
	}
}

func (c *Capturer) logSample(s snapshot.Snapshot) {
	if !log.IsLevelEnabled(log.DebugLevel) {
		return
	}
	fields := map[string]interface{}{
		"timestamp": s.Timestamp,
		"processes": len(s.Records),
		"written":   datasize.ByteSize(len(c.buf)).HumanReadable(),
	}
	if fi, err := c.file.Stat(); err == nil {
		fields["file-size"] = datasize.ByteSize(fi.Size()).HumanReadable()
	}
	log.WithFields(fields).Debug("snapshot written")
}
