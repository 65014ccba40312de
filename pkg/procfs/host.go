package procfs

import (
	"context"
	"os"
	"slices"

	"emperror.dev/errors"
	promfs "github.com/prometheus/procfs"
	gopsprocess "github.com/shirou/gopsutil/process"
	"golang.org/x/sys/unix"

	"github.com/voluzi/process-watcher/pkg/snapshot"
)

const DefaultRoot = "/proc"

// process is the part of a procfs process entry a Host reads.
type process interface {
	Stat() (promfs.ProcStat, error)
	NewStatus() (promfs.ProcStatus, error)
}

// Host reads process information from a procfs mount.
type Host struct {
	root string
	open func(pid int) (process, error)
}

// NewHost returns a Host reading from root. An empty root means DefaultRoot.
// Enumeration goes through gopsutil, which honours HOST_PROC; pass the same
// directory here so both agree.
func NewHost(root string) (*Host, error) {
	if root == "" {
		root = DefaultRoot
	}
	fs, err := promfs.NewFS(root)
	if err != nil {
		return nil, errors.Wrapf(err, "could not use %s as procfs", root)
	}
	return &Host{
		root: root,
		open: func(pid int) (process, error) {
			return fs.Proc(pid)
		},
	}, nil
}

// Pids lists the running processes in ascending order.
func (h *Host) Pids(ctx context.Context) ([]int32, error) {
	pids, err := gopsprocess.PidsWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not list processes")
	}
	slices.Sort(pids)
	return slices.Compact(pids), nil
}

// Read returns the parent and memory usage of pid. A process that no longer
// exists, including one exiting between two reads, is reported with a zero
// parent and zero metrics.
func (h *Host) Read(pid int32) (snapshot.Record, error) {
	record, err := h.read(pid)
	if vanished(err) {
		return snapshot.Record{Pid: pid}, nil
	}
	if err != nil {
		return snapshot.Record{}, errors.WithDetails(err, "pid", pid, "root", h.root)
	}
	return record, nil
}

func (h *Host) read(pid int32) (snapshot.Record, error) {
	p, err := h.open(int(pid))
	if err != nil {
		return snapshot.Record{}, errors.Wrap(err, "could not open process")
	}
	stat, err := p.Stat()
	if err != nil {
		return snapshot.Record{}, errors.Wrap(err, "could not read stat file")
	}
	status, err := p.NewStatus()
	if err != nil {
		return snapshot.Record{}, errors.Wrap(err, "could not read status file")
	}
	// Pid always comes from enumeration so record order matches the pid list.
	return snapshot.Record{Pid: pid, PPid: int32(stat.PPID), Metrics: Metrics(status)}, nil
}

func vanished(err error) bool {
	return errors.Is(err, os.ErrNotExist) || errors.Is(err, unix.ESRCH)
}
