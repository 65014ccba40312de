package procfs

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	promfs "github.com/prometheus/procfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/voluzi/process-watcher/pkg/schema"
	"github.com/voluzi/process-watcher/pkg/snapshot"
)

// statLine mimics /proc/PID/stat for a sleeping bash.
func statLine(pid, ppid int) string {
	return fmt.Sprintf("%d (bash) S %d %d %d 0 -1 4194304 80 0 0 0 0 0 0 0 20 0 1 0 87236 2703360 272 "+
		"18446744073709551615 94212839747584 94212839767465 140727774132768 0 0 0 0 0 0 0 0 0 17 0 0 0 0 0 0 "+
		"94212839783472 94212839785088 94213071425536 140727774139715 140727774139735 140727774139735 140727774142443 0\n",
		pid, ppid, pid, pid)
}

func writeProcess(t *testing.T, root string, pid, ppid int, status string) {
	t.Helper()
	dir := filepath.Join(root, fmt.Sprint(pid))
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stat"), []byte(statLine(pid, ppid)), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "status"), []byte(status), 0644))
}

func newHost(t *testing.T, root string) *Host {
	t.Helper()
	host, err := NewHost(root)
	require.NoError(t, err)
	return host
}

func TestHost_Read(t *testing.T) {
	root := t.TempDir()
	writeProcess(t, root, 16, 1, sampleStatus)

	record, err := newHost(t, root).Read(16)
	require.NoError(t, err)

	assert.Equal(t, int32(16), record.Pid)
	assert.Equal(t, int32(1), record.PPid)

	expected := map[string]int32{
		"VmPeak":   1083532,
		"VmSize":   1066808,
		"VmLck":    0,
		"VmPin":    0,
		"VmHWM":    201484,
		"VmRSS":    154232,
		"RssAnon":  96492,
		"RssFile":  49804,
		"RssShmem": 7936,
		"VmData":   195368,
		"VmStk":    132,
		"VmExe":    2848,
		"VmLib":    75476,
		"VmPTE":    652,
		"VmSwap":   14336,
	}
	require.Len(t, expected, schema.Count)
	for name, value := range expected {
		assert.Equal(t, value, metric(t, record.Metrics, name), name)
	}
}

func TestHost_ReadHugeAddressSpace(t *testing.T) {
	root := t.TempDir()
	writeProcess(t, root, 17, 16, sanitizerStatus)

	record, err := newHost(t, root).Read(17)
	require.NoError(t, err)

	assert.Equal(t, int32(16), record.PPid)
	assert.Equal(t, int32(math.MaxInt32), metric(t, record.Metrics, "VmPeak"))
	assert.Equal(t, int32(math.MaxInt32), metric(t, record.Metrics, "VmSize"))
	assert.Equal(t, int32(42000), metric(t, record.Metrics, "VmRSS"))
}

func TestHost_ReadVanishedProcess(t *testing.T) {
	record, err := newHost(t, t.TempDir()).Read(4242)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Record{Pid: 4242}, record)
}

func TestHost_ReadMissingStatusFile(t *testing.T) {
	root := t.TempDir()
	writeProcess(t, root, 31, 1, sampleStatus)
	require.NoError(t, os.Remove(filepath.Join(root, "31", "status")))

	record, err := newHost(t, root).Read(31)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Record{Pid: 31}, record)
}

type exitingProcess struct {
	statErr   error
	statusErr error
}

func (p exitingProcess) Stat() (promfs.ProcStat, error) {
	return promfs.ProcStat{PPID: 1}, p.statErr
}

func (p exitingProcess) NewStatus() (promfs.ProcStatus, error) {
	return promfs.ProcStatus{VmRSS: 4096}, p.statusErr
}

func TestHost_ReadProcessExitingMidRead(t *testing.T) {
	esrch := &os.PathError{Op: "read", Path: "/proc/9/status", Err: unix.ESRCH}
	tests := []struct {
		name string
		proc exitingProcess
	}{
		{name: "stat", proc: exitingProcess{statErr: esrch}},
		{name: "status", proc: exitingProcess{statusErr: esrch}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			host := &Host{root: "/proc", open: func(int) (process, error) { return test.proc, nil }}
			record, err := host.Read(9)
			require.NoError(t, err)
			assert.Equal(t, snapshot.Record{Pid: 9}, record)
		})
	}
}

func TestHost_ReadErrors(t *testing.T) {
	root := t.TempDir()
	writeProcess(t, root, 7, 1, sampleStatus)
	require.NoError(t, os.WriteFile(filepath.Join(root, "7", "stat"), []byte("7 no comm\n"), 0644))

	_, err := newHost(t, root).Read(7)
	assert.Error(t, err)

	host := &Host{root: "/proc", open: func(int) (process, error) {
		return exitingProcess{statusErr: unix.EACCES}, nil
	}}
	_, err = host.Read(8)
	assert.ErrorIs(t, err, unix.EACCES)
}

func TestNewHost(t *testing.T) {
	_, err := NewHost(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	if _, err := os.Stat(DefaultRoot); err == nil {
		assert.Equal(t, DefaultRoot, newHost(t, "").root)
	}
}

func TestHost_PidsSortedAndIncludesSelf(t *testing.T) {
	if _, err := os.Stat("/proc/self/status"); err != nil {
		t.Skip("procfs not available")
	}

	host := newHost(t, "")
	pids, err := host.Pids(context.Background())
	require.NoError(t, err)

	assert.True(t, slices.IsSorted(pids))
	assert.Contains(t, pids, int32(os.Getpid()))

	record, err := host.Read(int32(os.Getpid()))
	require.NoError(t, err)
	assert.Equal(t, int32(os.Getppid()), record.PPid)
	assert.Positive(t, metric(t, record.Metrics, "VmRSS"))
}
