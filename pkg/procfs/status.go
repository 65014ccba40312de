package procfs

import (
	"math"

	promfs "github.com/prometheus/procfs"

	"github.com/voluzi/process-watcher/pkg/schema"
)

// Metrics converts the memory fields of a status file to history values in kB,
// in schema order.
func Metrics(s promfs.ProcStatus) schema.Values {
	return schema.Values{
		kilobytes(s.VmPeak),
		kilobytes(s.VmSize),
		kilobytes(s.VmLck),
		kilobytes(s.VmPin),
		kilobytes(s.VmHWM),
		kilobytes(s.VmRSS),
		kilobytes(s.RssAnon),
		kilobytes(s.RssFile),
		kilobytes(s.RssShmem),
		kilobytes(s.VmData),
		kilobytes(s.VmStk),
		kilobytes(s.VmExe),
		kilobytes(s.VmLib),
		kilobytes(s.VmPTE),
		kilobytes(s.VmSwap),
	}
}

// kilobytes saturates at math.MaxInt32 kB (2 TiB). Sanitizer builds reserve
// tens of TiB of address space.
func kilobytes(bytes uint64) int32 {
	kb := bytes / 1024
	if kb > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(kb)
}
