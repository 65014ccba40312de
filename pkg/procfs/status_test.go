package procfs

import (
	"math"
	"testing"

	promfs "github.com/prometheus/procfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voluzi/process-watcher/pkg/schema"
)

const sampleStatus = `Name:	bash
Umask:	0022
State:	S (sleeping)
Tgid:	16
Ngid:	0
Pid:	16
PPid:	1
TracerPid:	0
FDSize:	256
VmPeak:	 1083532 kB
VmSize:	 1066808 kB
VmLck:	       0 kB
VmPin:	       0 kB
VmHWM:	  201484 kB
VmRSS:	  154232 kB
RssAnon:	   96492 kB
RssFile:	   49804 kB
RssShmem:	    7936 kB
VmData:	  195368 kB
VmStk:	     132 kB
VmExe:	    2848 kB
VmLib:	   75476 kB
VmPTE:	     652 kB
VmSwap:	   14336 kB
Threads:	1
nonvoluntary_ctxt_switches:	12
`

// Address space of a sanitizer build, above what a kB field holds.
const sanitizerStatus = `Name:	asan-test
Pid:	17
PPid:	16
VmPeak:	21474871660 kB
VmSize:	21474871660 kB
VmRSS:	   42000 kB
`

func metric(t *testing.T, values schema.Values, name string) int32 {
	t.Helper()
	idx, ok := schema.Index(name)
	require.True(t, ok, name)
	return values[idx]
}

func TestMetrics_SchemaOrder(t *testing.T) {
	const kB = 1024
	values := Metrics(promfs.ProcStatus{
		VmPeak:   1 * kB,
		VmSize:   2 * kB,
		VmLck:    3 * kB,
		VmPin:    4 * kB,
		VmHWM:    5 * kB,
		VmRSS:    6 * kB,
		RssAnon:  7 * kB,
		RssFile:  8 * kB,
		RssShmem: 9 * kB,
		VmData:   10 * kB,
		VmStk:    11 * kB,
		VmExe:    12 * kB,
		VmLib:    13 * kB,
		VmPTE:    14 * kB,
		VmSwap:   15 * kB,
	})

	for i, name := range schema.Names {
		assert.Equal(t, int32(i+1), values[i], name)
	}
}

func TestKilobytes(t *testing.T) {
	tests := []struct {
		bytes    uint64
		expected int32
	}{
		{bytes: 0, expected: 0},
		{bytes: 1023, expected: 0},
		{bytes: 154232 * 1024, expected: 154232},
		{bytes: math.MaxInt32 * 1024, expected: math.MaxInt32},
		{bytes: (math.MaxInt32 + 1) * 1024, expected: math.MaxInt32},
		{bytes: 21474871660 * 1024, expected: math.MaxInt32},
		{bytes: math.MaxUint64, expected: math.MaxInt32},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, kilobytes(test.bytes), "%d bytes", test.bytes)
	}
}
