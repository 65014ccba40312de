package schema

// Names lists the /proc/PID/status fields tracked for every process, in record order.
// Writer and reader must agree on this list: it defines the on-disk record layout.
var Names = [...]string{
	"VmPeak",
	"VmSize",
	"VmLck",
	"VmPin",
	"VmHWM",
	"VmRSS",
	"RssAnon",
	"RssFile",
	"RssShmem",
	"VmData",
	"VmStk",
	"VmExe",
	"VmLib",
	"VmPTE",
	"VmSwap",
}

// Count is the number of tracked metrics.
const Count = len(Names)

// Values holds one value per tracked metric, in kB, as stored on disk.
type Values [Count]int32

// Totals holds per-metric aggregates that may not fit in a single record value.
type Totals [Count]int64

// Index returns the position of the metric with the given name.
func Index(name string) (int, bool) {
	for i, n := range Names {
		if n == name {
			return i, true
		}
	}
	return -1, false
}

// Add accumulates v into t.
func (t *Totals) Add(v *Values) {
	for i := range v {
		t[i] += int64(v[i])
	}
}
