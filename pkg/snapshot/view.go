package snapshot

import (
	"sort"

	"github.com/voluzi/process-watcher/pkg/schema"
)

// View gives access to the records of a decoded snapshot without copying them.
type View struct {
	Timestamp int64
	records   []byte
	n         int
}

// Len returns the number of process records.
func (v *View) Len() int {
	return v.n
}

func (v *View) field(i, f int) int32 {
	return int32(byteOrder.Uint32(v.records[i*RecordSize+f*4:]))
}

// Pid returns the pid of record i.
func (v *View) Pid(i int) int32 {
	return v.field(i, 0)
}

// PPid returns the parent pid of record i.
func (v *View) PPid(i int) int32 {
	return v.field(i, 1)
}

// Metric returns metric m of record i.
func (v *View) Metric(i, m int) int32 {
	return v.field(i, 2+m)
}

// Metrics returns every metric of record i.
func (v *View) Metrics(i int) schema.Values {
	var values schema.Values
	for m := range values {
		values[m] = v.Metric(i, m)
	}
	return values
}

// Record returns a copy of record i.
func (v *View) Record(i int) Record {
	return Record{Pid: v.Pid(i), PPid: v.PPid(i), Metrics: v.Metrics(i)}
}

// Find binary-searches the records for pid. Records must be sorted by pid.
func (v *View) Find(pid int32) (int, bool) {
	i := sort.Search(v.n, func(i int) bool { return v.Pid(i) >= pid })
	if i < v.n && v.Pid(i) == pid {
		return i, true
	}
	return -1, false
}

// Snapshot copies the view into a Snapshot.
func (v *View) Snapshot() Snapshot {
	s := Snapshot{Timestamp: v.Timestamp, Records: make([]Record, v.n)}
	for i := range s.Records {
		s.Records[i] = v.Record(i)
	}
	return s
}
