package snapshot

import (
	"emperror.dev/errors"

	"github.com/voluzi/process-watcher/pkg/schema"
)

// Record holds the parent and memory usage of one process at one instant.
type Record struct {
	Pid     int32
	PPid    int32
	Metrics schema.Values
}

// Snapshot is one timestamped sample of every process on the host.
type Snapshot struct {
	Timestamp int64
	Records   []Record
}

// Size returns the encoded size of s in bytes.
func (s *Snapshot) Size() int {
	return TimestampSize + CountSize + len(s.Records)*RecordSize
}

// Encode returns the binary form of s.
func Encode(s Snapshot) ([]byte, error) {
	return AppendEncoded(make([]byte, 0, s.Size()), s)
}

// AppendEncoded appends the binary form of s to dst.
// Records must be strictly ascending by pid.
func AppendEncoded(dst []byte, s Snapshot) ([]byte, error) {
	for i := 1; i < len(s.Records); i++ {
		if s.Records[i-1].Pid >= s.Records[i].Pid {
			return dst, errors.WithDetails(ErrUnsorted,
				"index", i,
				"previous", s.Records[i-1].Pid,
				"pid", s.Records[i].Pid,
			)
		}
	}

	dst = byteOrder.AppendUint64(dst, uint64(s.Timestamp))
	dst = byteOrder.AppendUint32(dst, uint32(int32(len(s.Records))))
	for i := range s.Records {
		r := &s.Records[i]
		dst = byteOrder.AppendUint32(dst, uint32(r.Pid))
		dst = byteOrder.AppendUint32(dst, uint32(r.PPid))
		for _, v := range r.Metrics {
			dst = byteOrder.AppendUint32(dst, uint32(v))
		}
	}
	return dst, nil
}
