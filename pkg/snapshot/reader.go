package snapshot

import (
	"io"

	"emperror.dev/errors"
)

// Reader walks the snapshots of a history file held in memory.
// Every read checks the remaining length first, so a partially written
// snapshot is reported instead of decoded.
type Reader struct {
	data []byte
	pos  int
}

// NewReader validates the header of data and positions the reader on the first snapshot.
func NewReader(data []byte) (*Reader, error) {
	if err := CheckHeader(data); err != nil {
		return nil, err
	}
	return &Reader{data: data, pos: HeaderSize}, nil
}

// Offset returns the position of the next snapshot.
func (r *Reader) Offset() int {
	return r.pos
}

func (r *Reader) remaining() int {
	return len(r.data) - r.pos
}

// Next decodes the snapshot at the current position.
// It returns io.EOF only when the reader sits exactly at the end of the data.
func (r *Reader) Next() (View, error) {
	if r.remaining() == 0 {
		return View{}, io.EOF
	}

	start := r.pos
	if r.remaining() < TimestampSize {
		return View{}, errors.WithDetails(ErrTruncated, "offset", start, "missing", "timestamp")
	}
	timestamp := int64(byteOrder.Uint64(r.data[r.pos:]))
	r.pos += TimestampSize

	if r.remaining() < CountSize {
		return View{}, errors.WithDetails(ErrTruncated, "offset", start, "missing", "process count")
	}
	count := int32(byteOrder.Uint32(r.data[r.pos:]))
	r.pos += CountSize
	if count < 0 {
		return View{}, errors.WithDetails(ErrCorrupt, "offset", start, "count", count)
	}

	size := int(count) * RecordSize
	if r.remaining() < size {
		return View{}, errors.WithDetails(ErrTruncated,
			"offset", start,
			"count", count,
			"need", size,
			"have", r.remaining(),
		)
	}
	records := r.data[r.pos : r.pos+size]
	r.pos += size

	return View{Timestamp: timestamp, records: records, n: int(count)}, nil
}

// ReadAll decodes every snapshot in data.
func ReadAll(data []byte) ([]Snapshot, error) {
	r, err := NewReader(data)
	if err != nil {
		return nil, err
	}
	var snapshots []Snapshot
	for {
		v, err := r.Next()
		if errors.Is(err, io.EOF) {
			return snapshots, nil
		}
		if err != nil {
			return snapshots, err
		}
		snapshots = append(snapshots, v.Snapshot())
	}
}

// Validate checks that data is a well-formed history and returns how many snapshots it holds.
func Validate(data []byte) (int, error) {
	r, err := NewReader(data)
	if err != nil {
		return 0, err
	}
	count := 0
	for {
		_, err := r.Next()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, err
		}
		count++
	}
}
