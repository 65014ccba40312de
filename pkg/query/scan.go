package query

import (
	"io"

	"emperror.dev/errors"
	log "github.com/sirupsen/logrus"

	"github.com/voluzi/process-watcher/pkg/snapshot"
	"github.com/voluzi/process-watcher/pkg/stats"
)

// Scan runs q over an in-memory history file.
// Snapshots are assumed to be in non-decreasing timestamp order, so the scan
// stops at the first snapshot past the end of the window.
func Scan(data []byte, q Query) (*Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	r, err := snapshot.NewReader(data)
	if err != nil {
		return nil, err
	}

	result := &Result{Query: q}
	var acc stats.Accumulator

	for {
		offset := r.Offset()
		v, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if v.Timestamp < q.Begin {
			continue
		}
		if v.Timestamp > q.End {
			break
		}
		result.InWindow++

		top, ok := v.Find(q.TopPid)
		if !ok {
			log.WithFields(map[string]interface{}{
				"timestamp": v.Timestamp,
				"offset":    offset,
				"pid":       q.TopPid,
			}).Trace("process not present in snapshot")
			continue
		}

		sample := stats.Sample{Timestamp: v.Timestamp}
		subtreeTotals(&v, top, sample.Totals[:])
		acc.AddSample(sample)
	}

	result.Max = acc.Max()
	result.Matched = acc.Samples()
	result.First, result.Last = acc.Span()
	return result, nil
}
