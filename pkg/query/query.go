package query

import (
	"emperror.dev/errors"

	"github.com/voluzi/process-watcher/pkg/schema"
)

var (
	ErrBadPid   = errors.NewPlain("pid must be a positive integer")
	ErrBadRange = errors.NewPlain("bad time range: the beginning is after the end")
)

// Query selects the process subtree rooted at TopPid over the inclusive window [Begin, End].
type Query struct {
	TopPid int32
	Begin  int64
	End    int64
}

// Validate reports usage errors in q.
func (q Query) Validate() error {
	if q.TopPid < 1 {
		return errors.WithDetails(ErrBadPid, "pid", q.TopPid)
	}
	if q.Begin > q.End {
		return errors.WithDetails(ErrBadRange, "begin", q.Begin, "end", q.End)
	}
	return nil
}

// Result is the outcome of a query.
type Result struct {
	Query Query

	// Max holds, per metric, the largest subtree sum among in-window snapshots.
	Max schema.Totals

	// InWindow counts snapshots whose timestamp fell in the window.
	InWindow int

	// Matched counts in-window snapshots that contained TopPid.
	Matched int

	// First and Last are the timestamps of the first and last matched snapshots.
	First int64
	Last  int64
}
