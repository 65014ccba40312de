package snapshot

import (
	"encoding/binary"

	"emperror.dev/errors"

	"github.com/voluzi/process-watcher/pkg/schema"
)

/*
History file layout, host byte order:

	header      "# process-watcher file format\n\n\n"
	repeated:
	  int64     timestamp (Unix seconds)
	  int32     process count
	  count x   { int32 pid, int32 ppid, schema.Count x int32 metric }

There is no trailer: the end of readable data is the end of the file.
*/

const (
	// Header starts every history file. Its length is a multiple of 4 so records stay aligned.
	Header = "# process-watcher file format\n\n\n"

	HeaderSize    = len(Header)
	TimestampSize = 8
	CountSize     = 4
	RecordSize    = (2 + schema.Count) * 4
)

var byteOrder = binary.NativeEndian

var (
	ErrShortHeader = errors.NewPlain("file too short to contain the header")
	ErrBadHeader   = errors.NewPlain("bad header")
	ErrTruncated   = errors.NewPlain("truncated snapshot")
	ErrCorrupt     = errors.NewPlain("corrupt snapshot")
	ErrUnsorted    = errors.NewPlain("records are not sorted by ascending pid")
)

// CheckHeader validates the magic bytes at the start of data.
func CheckHeader(data []byte) error {
	if len(data) < HeaderSize {
		return errors.WithDetails(ErrShortHeader, "size", len(data))
	}
	if string(data[:HeaderSize]) != Header {
		return errors.WithDetails(ErrBadHeader, "expected", Header)
	}
	return nil
}
