package csvtidy

import (
	"errors"
	"io/fs"
)

// ErrEmptyDocument is returned when a file holds no records, not even a header.
var ErrEmptyDocument = errors.New("csvtidy: document has no header record")

// ErrorKind classifies a per-file failure.
type ErrorKind int

const (
	// KindNone means the operation succeeded.
	KindNone ErrorKind = iota
	// KindNotFound means the path does not exist.
	KindNotFound
	// KindIO covers open, read and write failures other than a missing file.
	KindIO
	// KindParse means the content could not be decoded or parsed as CSV.
	KindParse
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindNotFound:
		return "file not found"
	case KindIO:
		return "io error"
	case KindParse:
		return "parse error"
	default:
		return "unknown"
	}
}

// Classify maps err onto an ErrorKind by inspecting its chain.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var perr *ParseError
	switch {
	case errors.As(err, &perr), errors.Is(err, ErrEmptyDocument):
		return KindParse
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	default:
		return KindIO
	}
}
