package csvtidy

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unsafe"
)

const defaultBufferSize = 1 << 12 // 4096 bytes

var (
	// ErrBareQuote is returned when an unexpected quote is found in an unquoted field.
	ErrBareQuote = errors.New("csvtidy: bare quote in non-quoted field")
	// ErrUnterminatedQuote is returned when a quoted field is not closed before EOF.
	ErrUnterminatedQuote = errors.New("csvtidy: unterminated quoted field")
	// ErrInvalidUTF8 is returned when the input is not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("csvtidy: invalid UTF-8 byte sequence")
	// ErrFieldCount is returned when a record contains an unexpected number of fields.
	ErrFieldCount = errors.New("csvtidy: wrong number of fields")
)

// ParseError contains location information for CSV parsing errors.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

// Error formats the parse error message with the stored line, column, and Err values.
func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("csvtidy: parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
}

// Unwrap returns the underlying Err so ParseError participates in errors.Unwrap.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Reader parses CSV records from a byte stream.
type Reader struct {
	src *bufio.Reader

	// Comma is the field delimiter. Default is ','.
	Comma byte
	// Quote is the quote character. Default is '"'.
	Quote byte
	// ReuseRecord indicates whether Read should reuse the backing array of the returned slice.
	ReuseRecord bool
	// FieldsPerRecord expects each record to contain this many fields. Zero captures the
	// width of the first record; a negative value disables the check.
	FieldsPerRecord int
	// LazyQuotes keeps a quote that appears inside an unquoted field as a literal byte
	// instead of failing with ErrBareQuote.
	LazyQuotes bool

	record      []string
	dataBuf     []byte
	fieldBounds []int
	finished    bool
	line        int
	recordLine  int
}

// NewReader creates a Reader that consumes CSV data from r. It panics if r is nil.
func NewReader(r io.Reader) *Reader {
	if r == nil {
		panic("csvtidy: reader source cannot be nil")
	}

	return &Reader{
		src:         bufio.NewReaderSize(r, defaultBufferSize),
		Comma:       ',',
		Quote:       '"',
		record:      make([]string, 0, 16),
		dataBuf:     make([]byte, 0, 512),
		fieldBounds: make([]int, 0, 32),
		line:        1,
	}
}

// RecordLine reports the source line on which the most recently returned record started.
func (r *Reader) RecordLine() int {
	if r == nil {
		return 0
	}
	return r.recordLine
}

// Read parses the next CSV record. It returns io.EOF once no more records remain.
// A blank line yields a record with no fields, which is exempt from FieldsPerRecord.
// When ReuseRecord is true the returned slice and its strings are only valid until
// the next call.
func (r *Reader) Read() (dst []string, err error) {
	if r == nil || r.src == nil || r.finished {
		return nil, io.EOF
	}

	comma := r.Comma
	if comma == 0 {
		comma = ','
	}
	quote := r.Quote
	if quote == 0 {
		quote = '"'
	}

	if r.ReuseRecord {
		r.record = r.record[:0]
	} else {
		r.record = nil
	}
	r.dataBuf = r.dataBuf[:0]
	r.fieldBounds = r.fieldBounds[:0]
	r.recordLine = r.line

	inQuotes := false
	sawQuotedField := false
	started := false
	column := 1
	fieldStart := 0
	quoteLine, quoteColumn := 0, 0

	for {
		b, err := r.src.ReadByte()
		if err != nil {
			if err != io.EOF {
				return nil, err
			}
			r.finished = true
			if inQuotes {
				return nil, &ParseError{Line: quoteLine, Column: quoteColumn, Err: ErrUnterminatedQuote}
			}
			if !started {
				return nil, io.EOF
			}
			// Flush a trailing field if data ended without a newline.
			r.fieldBounds = append(r.fieldBounds, fieldStart, len(r.dataBuf))
			return r.buildRecord()
		}
		started = true

		if inQuotes {
			switch b {
			case quote:
				// Double quote inside quotes represents an escaped quote.
				escaped, err := r.consumeIf(quote)
				if err != nil {
					return nil, err
				}
				if escaped {
					r.dataBuf = append(r.dataBuf, quote)
					column += 2
					continue
				}
				inQuotes = false
				column++
			case '\n':
				// Track logical line numbers for embedded newlines.
				r.dataBuf = append(r.dataBuf, b)
				r.line++
				column = 1
			default:
				r.dataBuf = append(r.dataBuf, b)
				column++
			}
			continue
		}

		switch b {
		case comma:
			r.fieldBounds = append(r.fieldBounds, fieldStart, len(r.dataBuf))
			fieldStart = len(r.dataBuf)
			sawQuotedField = false
			column++
		case '\n', '\r':
			// CRLF terminates a single record.
			if b == '\r' {
				if _, err := r.consumeIf('\n'); err != nil {
					return nil, err
				}
			}
			// A blank line is a record without fields.
			if len(r.fieldBounds) > 0 || len(r.dataBuf) > 0 || sawQuotedField {
				r.fieldBounds = append(r.fieldBounds, fieldStart, len(r.dataBuf))
			}
			r.line++
			return r.buildRecord()
		case quote:
			// A quote opens a quoted field only before any byte of the field was buffered.
			if len(r.dataBuf) == fieldStart && !sawQuotedField {
				inQuotes = true
				sawQuotedField = true
				quoteLine, quoteColumn = r.line, column
				column++
				continue
			}
			if !r.LazyQuotes {
				return nil, r.wrapError(column, ErrBareQuote)
			}
			r.dataBuf = append(r.dataBuf, b)
			column++
		default:
			r.dataBuf = append(r.dataBuf, b)
			column++
		}
	}
}

// ReadAll exhausts the reader and returns every record, or nil and the first
// non-EOF error encountered.
func (r *Reader) ReadAll() (records [][]string, err error) {
	for {
		record, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

// buildRecord maps the accumulated fieldBounds onto the data buffer and enforces FieldsPerRecord.
func (r *Reader) buildRecord() ([]string, error) {
	fieldCount := len(r.fieldBounds) / 2

	var recordStr string
	if r.ReuseRecord {
		if len(r.dataBuf) > 0 {
			// Zero-copy string construction so fields share a single backing buffer.
			recordStr = unsafe.String(unsafe.SliceData(r.dataBuf), len(r.dataBuf))
		}
		if cap(r.record) < fieldCount {
			r.record = make([]string, fieldCount)
		}
		r.record = r.record[:fieldCount]
	} else {
		recordStr = string(r.dataBuf)
		r.record = make([]string, fieldCount)
	}

	for i := 0; i < fieldCount; i++ {
		r.record[i] = recordStr[r.fieldBounds[2*i]:r.fieldBounds[2*i+1]]
	}

	switch {
	case fieldCount == 0:
	case r.FieldsPerRecord == 0:
		r.FieldsPerRecord = len(r.record)
	case r.FieldsPerRecord > 0 && len(r.record) != r.FieldsPerRecord:
		return r.record, ErrFieldCount
	}
	return r.record, nil
}

// consumeIf reads the next byte when it equals want and reports whether it did.
// EOF is not an error here; the following ReadByte observes it again.
func (r *Reader) consumeIf(want byte) (bool, error) {
	next, err := r.src.ReadByte()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if next == want {
		return true, nil
	}
	return false, r.src.UnreadByte()
}

// wrapError attaches the current line and supplied column to err, producing a *ParseError.
func (r *Reader) wrapError(column int, err error) error {
	return &ParseError{Line: r.line, Column: column, Err: err}
}
