package csvtidy

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Record is one parsed CSV row.
type Record []string

// Document is a fully loaded CSV file. The first record is the header.
type Document struct {
	Records []Record
	lines   []int
}

// NewDocument wraps records that did not come from a file; source lines are unknown.
func NewDocument(records []Record) *Document {
	return &Document{Records: records}
}

// Header returns the first record, or nil for an empty document.
func (d *Document) Header() Record {
	if d == nil || len(d.Records) == 0 {
		return nil
	}
	return d.Records[0]
}

// DataRows is the number of records after the header.
func (d *Document) DataRows() int {
	if d == nil || len(d.Records) == 0 {
		return 0
	}
	return len(d.Records) - 1
}

// Line returns the source line on which record i started, or 0 when unknown.
func (d *Document) Line(i int) int {
	if d == nil || i < 0 || i >= len(d.lines) {
		return 0
	}
	return d.lines[i]
}

// Options controls how files are parsed and rewritten.
type Options struct {
	// Comma is the field delimiter. Default is ','.
	Comma byte
	// LazyQuotes tolerates quotes inside unquoted fields.
	LazyQuotes bool
	// UseCRLF terminates rewritten records with \r\n instead of \n.
	UseCRLF bool
	// ExpectedFields overrides the header width used by the shape diagnostic.
	ExpectedFields int
	// DryRun parses and diagnoses files without rewriting them.
	DryRun bool
}

var (
	parenSpan   = regexp.MustCompile(`\([^)]*,[^)]*\)`)
	bracketSpan = regexp.MustCompile(`\[[^\]]*,[^\]]*\]`)

	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16BEBOM = []byte{0xFE, 0xFF}
	utf16LEBOM = []byte{0xFF, 0xFE}
)

// NeedsQuoting reports whether field contains a parenthesized or bracketed span with
// a comma inside, such as "foo(a, b)" or "[1, 2, 3]". It is a diagnostic hint only:
// the writer always decides quoting with FieldRequiresQuotes.
func NeedsQuoting(field string) bool {
	return parenSpan.MatchString(field) || bracketSpan.MatchString(field)
}

// Load reads and parses the CSV file at path with default options.
func Load(path string) (*Document, error) {
	doc, _, err := Options{}.load(path)
	return doc, err
}

// Decode parses CSV content from src with default options.
func Decode(src io.Reader) (*Document, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, "read csv input")
	}
	return Options{}.decode(data)
}

// Serialize renders rows with minimal quoting and \n line endings.
func Serialize(rows []Record) ([]byte, error) {
	return Options{}.serialize(rows)
}

// Save overwrites the file at path with data. The previous content is not kept.
func Save(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return errors.Wrapf(err, "open %s for writing", path)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", path)
	}
	return nil
}

// load returns the parsed document together with the raw bytes that were read.
func (o Options) load(path string) (*Document, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read %s", path)
	}
	doc, err := o.decode(data)
	if err != nil {
		return nil, data, errors.Wrapf(err, "parse %s", path)
	}
	return doc, data, nil
}

func (o Options) decode(data []byte) (*Document, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	r := NewReader(bytes.NewReader(text))
	if o.Comma != 0 {
		r.Comma = o.Comma
	}
	r.LazyQuotes = o.LazyQuotes
	r.FieldsPerRecord = -1

	doc := &Document{}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		doc.Records = append(doc.Records, Record(rec))
		doc.lines = append(doc.lines, r.RecordLine())
	}
	if len(doc.Records) == 0 {
		return nil, ErrEmptyDocument
	}
	return doc, nil
}

func (o Options) serialize(rows []Record) ([]byte, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if o.Comma != 0 {
		w.Comma = o.Comma
	}
	w.UseCRLF = o.UseCRLF
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeText validates UTF-8 input and strips a leading byte-order mark. Input with a
// UTF-16 byte-order mark is transcoded to UTF-8.
func decodeText(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, utf16BEBOM) && !bytes.HasPrefix(data, utf16LEBOM) {
		if err := validateUTF8(bytes.TrimPrefix(data, utf8BOM)); err != nil {
			return nil, err
		}
	}
	text, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		return nil, &ParseError{Line: 1, Column: 1, Err: errors.Wrap(err, "decode text")}
	}
	return text, nil
}

func validateUTF8(data []byte) error {
	line, column := 1, 1
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size <= 1 {
			return &ParseError{Line: line, Column: column, Err: ErrInvalidUTF8}
		}
		if r == '\n' {
			line++
			column = 1
		} else {
			column += size
		}
		data = data[size:]
	}
	return nil
}
