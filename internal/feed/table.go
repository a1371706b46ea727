// Package feed reads delimiter-separated observation files for the feed
// tool: it sniffs the delimiter, strips a UTF-8 BOM and selects a column.
package feed

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

const (
	// SampleSize is the number of leading bytes used to sniff the delimiter
	SampleSize = 20000

	// CheckRows is the number of leading rows that must agree on column count
	CheckRows = 10
)

// AllowedDelimiters lists sniffing candidates in order of preference
var AllowedDelimiters = []rune{',', '\t', ':', '|', ' '}

// ErrNoDialect is returned when no candidate delimiter parses the sample
// consistently
var ErrNoDialect = errors.New("unable to detect a consistent delimiter")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var clockPattern = regexp.MustCompile(`\d:\d\d`)

// StripBOM removes a leading UTF-8 byte order mark
func StripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// DelimiterName returns a readable name for a delimiter
func DelimiterName(d rune) string {
	switch d {
	case ',':
		return "comma"
	case '\t':
		return "tab"
	case ':':
		return "colon"
	case '|':
		return "pipe"
	case ' ':
		return "space"
	default:
		return strconv.QuoteRune(d)
	}
}

// DetectDelimiter picks the first of comma, tab and pipe that splits the
// first CheckRows rows of sample into a consistent number of columns. Colon
// and space also occur inside times and timestamps, so they are used only
// when exactly one of them splits the rows consistently and not every row
// carries a clock time. A sample with no comma, tab or pipe that matches
// nothing else is read as a single column.
func DetectDelimiter(sample []byte) (rune, error) {
	sample = StripBOM(sample)
	if len(sample) > SampleSize {
		sample = sample[:SampleSize]
		if i := bytes.LastIndexByte(sample, '\n'); i > 0 {
			sample = sample[:i+1]
		}
	}
	if len(bytes.TrimSpace(sample)) == 0 {
		return 0, fmt.Errorf("%w: empty input", ErrNoDialect)
	}

	var weak []rune
	singleColumn := false
	clocks := allRowsHaveClock(sample)
	for _, d := range AllowedDelimiters {
		columns, ok := consistentColumns(sample, d)
		if !ok {
			continue
		}
		if columns == 1 {
			singleColumn = true
			continue
		}
		if isWeakDelimiter(d) {
			if !clocks {
				weak = append(weak, d)
			}
			continue
		}
		return d, nil
	}

	switch {
	case len(weak) == 1:
		return weak[0], nil
	case (singleColumn || len(weak) > 1) && !bytes.ContainsAny(sample, ",\t|"):
		return ',', nil
	default:
		return 0, ErrNoDialect
	}
}

// isWeakDelimiter reports whether d also appears inside observation values
func isWeakDelimiter(d rune) bool {
	return d == ':' || d == ' '
}

// allRowsHaveClock reports whether every non-blank row among the first
// CheckRows contains an H:MM style time.
func allRowsHaveClock(sample []byte) bool {
	rows := 0
	for _, line := range bytes.Split(sample, []byte("\n")) {
		if rows == CheckRows {
			break
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if !clockPattern.Match(line) {
			return false
		}
		rows++
	}
	return rows > 0
}

// consistentColumns parses up to CheckRows rows with delimiter d and reports
// their shared column count.
func consistentColumns(sample []byte, d rune) (int, bool) {
	r := newReader(bytes.NewReader(sample), d)

	columns := -1
	for i := 0; i < CheckRows; i++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, false
		}
		if columns == -1 {
			columns = len(record)
		} else if columns != len(record) {
			return 0, false
		}
	}
	return columns, columns > 0
}

func newReader(r io.Reader, d rune) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = d
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// Table is a parsed delimiter-separated file
type Table struct {
	Delimiter rune
	Header    []string
	Rows      [][]string
}

// ReadOptions controls Read
type ReadOptions struct {
	// Delimiter overrides sniffing when non-zero
	Delimiter rune
	// NoHeader treats the first row as data and names columns column_1..n
	NoHeader bool
}

// Read parses r into a Table
func Read(r io.Reader, opts ReadOptions) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	data = StripBOM(data)

	delim := opts.Delimiter
	if delim == 0 {
		if delim, err = DetectDelimiter(data); err != nil {
			return nil, err
		}
	}

	records, err := newReader(bytes.NewReader(data), delim).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("input has no rows")
	}

	t := &Table{Delimiter: delim}
	if opts.NoHeader {
		width := 0
		for _, rec := range records {
			width = max(width, len(rec))
		}
		t.Header = make([]string, width)
		for i := range t.Header {
			t.Header[i] = fmt.Sprintf("column_%d", i+1)
		}
		t.Rows = records
	} else {
		t.Header = make([]string, len(records[0]))
		for i, name := range records[0] {
			t.Header[i] = strings.TrimSpace(name)
		}
		t.Rows = records[1:]
	}
	return t, nil
}

// ColumnIndex resolves a column by header name, case-insensitively, or by
// 1-based position.
func (t *Table) ColumnIndex(name string) (int, error) {
	name = strings.TrimSpace(name)
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}
	for i, h := range t.Header {
		if strings.EqualFold(h, name) {
			return i, nil
		}
	}
	if n, err := strconv.Atoi(name); err == nil && n >= 1 && n <= len(t.Header) {
		return n - 1, nil
	}
	return -1, fmt.Errorf("column %q not found (available: %s)", name, strings.Join(t.Header, ", "))
}

// Column returns the values of a column. Short rows yield empty values,
// which the peak service treats as nulls.
func (t *Table) Column(name string) ([]string, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}

	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			values[i] = strings.TrimSpace(row[idx])
		}
	}
	return values, nil
}
