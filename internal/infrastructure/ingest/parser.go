package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrEmptyFile is returned when the CSV file is empty
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrInvalidEncoding is returned when the file is not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding")

	// ErrMissingHeader is returned when the CSV file has no header row
	ErrMissingHeader = errors.New("CSV file missing header row")

	// ErrNoDataRows is returned when the CSV file has no data rows
	ErrNoDataRows = errors.New("CSV file contains no data rows")

	// ErrTooManyRows is returned when the dataset exceeds the configured row limit
	ErrTooManyRows = errors.New("dataset exceeds maximum row count")
)

// Parser reads a CSV dataset with normalized header matching. Column
// names are matched case-insensitively, ignoring spaces and punctuation,
// so "Creator Name", "creator_name" and "CREATORNAME" all resolve to the
// same column.
type Parser struct {
	delimiter  rune
	headerMap  map[string]int
	headers    []string
	currentRow int
	reader     *csv.Reader
}

// ParserOption is a functional option for Parser configuration
type ParserOption func(*Parser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ParserOption {
	return func(p *Parser) {
		p.delimiter = d
	}
}

// NewParser creates a new CSV parser from a reader
func NewParser(r io.Reader, opts ...ParserOption) (*Parser, error) {
	parser := &Parser{
		delimiter: ',',
		headerMap: make(map[string]int),
	}

	for _, opt := range opts {
		opt(parser)
	}

	buf := bufio.NewReader(r)

	// Strip UTF-8 BOM if present
	head, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	if err := validateUTF8(buf); err != nil {
		return nil, err
	}

	parser.reader = csv.NewReader(buf)
	parser.reader.Comma = parser.delimiter
	parser.reader.LazyQuotes = true
	parser.reader.TrimLeadingSpace = true
	parser.reader.FieldsPerRecord = -1

	return parser, nil
}

// ParseBytes creates a parser from a byte slice
func ParseBytes(data []byte, opts ...ParserOption) (*Parser, error) {
	return NewParser(bytes.NewReader(data), opts...)
}

func validateUTF8(r *bufio.Reader) error {
	const checkSize = 4096
	content, err := r.Peek(checkSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file for encoding validation: %w", err)
	}

	if len(content) == 0 {
		return ErrEmptyFile
	}

	if !utf8.Valid(content) {
		return ErrInvalidEncoding
	}

	return nil
}

// NormalizeHeader lowercases a column name and strips spaces and punctuation
func NormalizeHeader(h string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// ParseHeader reads the header row and builds the normalized column index
func (p *Parser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		header := strings.TrimSpace(h)
		p.headers[i] = header

		key := NormalizeHeader(header)
		if key == "" {
			continue
		}
		if _, exists := p.headerMap[key]; !exists {
			p.headerMap[key] = i
		}
	}

	if len(p.headerMap) == 0 {
		return ErrMissingHeader
	}

	p.currentRow = 1 // Header is row 1

	return nil
}

// Headers returns the header names as they appeared in the file
func (p *Parser) Headers() []string {
	return p.headers
}

// HasColumn checks if a column exists under normalized matching
func (p *Parser) HasColumn(name string) bool {
	_, ok := p.headerMap[NormalizeHeader(name)]
	return ok
}

// MissingColumns returns every required column absent from the header,
// not just the first
func (p *Parser) MissingColumns(required []string) []string {
	var missing []string
	for _, name := range required {
		if !p.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Row is a parsed CSV row with its source line number
type Row struct {
	LineNumber int
	fields     []string
	parser     *Parser
}

// Get returns the value for a column by name, normalized
func (r *Row) Get(name string) string {
	idx, ok := r.parser.headerMap[NormalizeHeader(name)]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.fields {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ReadRow reads the next data row
func (p *Parser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		p.currentRow++
		return nil, fmt.Errorf("error reading row %d: %w", p.currentRow, err)
	}

	p.currentRow++

	return &Row{
		LineNumber: p.currentRow,
		fields:     record,
		parser:     p,
	}, nil
}

// ReadAllRows reads every remaining data row, skipping blank lines
func (p *Parser) ReadAllRows() ([]*Row, error) {
	var rows []*Row

	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}

		if row.IsEmpty() {
			continue
		}

		rows = append(rows, row)
	}

	return rows, nil
}
