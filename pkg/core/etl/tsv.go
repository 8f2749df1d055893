package etl

import (
	"bufio"
	"io"
	"strings"
)

// RowSource yields tab-delimited rows one at a time.
type RowSource interface {
	Next() bool
	Row() []string
	Line() int // 1-based line number of the current row
	Name() string
	Err() error
}

// Some num.txt footnotes run well past bufio's default token size.
const maxLineSize = 16 * 1024 * 1024

// TSVReader reads tab-separated lines from an io.Reader.
type TSVReader struct {
	name    string
	scanner *bufio.Scanner
	row     []string
	line    int
}

// NewTSVReader creates a reader; name is used in error messages.
func NewTSVReader(name string, r io.Reader) *TSVReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &TSVReader{name: name, scanner: s}
}

// Next advances to the next row
func (t *TSVReader) Next() bool {
	if !t.scanner.Scan() {
		return false
	}
	t.line++
	t.row = strings.Split(t.scanner.Text(), "\t")
	return true
}

// Row returns the fields of the current row
func (t *TSVReader) Row() []string { return t.row }

// Line returns the current line number
func (t *TSVReader) Line() int { return t.line }

// Name returns the source name
func (t *TSVReader) Name() string { return t.name }

// Err returns the first read error, if any
func (t *TSVReader) Err() error { return t.scanner.Err() }
