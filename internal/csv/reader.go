package csv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// DefaultDelimiter is used when no delimiter is configured.
const DefaultDelimiter = ';'

var bom = []byte{0xef, 0xbb, 0xbf}

var (
	// ErrFileNotFound is returned when the path does not name a readable regular file.
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidDelimiter is returned for delimiters encoding/csv cannot use.
	ErrInvalidDelimiter = errors.New("invalid delimiter")
)

// ReadOptions configures ReadFile.
type ReadOptions struct {
	// Comma is the field delimiter. Zero means DefaultDelimiter.
	Comma rune
	// Encoding names the source charset, see Decode.
	Encoding string
}

// Read tokenizes all rows from r. Row width is not enforced here.
func Read(r io.Reader, comma rune) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, bom)
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ReadFile opens path, decodes it according to opt.Encoding and returns its rows.
// The file is closed before ReadFile returns.
func ReadFile(path string, opt ReadOptions) ([][]string, error) {
	comma := opt.Comma
	if comma == 0 {
		comma = DefaultDelimiter
	}
	if !validDelimiter(comma) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDelimiter, comma)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileNotFound, path, err)
	}
	defer func() { _ = file.Close() }()

	src, err := Decode(file, opt.Encoding)
	if err != nil {
		return nil, err
	}
	records, err := Read(src, comma)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}
