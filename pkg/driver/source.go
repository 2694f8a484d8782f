package driver

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeSource converts raw file bytes to UTF-8. A UTF-8 or UTF-16 byte order
// mark selects the encoding and is stripped; without one the input is taken
// as UTF-8.
func DecodeSource(data []byte) ([]byte, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), decoder))
	if err != nil {
		return nil, fmt.Errorf("source: decode: %w", err)
	}
	return out, nil
}

// ReadSource reads and decodes a source file.
func ReadSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}
	out, err := DecodeSource(data)
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", path, err)
	}
	return out, nil
}
