// Package extract pulls plain text out of documents so it can be spoken.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrUnsupportedFormat is returned for document types with no extractor.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// FormatError reports a document that could not be turned into text.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot extract text from %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Extensions lists the file extensions Text understands.
var Extensions = []string{".txt", ".text", ".md", ".markdown", ".docx", ".pdf"}

// Supported reports whether path has an extension Text understands.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Text reads the document at path and returns its text.
func Text(path string) (string, error) {
	if !Supported(path) {
		return "", &FormatError{Path: path, Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &FormatError{Path: path, Err: err}
	}
	return Bytes(path, data)
}

// Bytes extracts text from data, choosing the parser by the extension of
// name. Names without an extension are treated as plain text.
func Bytes(name string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case "", ".txt", ".text":
		text, err = plainText(data)
	case ".md", ".markdown":
		text, err = markdownText(data)
	case ".docx":
		text, err = docxText(data)
	case ".pdf":
		text, err = pdfText(data)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return "", &FormatError{Path: name, Err: err}
	}
	return strings.TrimSpace(text), nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// plainText decodes UTF-8, falling back to Latin-1 for anything else.
func plainText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return normalizeNewlines(string(data)), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("text is neither UTF-8 nor Latin-1: %w", err)
	}
	return normalizeNewlines(string(decoded)), nil
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}
