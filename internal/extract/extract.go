// Package extract pulls plain text out of uploaded resume files.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
)

var ErrUnsupportedType = errors.New("unsupported file type")

var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain; charset=utf-8",
}

// Allowed reports whether filename has one of the accepted resume extensions.
func Allowed(filename string) bool {
	_, ok := mimeTypes[ext(filename)]
	return ok
}

// MimeType returns the content type served for filename.
func MimeType(filename string) string {
	if m, ok := mimeTypes[ext(filename)]; ok {
		return m
	}
	return "application/octet-stream"
}

// Text extracts the text of data according to the extension of filename.
func Text(filename string, data []byte) (string, error) {
	switch ext(filename) {
	case ".txt":
		return strings.TrimSpace(strings.ToValidUTF8(string(data), "")), nil
	case ".pdf":
		return pdfText(data)
	case ".docx":
		return docxText(data)
	case ".doc":
		return docText(data)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(filename))
}

// SafeFilename strips directories and any character outside [A-Za-z0-9._-].
func SafeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range strings.Join(strings.Fields(name), "_") {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return strings.TrimLeft(b.String(), "._")
}

func ext(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

func pdfText(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed xref tables
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("read pdf: %v", rec)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func docxText(data []byte) (string, error) {
	return convert("docx", data, docconv.ConvertDocx)
}

func docText(data []byte) (string, error) {
	return convert("doc", data, docconv.ConvertDoc)
}

// convert runs a docconv converter, turning its panics on corrupt archives
// into errors.
func convert(kind string, data []byte, fn func(io.Reader) (string, map[string]string, error)) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("read %s: %v", kind, rec)
		}
	}()

	body, _, err := fn(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", kind, err)
	}
	return cleanLines(body), nil
}

// cleanLines trims every line and drops the empty ones.
func cleanLines(s string) string {
	var lines []string
	for _, line := range strings.Split(strings.ToValidUTF8(s, ""), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
