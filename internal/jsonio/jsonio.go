// Package jsonio reads and writes the JSON and JSON-Lines files the
// converters operate on. Either a call fully succeeds or it returns an
// error; no partially parsed value is ever handed back.
package jsonio

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Load error categories. Callers match with errors.Is.
var (
	ErrNotFound = errors.New("file not found")
	ErrDecode   = errors.New("invalid JSON")
	ErrEncoding = errors.New("invalid UTF-8")
)

// Load reads the file at path and parses it as a single JSON document.
func Load(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	if !utf8.Valid(data) {
		return nil, errors.Wrapf(ErrEncoding, "%s", path)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrapf(ErrDecode, "%s: %v", path, err)
	}
	return v, nil
}

// Save serializes v to path as UTF-8 JSON, overwriting any existing file.
// Pretty output uses 4-space indentation. Non-ASCII characters and HTML
// metacharacters are written literally so names and emojis stay readable.
func Save(v any, path string, pretty bool) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "    ")
	}
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "marshaling output")
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// SaveLines writes one compact JSON value per line. An empty slice produces
// an empty file; that is defined behavior, not an error.
func SaveLines(items []any, path string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return errors.Wrap(err, "marshaling line")
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// ReadLines parses a JSON-Lines file back into its values, skipping blank
// lines.
func ReadLines(path string) ([]any, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	var items []any
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var v any
		if err := json.Unmarshal(line, &v); err != nil {
			return nil, errors.Wrapf(ErrDecode, "%s: %v", path, err)
		}
		items = append(items, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return items, nil
}
