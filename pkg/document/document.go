// Package document loads and saves object-rooted JSON documents without
// disturbing the parts a caller does not touch. Top-level keys keep their
// order and every value keeps its raw bytes, so rewriting one list leaves
// numbers, key order and nested formatting of the rest intact.
package document

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/agentstation/iibkit/pkg/errors"
)

// ErrRootNotObject is wrapped by the ParseError returned for well-formed JSON
// whose root is not an object.
var ErrRootNotObject = errors.New("document root must be an object")

// Document is an ordered JSON object.
type Document struct {
	keys   []string
	values map[string]json.RawMessage
}

// New returns an empty document.
func New() *Document {
	return &Document{values: make(map[string]json.RawMessage)}
}

// Parse decodes data into a Document. The root must be a JSON object.
// A repeated key keeps its first position and its last value.
func Parse(data []byte) (*Document, error) {
	// Validate the whole input first so syntax errors carry absolute offsets.
	var whole json.RawMessage
	if err := json.Unmarshal(data, &whole); err != nil {
		return nil, syntaxError(data, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, syntaxError(data, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.NewParseError("json", "", ErrRootNotObject.Error(), ErrRootNotObject)
	}

	doc := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, syntaxError(data, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.NewParseError("json", "", "object key must be a string", nil)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, syntaxError(data, err)
		}
		doc.Set(key, raw)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, syntaxError(data, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, errors.NewParseError("json", "", "unexpected data after document", nil)
		}
		return nil, syntaxError(data, err)
	}

	return doc, nil
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len returns the number of top-level keys.
func (d *Document) Len() int {
	return len(d.keys)
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Get returns the raw value stored under key.
func (d *Document) Get(key string) (json.RawMessage, bool) {
	raw, ok := d.values[key]
	return raw, ok
}

// Set stores raw under key, keeping the key's position when it already exists.
func (d *Document) Set(key string, raw json.RawMessage) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = raw
}

// List returns the elements of the array stored under key.
// ok is false when the key is missing or does not hold an array.
func (d *Document) List(key string) (items []json.RawMessage, ok bool) {
	raw, present := d.values[key]
	if !present || Kind(raw) != KindArray {
		return nil, false
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items, true
}

// SetList stores items as an array under key.
func (d *Document) SetList(key string, items []json.RawMessage) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(item)
	}
	buf.WriteByte(']')

	if !json.Valid(buf.Bytes()) {
		return errors.NewValidationError(key, nil, "list contains invalid JSON")
	}
	d.Set(key, buf.Bytes())
	return nil
}

// MarshalJSON encodes the document compactly in key order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(key); err != nil {
			return nil, err
		}
		// Encode appends a newline after the key
		buf.Truncate(buf.Len() - 1)
		buf.WriteByte(':')
		buf.Write(d.values[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalIndent encodes the document with the given prefix and indent and a
// trailing newline.
func (d *Document) MarshalIndent(prefix, indent string) ([]byte, error) {
	compact, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, prefix, indent); err != nil {
		return nil, errors.WrapParse("json", "", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// syntaxError converts a decoder error into a ParseError with a line and column.
func syntaxError(data []byte, err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.NewParseError("json", "", "unexpected end of JSON input", err)
	}
	var offset int64
	switch e := err.(type) {
	case *json.SyntaxError:
		offset = e.Offset
	case *json.UnmarshalTypeError:
		offset = e.Offset
	default:
		return errors.WrapParse("json", "", err)
	}

	line, col := position(data, offset)
	return &errors.ParseError{
		Format:  "json",
		Line:    line,
		Column:  col,
		Message: err.Error(),
		Err:     err,
	}
}

// position maps a byte offset to a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
