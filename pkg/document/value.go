package document

import (
	"bytes"
	"encoding/json"
	"math/big"
	"sort"
)

// ValueKind classifies a raw JSON value by its first significant byte.
type ValueKind int

// Value kinds.
const (
	KindInvalid ValueKind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Kind returns the kind of raw.
func Kind(raw json.RawMessage) ValueKind {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return KindInvalid
	}
	switch c := trimmed[0]; {
	case c == 'n':
		return KindNull
	case c == 't' || c == 'f':
		return KindBool
	case c == '"':
		return KindString
	case c == '[':
		return KindArray
	case c == '{':
		return KindObject
	case c == '-' || (c >= '0' && c <= '9'):
		return KindNumber
	default:
		return KindInvalid
	}
}

// Field returns the value of name when raw is an object holding it.
// ok is false for non-objects and missing fields.
func Field(raw json.RawMessage, name string) (json.RawMessage, bool) {
	if Kind(raw) != KindObject {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}
	v, ok := fields[name]
	return v, ok
}

// Truthy applies JSON-level truthiness: null, false, 0, "", [] and {} are
// false, everything else is true.
func Truthy(raw json.RawMessage) bool {
	switch Kind(raw) {
	case KindNull, KindInvalid:
		return false
	case KindBool:
		return bytes.HasPrefix(bytes.TrimLeft(raw, " \t\r\n"), []byte("true"))
	case KindNumber:
		r, ok := new(big.Rat).SetString(string(bytes.TrimSpace(raw)))
		return ok && r.Sign() != 0
	case KindString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return false
		}
		return s != ""
	case KindArray:
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return false
		}
		return len(items) > 0
	case KindObject:
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return false
		}
		return len(fields) > 0
	}
	return false
}

// Canonical returns a comparison key for raw so that equal JSON values
// compare equal regardless of escaping, whitespace, or key order. Numbers
// are keyed by their exact value: 1 and 1.0 match, while integers beyond
// float64 precision stay distinct.
func Canonical(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(raw)
	}
	var buf bytes.Buffer
	writeCanonical(&buf, v)
	return buf.String()
}

// writeCanonical encodes v with sorted object keys and exact numbers.
func writeCanonical(buf *bytes.Buffer, v any) {
	switch t := v.(type) {
	case json.Number:
		if r, ok := new(big.Rat).SetString(t.String()); ok {
			buf.WriteString(r.RatString())
			return
		}
		buf.WriteString(t.String())
	case string:
		out, _ := json.Marshal(t)
		buf.Write(out)
	case []any:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonical(buf, item)
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			out, _ := json.Marshal(k)
			buf.Write(out)
			buf.WriteByte(':')
			writeCanonical(buf, t[k])
		}
		buf.WriteByte('}')
	default:
		out, _ := json.Marshal(t)
		buf.Write(out)
	}
}
