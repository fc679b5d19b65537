package sqlchain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OrderedMap is a string-keyed map that preserves insertion order, used for
// Statement.parameters, Statement.returnColumns and Statement.variables —
// spec.md §3 requires insertion order to be the column order rendered for
// INSERT/UPDATE, which a plain Go map cannot guarantee.
type OrderedMap struct {
	keys   []string
	values map[string]any
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]any)}
}

// Set inserts or updates key, appending it to the key order only the first
// time it is seen.
func (m *OrderedMap) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it was present.
func (m *OrderedMap) Get(key string) (any, bool) {
	if m == nil || m.values == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Each iterates entries in insertion order.
func (m *OrderedMap) Each(fn func(key string, value any)) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Clone returns a deep-enough copy (values are not deep-copied, only the
// key/value structure).
func (m *OrderedMap) Clone() *OrderedMap {
	if m == nil {
		return NewOrderedMap()
	}
	out := NewOrderedMap()
	out.keys = append([]string(nil), m.keys...)
	out.values = make(map[string]any, len(m.values))
	for k, v := range m.values {
		out.values[k] = v
	}
	return out
}

// MarshalJSON emits a regular JSON object. Go's encoding/json does not
// preserve map key order on decode, so round-tripping order relies solely on
// UnmarshalJSON below reading the raw token stream.
func (m *OrderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object while preserving the source key order,
// using json.Decoder's token stream rather than map[string]json.RawMessage.
func (m *OrderedMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return fmt.Errorf("sqlchain: expected JSON object, got %v", tok)
	}
	*m = OrderedMap{values: make(map[string]any)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("sqlchain: expected string key, got %v", keyTok)
		}
		var val any
		if err := dec.Decode(&val); err != nil {
			return err
		}
		m.Set(key, normalizeJSONNumber(val))
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return err
	}
	return nil
}

// normalizeJSONNumber recursively converts json.Number-free decoding
// results (encoding/json with UseNumber not set yields float64 already) —
// kept as a hook so nested lists used as raw-fragment carriers decode their
// elements consistently.
func normalizeJSONNumber(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeJSONNumber(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalizeJSONNumber(e)
		}
		return out
	default:
		return v
	}
}
