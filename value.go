package sqlchain

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strings"
	"time"
)

// dateTimeTag and bytesTag are the data-URI prefixes used to make temporal
// and binary values survive a JSON round-trip (spec.md §4.1).
const (
	dateTimeTag  = "data:object;<DateTime>,"
	bytesTag     = "data:application/octet-stream;base64,"
	dateTimeForm = "2006-01-02 15:04:05"
)

// EncodeValue renders a Go value into its portable, JSON-stable form.
//
// Primitives and booleans encode as themselves. time.Time encodes as the
// tagged string "data:object;<DateTime>,YYYY-MM-DD HH:MM:SS" in UTC with no
// sub-second component. []byte encodes as a base64 data URI. Maps and slices
// recurse element-wise.
func EncodeValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		return dateTimeTag + t.UTC().Format(dateTimeForm)
	case []byte:
		return bytesTag + base64.StdEncoding.EncodeToString(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = EncodeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = EncodeValue(val)
		}
		return out
	default:
		return v
	}
}

// DecodeValue is the inverse of EncodeValue. Any string that does not match
// a recognized "data:" tag decodes to itself, so DecodeValue is total:
// DecodeValue(EncodeValue(x)) == x for every value EncodeValue supports.
func DecodeValue(v any) any {
	switch t := v.(type) {
	case string:
		if ts, ok := strings.CutPrefix(t, dateTimeTag); ok {
			if parsed, err := time.Parse(dateTimeForm, ts); err == nil {
				return parsed.UTC()
			}
			return t
		}
		if b64, ok := strings.CutPrefix(t, bytesTag); ok {
			if raw, err := base64.StdEncoding.DecodeString(b64); err == nil {
				return raw
			}
			return t
		}
		return t
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = DecodeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = DecodeValue(val)
		}
		return out
	default:
		return v
	}
}

// isDataURI reports whether s carries one of the recognized tags.
func isDataURI(s string) bool {
	return strings.HasPrefix(s, dateTimeTag) || strings.HasPrefix(s, bytesTag)
}

// stringifyValue renders a decoded value the way the placeholder substituter
// and the NULL-normalization logic in the predicate tree need: a literal
// "null" for nil, RFC-ish text for everything else.
func stringifyValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case time.Time:
		return t.UTC().Format(dateTimeForm)
	case []byte:
		return string(t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return trimFloat(t)
	case float32:
		return trimFloat(float64(t))
	default:
		return fmt.Sprintf("%v", t)
	}
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}

// sortedKeys returns m's keys in ascending order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
