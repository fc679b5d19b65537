package sqlchain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeValue_RoundTrip(t *testing.T) {
	ts := time.Date(2020, 10, 11, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
	}{
		{"nil", nil},
		{"int", 42},
		{"float", 10.2},
		{"string", "Water"},
		{"bool", true},
		{"bytes", []byte{1, 2, 3, 4}},
		{"timestamp", ts},
		{"list", []any{"a", int64(1), nil}},
		{"map", map[string]any{"a": ts}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodeValue(tt.in)
			decoded := DecodeValue(encoded)
			assert.Equal(t, tt.in, decoded)
		})
	}
}

func TestEncodeValue_TimestampTag(t *testing.T) {
	ts := time.Date(2020, 10, 11, 0, 0, 0, 0, time.UTC)
	encoded := EncodeValue(ts)
	require.Equal(t, "data:object;<DateTime>,2020-10-11 00:00:00", encoded)
}

func TestEncodeValue_BytesTag(t *testing.T) {
	encoded := EncodeValue([]byte{1, 2, 3, 4})
	require.Equal(t, "data:application/octet-stream;base64,AQIDBA==", encoded)
}

func TestDecodeValue_UnknownStringPassesThrough(t *testing.T) {
	assert.Equal(t, "plain-string", DecodeValue("plain-string"))
}

func TestStringifyValue(t *testing.T) {
	assert.Equal(t, "null", stringifyValue(nil))
	assert.Equal(t, "true", stringifyValue(true))
	assert.Equal(t, "10.2", stringifyValue(10.2))
}
