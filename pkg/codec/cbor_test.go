package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRecord struct {
	Element string `cbor:"element"`
	Args    []any  `cbor:"args"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRecord{Element: "f32", Args: []any{[]byte{1, 2, 3, 4}}}

	data, err := Marshal(original)
	require.NoError(t, err)

	var decoded sampleRecord
	require.NoError(t, Unmarshal(data, &decoded))
	assert.Equal(t, original.Element, decoded.Element)
	require.Len(t, decoded.Args, 1)
	assert.Equal(t, []byte{1, 2, 3, 4}, decoded.Args[0])
}

func TestMarshalDeterministic(t *testing.T) {
	value := map[string]any{"b": 2, "a": 1, "c": []byte("x")}

	first, err := Marshal(value)
	require.NoError(t, err)
	second, err := Marshal(value)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second), "%x != %x", first, second)
}

func TestDecodeAnyMapType(t *testing.T) {
	data, err := Marshal(map[string]any{"kind": "mat4f"})
	require.NoError(t, err)

	var decoded any
	require.NoError(t, Unmarshal(data, &decoded))
	m, ok := decoded.(map[string]any)
	require.True(t, ok, "decoded %T", decoded)
	assert.Equal(t, "mat4f", m["kind"])
}

func TestConstructorArgumentShapes(t *testing.T) {
	testCases := []struct {
		name string
		args []any
		diag string
	}{
		{"null", []any{}, "[]"},
		{"empty", []any{[]any{}}, "[[]]"},
		{"bytes", []any{[]byte{0xAB}}, "[h'ab']"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := Marshal(tc.args)
			require.NoError(t, err)
			diag, err := Diagnose(data)
			require.NoError(t, err)
			assert.Equal(t, tc.diag, diag)
		})
	}
}

func TestEncoderDecoderStream(t *testing.T) {
	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	require.NoError(t, encoder.Encode("first"))
	require.NoError(t, encoder.Encode(2))

	decoder := NewDecoder(&buffer)
	var s string
	var n int
	require.NoError(t, decoder.Decode(&s))
	require.NoError(t, decoder.Decode(&n))
	assert.Equal(t, "first", s)
	assert.Equal(t, 2, n)
}
