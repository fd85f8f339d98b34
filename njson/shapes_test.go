package njson_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naviserver-project/naviserver-sub001/njson"
)

func parseValue(t *testing.T, doc string) njson.Value {
	t.Helper()
	v, _, err := njson.Parse([]byte(doc), njson.DefaultOptions())
	require.NoError(t, err)
	return v
}

func TestToDictRendersNestedPlainValues(t *testing.T) {
	v := parseValue(t, `{"a": 1, "b": {"c": true}, "d": [1, null]}`)
	got := njson.ToDict(v).(map[string]any)

	assert.Equal(t, "1", got["a"])
	nested := got["b"].(map[string]any)
	assert.Equal(t, "true", nested["c"])
	arr := got["d"].([]any)
	assert.Equal(t, "1", arr[0])
	assert.Equal(t, njson.NullSentinel, arr[1])
}

func TestToTriplesPreservesTypeAlongsideValue(t *testing.T) {
	v := parseValue(t, `{"a": 1, "b": "x"}`)
	got := njson.ToTriples("", v)

	assert.Equal(t, "object", got.Type)
	children := got.Value.([]njson.Triple)
	require.Len(t, children, 2)
	assert.Equal(t, "a", children[0].Name)
	assert.Equal(t, "number", children[0].Type)
	assert.Equal(t, "1", children[0].Value)
	assert.Equal(t, "string", children[1].Type)
	assert.Equal(t, "x", children[1].Value)
}

func TestToTriplesWrapsTopLevelScalar(t *testing.T) {
	v := parseValue(t, `42`)
	got := njson.ToTriples("", v)
	assert.Equal(t, "", got.Name)
	assert.Equal(t, "number", got.Type)
	assert.Equal(t, "42", got.Value)
}

func TestToSetFlattensNestedKeysWithTypeSidecars(t *testing.T) {
	v := parseValue(t, `{"a": 1, "b": {"c": "x"}, "d": [true, null]}`)
	entries := njson.ToSet(v)

	byKey := make(map[string]string, len(entries))
	for _, e := range entries {
		byKey[e.Key] = e.Value
	}

	assert.Equal(t, "1", byKey["a"])
	assert.Equal(t, "number", byKey["a.type"])
	assert.Equal(t, "x", byKey["b/c"])
	assert.Equal(t, "string", byKey["b/c.type"])
	assert.Equal(t, "true", byKey["d/0"])
	assert.Equal(t, "boolean", byKey["d/0.type"])
	assert.Equal(t, njson.NullSentinel, byKey["d/1"])
	assert.Equal(t, "null", byKey["d/1.type"])
}

func TestToSetEscapesKeysContainingPathDelimiters(t *testing.T) {
	v := parseValue(t, `{"a/b.c~d": 1}`)
	entries := njson.ToSet(v)
	require.NotEmpty(t, entries)
	assert.Equal(t, "a~1b~2c~0d", entries[0].Key)
}

func TestEncodeDecodeKeySegmentRoundTrip(t *testing.T) {
	for _, raw := range []string{"plain", "a/b", "a.b", "a~b", "a~0b/c.d"} {
		encoded := njson.EncodeKeySegment(raw)
		assert.Equal(t, raw, njson.DecodeKeySegment(encoded))
	}
}

func TestEncodeKeySegmentEscapesTildeFirst(t *testing.T) {
	assert.Equal(t, "~0", njson.EncodeKeySegment("~"))
	assert.Equal(t, "~1", njson.EncodeKeySegment("/"))
	assert.Equal(t, "~2", njson.EncodeKeySegment("."))
}
