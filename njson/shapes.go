package njson

import (
	"strconv"
	"strings"
)

// EncodeKeySegment escapes a single object-key path segment so it can
// be safely joined with "/" into a flattened set key path, matching
// JsonKeyPathAppendEscaped / the ns_json keyencode command: '~'
// becomes "~0", '/' becomes "~1", and '.' becomes "~2" (the last so an
// object key containing a literal dot cannot collide with the ".type"
// sidecar suffix). '~' is escaped first so the '~' introduced by the
// other two substitutions is never itself re-escaped.
func EncodeKeySegment(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	s = strings.ReplaceAll(s, "/", "~1")
	s = strings.ReplaceAll(s, ".", "~2")
	return s
}

// DecodeKeySegment reverses EncodeKeySegment, matching the ns_json
// keydecode command. It scans left to right rather than doing blind
// substring replacement, since a prior encode guarantees every '~' in
// s begins a two-character escape.
func DecodeKeySegment(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '~' && i+1 < len(s) {
			switch s[i+1] {
			case '0':
				b.WriteByte('~')
				i++
				continue
			case '1':
				b.WriteByte('/')
				i++
				continue
			case '2':
				b.WriteByte('.')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

const typeKeySuffix = ".type"

// typeKeyFor appends the ".type" sidecar suffix to a flattened key
// path, matching JsonKeyPathMakeTypeKey.
func typeKeyFor(path string) string {
	return path + typeKeySuffix
}

func joinKeyPath(path, segment string) string {
	if path == "" {
		return segment
	}
	return path + "/" + segment
}

func scalarText(v Value) string {
	switch v.Type {
	case TypeString:
		return v.Text
	case TypeNumber:
		return v.Text
	case TypeBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case TypeNull:
		return NullSentinel
	default:
		return ""
	}
}

// ToDict renders v as plain nested Go values: map[string]any for JSON
// objects, []any for JSON arrays, and string leaves for everything
// else (null becomes NullSentinel), matching the -output dict shape.
func ToDict(v Value) any {
	switch v.Type {
	case TypeObject:
		m := make(map[string]any, len(v.Object))
		for _, member := range v.Object {
			m[member.Key] = ToDict(member.Value)
		}
		return m
	case TypeArray:
		arr := make([]any, len(v.Array))
		for i, elem := range v.Array {
			arr[i] = ToDict(elem)
		}
		return arr
	default:
		return scalarText(v)
	}
}

// Triple is one node of the NAME/TYPE/VALUE tree produced by
// ToTriples. For a scalar node Value holds its string representation;
// for an object or array node Value holds []Triple, one per member
// (Name is the object key, or "" for array elements).
type Triple struct {
	Name  string
	Type  string
	Value any
}

// ToTriples renders v as a NAME/TYPE/VALUE tree rooted at name,
// matching the -output triples shape. A caller parsing a standalone
// document typically passes name "", matching Ns_JsonParse's wrapping
// of a bare top-level scalar as ["", TYPE, VALUE].
func ToTriples(name string, v Value) Triple {
	t := Triple{Name: name, Type: v.Type.String()}
	switch v.Type {
	case TypeObject:
		children := make([]Triple, len(v.Object))
		for i, member := range v.Object {
			children[i] = ToTriples(member.Key, member.Value)
		}
		t.Value = children
	case TypeArray:
		children := make([]Triple, len(v.Array))
		for i, elem := range v.Array {
			children[i] = ToTriples("", elem)
		}
		t.Value = children
	default:
		t.Value = scalarText(v)
	}
	return t
}

// SetEntry is one flattened key/value pair produced by ToSet.
type SetEntry struct {
	Key   string
	Value string
}

// ToSet flattens v into an ordered list of key-path/value pairs plus a
// ".type" sidecar entry per scalar leaf, matching the -output set
// (ns_set) shape and JsonFlattenToSet. Object keys are escaped with
// EncodeKeySegment and array indices are rendered as plain decimal
// segments; path segments are joined with "/". A bare top-level scalar
// flattens to one value entry under the empty-string key plus its
// ".type" sidecar.
func ToSet(v Value) []SetEntry {
	var out []SetEntry
	flattenToSet("", v, &out)
	return out
}

func flattenToSet(path string, v Value, out *[]SetEntry) {
	switch v.Type {
	case TypeObject:
		for _, member := range v.Object {
			flattenToSet(joinKeyPath(path, EncodeKeySegment(member.Key)), member.Value, out)
		}
	case TypeArray:
		for i, elem := range v.Array {
			flattenToSet(joinKeyPath(path, strconv.Itoa(i)), elem, out)
		}
	default:
		*out = append(*out, SetEntry{Key: path, Value: scalarText(v)})
		*out = append(*out, SetEntry{Key: typeKeyFor(path), Value: v.Type.String()})
	}
}
