package njson

// ValueType identifies the JSON type of a parsed Value, mirroring the
// JsonValueType enum (JSON_VT_STRING/NUMBER/BOOL/NULL/OBJECT/ARRAY).
type ValueType int

const (
	TypeString ValueType = iota
	TypeNumber
	TypeBool
	TypeNull
	TypeObject
	TypeArray
)

// String returns the lowercase type name used in triples output and in
// the ".type" sidecar keys of set output.
func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBool:
		return "boolean"
	case TypeNull:
		return "null"
	case TypeObject:
		return "object"
	case TypeArray:
		return "array"
	default:
		return "unknown"
	}
}

// NullSentinel is the string substituted for a JSON null when a Value
// tree is flattened into the stringly-typed dict or set shapes, since
// neither has a native null representation.
const NullSentinel = "__NS_JSON_NULL__"

// Member is one key/value pair of a parsed JSON object. Member order is
// preserved in object-insertion order, matching source text order.
type Member struct {
	Key   string
	Value Value
}

// Value is one node of a parsed JSON document. Exactly one of the
// fields below is meaningful for a given Type:
//
//	TypeString: Text holds the decoded string (escapes already resolved)
//	TypeNumber: Text holds the original numeric lexeme, unevaluated
//	TypeBool:   Bool holds the boolean
//	TypeNull:   no payload field is used
//	TypeObject: Object holds the members, in source order
//	TypeArray:  Array holds the elements, in source order
//
// Numbers are kept as their source lexeme rather than converted to
// float64 so that integers larger than 2^53 and exact decimal literals
// round-trip through Parse/Marshal unchanged.
type Value struct {
	Type   ValueType
	Text   string
	Bool   bool
	Object []Member
	Array  []Value
}

// NewString returns a string-typed Value holding the already-decoded
// text s.
func NewString(s string) Value { return Value{Type: TypeString, Text: s} }

// NewNumber returns a number-typed Value holding lexeme verbatim.
// lexeme must already be a valid RFC 8259 number; Parse is the only
// place that should construct numbers from untrusted input.
func NewNumber(lexeme string) Value { return Value{Type: TypeNumber, Text: lexeme} }

// NewBool returns a boolean-typed Value.
func NewBool(b bool) Value { return Value{Type: TypeBool, Bool: b} }

// NewNull returns a null-typed Value.
func NewNull() Value { return Value{Type: TypeNull} }

// NewObject returns an object-typed Value with the given members, in
// the order given.
func NewObject(members ...Member) Value { return Value{Type: TypeObject, Object: members} }

// NewArray returns an array-typed Value with the given elements, in
// the order given.
func NewArray(values ...Value) Value { return Value{Type: TypeArray, Array: values} }

// Get returns the value of the first member of an object-typed Value
// whose key equals name. ok is false if v is not an object or has no
// such member.
func (v Value) Get(name string) (Value, bool) {
	if v.Type != TypeObject {
		return Value{}, false
	}
	for _, m := range v.Object {
		if m.Key == name {
			return m.Value, true
		}
	}
	return Value{}, false
}

// OutputShape names the tree shape that ToDict, ToTriples or ToSet
// produces, matching the
// -output option of the ns_json Tcl command family.
type OutputShape int

const (
	// ShapeDict renders plain nested maps/slices/strings; null becomes
	// NullSentinel and numeric/boolean lexemes become strings.
	ShapeDict OutputShape = iota
	// ShapeTriples renders a NAME/TYPE/VALUE tree that preserves every
	// node's JSON type alongside its value.
	ShapeTriples
	// ShapeSet renders a flattened list of escaped key-path/value pairs
	// plus ".type" sidecar entries, suitable for loading into a flat
	// key-value store (ns_set).
	ShapeSet
)

// TopConstraint controls whether Parse accepts a bare top-level scalar
// or requires the top-level value to be an object or array.
type TopConstraint int

const (
	// TopAny accepts any JSON value at the top level.
	TopAny TopConstraint = iota
	// TopContainer requires the top-level value to be an object or
	// array, matching Ns_JsonOptions' "-top container" mode.
	TopContainer
)

// Options configures Parse. Parse treats a MaxDepth of zero or less as
// the default 1000, so the zero value behaves like DefaultOptions;
// DefaultOptions is the usual starting point for overriding fields.
type Options struct {
	// MaxDepth bounds object/array nesting depth. Matches
	// Ns_JsonOptions.maxDepth, default 1000.
	MaxDepth int
	// MaxString bounds the decoded length of any single string value,
	// in bytes. Zero means unlimited, matching the C default.
	MaxString int
	// MaxContainer bounds the number of members/elements any single
	// object or array may hold. Zero means unlimited.
	MaxContainer int
	// Top constrains the type of the top-level value.
	Top TopConstraint
	// ValidateNumbers requires that any number lexeme with a fraction
	// or exponent part parse as a finite double (no Inf/NaN). Numbers
	// with no fraction or exponent (plain integers) are never checked,
	// since they cannot produce a non-finite float64.
	ValidateNumbers bool
}

// DefaultOptions returns the parser defaults used by Ns_JsonParse:
// MaxDepth 1000, no string or container limit, top-level value may be
// any JSON type, number validation off.
func DefaultOptions() Options {
	return Options{MaxDepth: 1000, Top: TopAny}
}
