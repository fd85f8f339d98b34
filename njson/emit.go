package njson

import (
	"fmt"
	"strings"

	coreerrors "github.com/naviserver-project/naviserver-sub001/errors"
)

// MarshalOptions controls Marshal's text layout.
type MarshalOptions struct {
	// Indent, if non-empty, pretty-prints with one copy of Indent per
	// nesting level and a newline after every member/element. An empty
	// Indent produces the most compact representation.
	Indent string
	// ValidateNumbers re-validates every number-typed Value's lexeme as
	// a finite double before emitting it, catching a Value tree built
	// by hand (rather than by Parse) that carries a non-finite number.
	ValidateNumbers bool
}

// Marshal serializes v back to JSON text. With the zero MarshalOptions
// it produces compact output with no inter-token whitespace other than
// the single space after ':' and ',' that JsonAppendQuotedString's
// callers also emit. It returns an error only when ValidateNumbers
// rejects a number-typed Value's lexeme.
func Marshal(v Value, opts MarshalOptions) (string, error) {
	var b strings.Builder
	e := &emitter{b: &b, indent: opts.Indent, validateNumbers: opts.ValidateNumbers}
	if err := e.writeValue(v, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

type emitter struct {
	b               *strings.Builder
	indent          string
	validateNumbers bool
}

func (e *emitter) pretty() bool { return e.indent != "" }

func (e *emitter) newline(depth int) {
	if !e.pretty() {
		return
	}
	e.b.WriteByte('\n')
	for i := 0; i < depth; i++ {
		e.b.WriteString(e.indent)
	}
}

func (e *emitter) writeValue(v Value, depth int) error {
	switch v.Type {
	case TypeString:
		writeQuotedString(e.b, v.Text)
	case TypeNumber:
		if e.validateNumbers && numberLexemeHasFractionOrExponent(v.Text) && !isFiniteNumberLexeme(v.Text) {
			return coreerrors.NewParseError(coreerrors.ReasonNumberNotFinite, 0, "number is not a finite double: "+v.Text)
		}
		e.b.WriteString(v.Text)
	case TypeBool:
		if v.Bool {
			e.b.WriteString("true")
		} else {
			e.b.WriteString("false")
		}
	case TypeNull:
		e.b.WriteString("null")
	case TypeObject:
		return e.writeObject(v.Object, depth)
	case TypeArray:
		return e.writeArray(v.Array, depth)
	}
	return nil
}

func (e *emitter) writeObject(members []Member, depth int) error {
	e.b.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			e.b.WriteByte(',')
			if !e.pretty() {
				e.b.WriteByte(' ')
			}
		}
		e.newline(depth + 1)
		writeQuotedString(e.b, m.Key)
		e.b.WriteString(": ")
		if err := e.writeValue(m.Value, depth+1); err != nil {
			return err
		}
	}
	if len(members) > 0 {
		e.newline(depth)
	}
	e.b.WriteByte('}')
	return nil
}

func (e *emitter) writeArray(elems []Value, depth int) error {
	e.b.WriteByte('[')
	for i, v := range elems {
		if i > 0 {
			e.b.WriteByte(',')
			if !e.pretty() {
				e.b.WriteByte(' ')
			}
		}
		e.newline(depth + 1)
		if err := e.writeValue(v, depth+1); err != nil {
			return err
		}
	}
	if len(elems) > 0 {
		e.newline(depth)
	}
	e.b.WriteByte(']')
	return nil
}

// writeQuotedString appends s to b as a quoted JSON string, escaping
// the characters JsonAppendQuotedString escapes: the two structural
// characters, the named single-letter escapes, and every other
// control character below 0x20 as \u00XX.
func writeQuotedString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}
