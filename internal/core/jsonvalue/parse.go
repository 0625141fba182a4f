package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrEmptyInput   = errors.New("empty input")
	ErrTrailingData = errors.New("unexpected data after JSON value")
)

// ParseError describes malformed JSON text. Line and Column are 1-based.
type ParseError struct {
	Line   int
	Column int
	Offset int64
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes text into a Value, keeping object key order.
func Parse(text string) (Value, error) {
	if strings.TrimSpace(text) == "" {
		return Value{}, newParseError(text, 0, ErrEmptyInput)
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, newParseError(text, errorOffset(text, dec, err), err)
	}

	if _, err = dec.Token(); err == nil {
		return Value{}, newParseError(text, dec.InputOffset(), ErrTrailingData)
	} else if !errors.Is(err, io.EOF) {
		return Value{}, newParseError(text, errorOffset(text, dec, err), err)
	}

	return v, nil
}

// ParseBytes is Parse for a byte slice.
func ParseBytes(data []byte) (Value, error) {
	return Parse(string(data))
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, unexpectedEOF(err)
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil || math.IsInf(f, 0) {
			return Value{}, fmt.Errorf("number %s out of range", t)
		}
		return Number(f), nil
	case json.Delim:
		switch t {
		case '[':
			var items []Value
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if err := closeDelim(dec); err != nil {
				return Value{}, err
			}
			return Value{kind: KindArray, items: items}, nil
		case '{':
			obj := Value{kind: KindObject, fields: make(map[string]Value)}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, unexpectedEOF(err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key must be a string, got %v", keyTok)
				}
				member, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				if _, seen := obj.fields[key]; !seen {
					obj.keys = append(obj.keys, key)
				}
				obj.fields[key] = member
			}
			if err := closeDelim(dec); err != nil {
				return Value{}, err
			}
			return obj, nil
		}
	}

	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func closeDelim(dec *json.Decoder) error {
	_, err := dec.Token()
	return unexpectedEOF(err)
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// errorOffset locates err in text. Truncated input is reported at its end,
// not after the last complete token.
func errorOffset(text string, dec *json.Decoder, err error) int64 {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Offset
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return int64(len(text))
	}
	return dec.InputOffset()
}

func newParseError(text string, offset int64, err error) *ParseError {
	if offset > int64(len(text)) {
		offset = int64(len(text))
	}
	line, col := 1, 1
	for _, r := range text[:offset] {
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}

	msg := err.Error()
	if errors.Is(err, io.ErrUnexpectedEOF) {
		msg = "unexpected end of JSON input"
	}

	return &ParseError{Line: line, Column: col, Offset: offset, Msg: msg, Err: err}
}

// InvalidValueError is returned by FromAny for Go values that have no JSON form.
type InvalidValueError struct {
	Path   string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid JSON value at %s: %s", e.Path, e.Reason)
}

// FromAny converts decoded Go data (as produced by encoding/json or yaml
// decoders) into a Value. Map keys are sorted because Go maps carry no order.
func FromAny(x any) (Value, error) {
	return fromAny(x, "$")
}

func fromAny(x any, path string) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, &InvalidValueError{Path: path, Reason: err.Error()}
		}
		return finite(f, path)
	case float64:
		return finite(t, path)
	case float32:
		return finite(float64(t), path)
	case int:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case []any:
		items := make([]Value, len(t))
		for i, it := range t {
			v, err := fromAny(it, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return Value{kind: KindArray, items: items}, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, len(keys))
		for i, k := range keys {
			v, err := fromAny(t[k], path+"."+k)
			if err != nil {
				return Value{}, err
			}
			members[i] = Member{Key: k, Value: v}
		}
		return Object(members...), nil
	}

	return fromReflect(reflect.ValueOf(x), path)
}

func fromReflect(rv reflect.Value, path string) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return fromAny(rv.Elem().Interface(), path)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Number(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return finite(rv.Float(), path)
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null(), nil
		}
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return fromAny(items, path)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, &InvalidValueError{Path: path, Reason: "map key type " + rv.Type().Key().String() + " is not string"}
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return fromAny(m, path)
	}

	if !rv.IsValid() {
		return Null(), nil
	}
	return Value{}, &InvalidValueError{Path: path, Reason: "unsupported type " + rv.Type().String()}
}

func finite(f float64, path string) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, &InvalidValueError{Path: path, Reason: "non-finite number"}
	}
	return Number(f), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(string(bytes.TrimSpace(data)))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
