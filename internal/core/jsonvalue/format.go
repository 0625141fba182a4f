package jsonvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/zeusync/devkit/pkg/generic"
)

// Indent selects the serialization layout.
type Indent uint8

const (
	Indent2 Indent = iota
	Indent4
	IndentTab
	Minified
)

// ParseIndent accepts "2", "4", "tab" and "min"/"minified"/"0".
func ParseIndent(s string) (Indent, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "2":
		return Indent2, nil
	case "4":
		return Indent4, nil
	case "tab", "\t":
		return IndentTab, nil
	case "0", "min", "minified", "minify":
		return Minified, nil
	default:
		return Indent2, fmt.Errorf("unknown indent %q", s)
	}
}

func (i Indent) unit() string {
	switch i {
	case Indent4:
		return "    "
	case IndentTab:
		return "\t"
	case Minified:
		return ""
	default:
		return "  "
	}
}

func (i Indent) String() string {
	switch i {
	case Indent4:
		return "4"
	case IndentTab:
		return "tab"
	case Minified:
		return "minified"
	default:
		return "2"
	}
}

// Format serializes v. Pretty layouts put one member per line; empty
// containers stay on one line.
func Format(v Value, indent Indent) string {
	w := &writer{buf: buffers.Get(), unit: indent.unit(), pretty: indent != Minified}
	defer buffers.Put(w.buf)
	w.value(v, 0)
	return w.buf.String()
}

// Canonical is the minified form with object keys sorted, suitable as a
// stable identity for a value.
func Canonical(v Value) string {
	w := &writer{buf: buffers.Get(), sortKeys: true}
	defer buffers.Put(w.buf)
	w.value(v, 0)
	return w.buf.String()
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(Format(v, Minified)), nil
}

var buffers = generic.NewPool(func() *bytes.Buffer { return new(bytes.Buffer) }, (*bytes.Buffer).Reset)

type writer struct {
	buf      *bytes.Buffer
	unit     string
	pretty   bool
	sortKeys bool
}

func (w *writer) newline(depth int) {
	if !w.pretty {
		return
	}
	w.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		w.buf.WriteString(w.unit)
	}
}

func (w *writer) value(v Value, depth int) {
	switch v.kind {
	case KindNull:
		w.buf.WriteString("null")
	case KindBool:
		w.buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		w.buf.WriteString(FormatNumber(v.num))
	case KindString:
		w.buf.WriteString(QuoteString(v.str))
	case KindArray:
		if len(v.items) == 0 {
			w.buf.WriteString("[]")
			return
		}
		w.buf.WriteByte('[')
		for i, it := range v.items {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.newline(depth + 1)
			w.value(it, depth+1)
		}
		w.newline(depth)
		w.buf.WriteByte(']')
	case KindObject:
		if len(v.keys) == 0 {
			w.buf.WriteString("{}")
			return
		}
		keys := v.keys
		if w.sortKeys {
			keys = append([]string(nil), v.keys...)
			sort.Strings(keys)
		}
		w.buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				w.buf.WriteByte(',')
			}
			w.newline(depth + 1)
			w.buf.WriteString(QuoteString(k))
			w.buf.WriteByte(':')
			if w.pretty {
				w.buf.WriteByte(' ')
			}
			w.value(v.fields[k], depth+1)
		}
		w.newline(depth)
		w.buf.WriteByte('}')
	}
}

// FormatNumber renders f the way JSON.stringify does: integral values
// without a fraction, exponent form only for very large or small magnitudes.
func FormatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs < 1e21 && abs >= 1e-6 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	// 1e-07 -> 1e-7
	if n := len(s); n >= 4 && s[n-4] == 'e' && s[n-2] == '0' {
		s = s[:n-2] + s[n-1:]
	}
	return s
}

// QuoteString returns s as a JSON string literal without HTML escaping.
func QuoteString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
