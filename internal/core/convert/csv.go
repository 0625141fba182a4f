package convert

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/zeusync/devkit/internal/core/jsonvalue"
)

// ToCSV renders tabular JSON as CSV:
//
//   - an array of objects becomes one row per object, with the union of keys
//     (first-seen order) as the header;
//   - a single object becomes a one-row table;
//   - an array of scalars becomes a single "value" column.
//
// Nested containers are written as minified JSON and null as an empty cell.
func ToCSV(v jsonvalue.Value) (string, error) {
	var rows []jsonvalue.Value
	switch v.Kind() {
	case jsonvalue.KindObject:
		rows = []jsonvalue.Value{v}
	case jsonvalue.KindArray:
		rows = v.Items()
	default:
		return "", fmt.Errorf("%w: top-level %s", ErrNotTabular, v.Kind())
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if len(rows) > 0 && allScalars(rows) {
		if err := w.Write([]string{"value"}); err != nil {
			return "", err
		}
		for _, r := range rows {
			if err := w.Write([]string{cell(r)}); err != nil {
				return "", err
			}
		}
		w.Flush()
		return buf.String(), w.Error()
	}

	var header []string
	seen := make(map[string]struct{})
	for i, r := range rows {
		if r.Kind() != jsonvalue.KindObject {
			return "", fmt.Errorf("%w: row %d is %s, not object", ErrNotTabular, i, r.Kind())
		}
		for _, k := range r.Keys() {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				header = append(header, k)
			}
		}
	}

	if len(header) == 0 {
		return "", nil
	}

	if err := w.Write(header); err != nil {
		return "", err
	}
	record := make([]string, len(header))
	for _, r := range rows {
		for i, k := range header {
			f, ok := r.Get(k)
			if !ok {
				record[i] = ""
				continue
			}
			record[i] = cell(f)
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

func allScalars(rows []jsonvalue.Value) bool {
	for _, r := range rows {
		if r.Kind().IsContainer() {
			return false
		}
	}
	return true
}

func cell(v jsonvalue.Value) string {
	switch v.Kind() {
	case jsonvalue.KindNull:
		return ""
	case jsonvalue.KindString:
		return v.AsString()
	default:
		return jsonvalue.Format(v, jsonvalue.Minified)
	}
}
