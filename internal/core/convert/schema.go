package convert

import (
	"math"
	"sort"

	"github.com/zeusync/devkit/internal/core/jsonvalue"
)

// Schema is a JSON-Schema-like description inferred from a sample value.
// Type holds one entry unless samples disagreed; "integer" is reported for
// whole numbers and widened to "number" when mixed with fractions.
type Schema struct {
	Type       []string           `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
}

// InferSchema describes v. Arrays merge the schemas of all their items;
// an object key is required only when every sampled object has it.
func InferSchema(v jsonvalue.Value) *Schema {
	switch v.Kind() {
	case jsonvalue.KindObject:
		s := &Schema{Type: []string{"object"}, Properties: make(map[string]*Schema, v.Len())}
		for _, m := range v.Members() {
			s.Properties[m.Key] = InferSchema(m.Value)
		}
		s.Required = v.SortedKeys()
		return s
	case jsonvalue.KindArray:
		s := &Schema{Type: []string{"array"}}
		for _, it := range v.Items() {
			s.Items = merge(s.Items, InferSchema(it))
		}
		return s
	case jsonvalue.KindNumber:
		n := v.AsNumber()
		if n == math.Trunc(n) {
			return &Schema{Type: []string{"integer"}}
		}
		return &Schema{Type: []string{"number"}}
	default:
		return &Schema{Type: []string{v.Kind().String()}}
	}
}

// InferSchemaAll describes documents that share one shape, merging them
// the way InferSchema merges array items. It returns nil for no samples.
func InferSchemaAll(samples ...jsonvalue.Value) *Schema {
	var out *Schema
	for _, v := range samples {
		out = merge(out, InferSchema(v))
	}
	return out
}

func merge(a, b *Schema) *Schema {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	out := &Schema{Type: unionTypes(a.Type, b.Type)}

	if a.Properties != nil || b.Properties != nil {
		out.Properties = make(map[string]*Schema)
		for k, p := range a.Properties {
			out.Properties[k] = p
		}
		for k, p := range b.Properties {
			out.Properties[k] = merge(out.Properties[k], p)
		}
		out.Required = intersect(a, b)
	}

	if a.Items != nil || b.Items != nil {
		out.Items = merge(a.Items, b.Items)
	}
	return out
}

// intersect keeps keys required on both sides; a side that was not an
// object sample does not constrain the result.
func intersect(a, b *Schema) []string {
	if a.Properties == nil {
		return b.Required
	}
	if b.Properties == nil {
		return a.Required
	}
	inB := make(map[string]struct{}, len(b.Required))
	for _, k := range b.Required {
		inB[k] = struct{}{}
	}
	var out []string
	for _, k := range a.Required {
		if _, ok := inB[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

func unionTypes(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, t := range a {
		set[t] = struct{}{}
	}
	for _, t := range b {
		set[t] = struct{}{}
	}
	if _, ok := set["number"]; ok {
		delete(set, "integer")
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
