// Package convert turns JSON values into other text formats and derives
// descriptive data (schema, statistics) from them.
package convert

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/devkit/internal/core/jsonvalue"
)

var (
	ErrNotTabular = errors.New("value cannot be represented as a table")
	ErrBadIndent  = errors.New("yaml indent must be between 2 and 8")
)

// ToYAML renders v as a YAML document, keeping object key order.
func ToYAML(v jsonvalue.Value, indent int) (string, error) {
	if indent == 0 {
		indent = 2
	}
	if indent < 2 || indent > 8 {
		return "", ErrBadIndent
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(toYAMLNode(v)); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	return buf.String(), nil
}

func toYAMLNode(v jsonvalue.Value) *yaml.Node {
	switch v.Kind() {
	case jsonvalue.KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case jsonvalue.KindBool:
		val := "false"
		if v.AsBool() {
			val = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: val}
	case jsonvalue.KindNumber:
		tag := "!!float"
		s := jsonvalue.FormatNumber(v.AsNumber())
		if !strings.ContainsAny(s, ".eE") {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: s}
	case jsonvalue.KindString:
		n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.AsString()}
		if strings.Contains(v.AsString(), "\n") {
			n.Style = yaml.LiteralStyle
		}
		return n
	case jsonvalue.KindArray:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if v.Len() == 0 {
			n.Style = yaml.FlowStyle
		}
		for _, it := range v.Items() {
			n.Content = append(n.Content, toYAMLNode(it))
		}
		return n
	default:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if v.Len() == 0 {
			n.Style = yaml.FlowStyle
		}
		for _, m := range v.Members() {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key},
				toYAMLNode(m.Value),
			)
		}
		return n
	}
}

// FromYAML parses a YAML document into a JSON value. Mapping order is kept.
func FromYAML(text string) (jsonvalue.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return jsonvalue.Value{}, fmt.Errorf("parse yaml: %w", err)
	}
	if doc.Kind == 0 {
		return jsonvalue.Null(), nil
	}
	return fromYAMLNode(&doc)
}

func fromYAMLNode(n *yaml.Node) (jsonvalue.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return jsonvalue.Null(), nil
		}
		return fromYAMLNode(n.Content[0])
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)
	case yaml.SequenceNode:
		items := make([]jsonvalue.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAMLNode(c)
			if err != nil {
				return jsonvalue.Value{}, err
			}
			items = append(items, v)
		}
		return jsonvalue.Array(items...), nil
	case yaml.MappingNode:
		members := make([]jsonvalue.Member, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := fromYAMLNode(n.Content[i+1])
			if err != nil {
				return jsonvalue.Value{}, err
			}
			members = append(members, jsonvalue.Member{Key: n.Content[i].Value, Value: v})
		}
		return jsonvalue.Object(members...), nil
	default:
		if n.Tag == "!!timestamp" || n.Tag == "!!binary" {
			return jsonvalue.String(n.Value), nil
		}
		var x any
		if err := n.Decode(&x); err != nil {
			return jsonvalue.Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return jsonvalue.FromAny(x)
	}
}
