package workspace

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zeusync/devkit/internal/core/convert"
	"github.com/zeusync/devkit/internal/core/diff"
	"github.com/zeusync/devkit/internal/core/jsonvalue"
)

var ErrUnknownFormat = errors.New("unknown export format")

type Format string

const (
	FormatDelta   Format = "delta"
	FormatChanges Format = "changes"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatCSV     Format = "csv"
)

const (
	mimeJSON = "application/json"
	mimeYAML = "application/yaml"
	mimeCSV  = "text/csv"
)

// Export is a downloadable payload with a suggested file name.
type Export struct {
	Payload  string
	Filename string
	MIMEType string
}

// Export renders the editor's document. Only json, yaml and csv apply to
// a single side.
func (e *Editor) Export(format Format, indent jsonvalue.Indent) (Export, error) {
	v, err := e.Parse()
	if err != nil {
		return Export{}, err
	}
	return exportValue(v, e.name, format, indent)
}

// Export renders the comparison. Delta and changes describe the
// difference; the other formats export the right side.
func (c *Comparison) Export(format Format, indent jsonvalue.Indent) (Export, error) {
	r, err := c.Compare()
	if err != nil {
		return Export{}, err
	}

	switch format {
	case FormatDelta:
		payload, err := marshalIndent(r.Delta, indent)
		if err != nil {
			return Export{}, err
		}
		return Export{Payload: payload, Filename: "diff-delta.json", MIMEType: mimeJSON}, nil
	case FormatChanges:
		changes := r.Changes
		if changes == nil {
			changes = []diff.ChangeRecord{}
		}
		payload, err := marshalIndent(changes, indent)
		if err != nil {
			return Export{}, err
		}
		return Export{Payload: payload, Filename: "diff-changes.json", MIMEType: mimeJSON}, nil
	default:
		return exportValue(r.Right, c.Right.name, format, indent)
	}
}

func exportValue(v jsonvalue.Value, name string, format Format, indent jsonvalue.Indent) (Export, error) {
	switch format {
	case FormatJSON:
		return Export{Payload: jsonvalue.Format(v, indent), Filename: name + ".json", MIMEType: mimeJSON}, nil
	case FormatYAML:
		payload, err := convert.ToYAML(v, yamlIndent(indent))
		if err != nil {
			return Export{}, err
		}
		return Export{Payload: payload, Filename: name + ".yaml", MIMEType: mimeYAML}, nil
	case FormatCSV:
		payload, err := convert.ToCSV(v)
		if err != nil {
			return Export{}, err
		}
		return Export{Payload: payload, Filename: name + ".csv", MIMEType: mimeCSV}, nil
	default:
		return Export{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func yamlIndent(indent jsonvalue.Indent) int {
	if indent == jsonvalue.Indent4 {
		return 4
	}
	return 2
}

// marshalIndent encodes x and re-lays it out with indent so exports follow
// the same layout as formatted documents.
func marshalIndent(x any, indent jsonvalue.Indent) (string, error) {
	b, err := json.Marshal(x)
	if err != nil {
		return "", fmt.Errorf("marshal export: %w", err)
	}
	v, err := jsonvalue.ParseBytes(b)
	if err != nil {
		return "", fmt.Errorf("marshal export: %w", err)
	}
	return jsonvalue.Format(v, indent), nil
}
