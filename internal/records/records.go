// Package records decodes flat record sets for the forest builder.
//
// Accepted shapes, in JSON or YAML:
//
//	[{"id": "a"}, {"id": "b", "parent_id": "a"}]
//	{"records": [{"id": "a"}, {"id": "b", "parent_id": "a"}]}
package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lvtree/tree"
)

// Record is the record type handled by the service: string ids, "" marks
// an absent parent. A "children" field on input is ignored: child lists
// belong to the builder.
type Record = tree.Item[string]

// Format names an input encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for an unsupported format name or extension.
var ErrUnknownFormat = errors.New("records: unknown format")

// envelope is the object form of a record set.
type envelope struct {
	Records []*Record `json:"records" yaml:"records"`
}

// ParseFormat maps "json", "yaml" or "yml" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath picks the format by file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}

	return ParseFormat(ext)
}

// Decode parses data as a record set in format f.
func Decode(data []byte, f Format) ([]*Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []*Record{}, nil
	}

	switch f {
	case FormatJSON:
		return decodeJSON(trimmed)
	case FormatYAML:
		return decodeYAML(trimmed)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Read decodes a record set from r.
func Read(r io.Reader, f Format) ([]*Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("records: read: %w", err)
	}

	return Decode(data, f)
}

// ReadFile decodes the record set at path; the extension picks the format.
func ReadFile(path string) ([]*Record, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("records: %w", err)
	}

	return Decode(data, f)
}

func decodeJSON(data []byte) ([]*Record, error) {
	if data[0] == '[' {
		var out []*Record
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("records: decode json: %w", err)
		}
		return Detach(out), nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("records: decode json: %w", err)
	}

	return Detach(env.Records), nil
}

func decodeYAML(data []byte) ([]*Record, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("records: decode yaml: %w", err)
	}
	if len(node.Content) == 0 {
		return []*Record{}, nil
	}

	var out []*Record
	if node.Content[0].Kind == yaml.SequenceNode {
		if err := node.Decode(&out); err != nil {
			return nil, fmt.Errorf("records: decode yaml: %w", err)
		}
		return Detach(out), nil
	}

	var env envelope
	if err := node.Decode(&env); err != nil {
		return nil, fmt.Errorf("records: decode yaml: %w", err)
	}

	return Detach(env.Records), nil
}

// Detach clears the child lists of recs, so nested records sent along with
// the input never enter a forest, and returns a non-nil slice.
func Detach(recs []*Record) []*Record {
	if recs == nil {
		return []*Record{}
	}
	for _, r := range recs {
		if r != nil {
			r.ChildNodes = nil
		}
	}

	return recs
}
