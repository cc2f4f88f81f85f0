// Package transfer reads and writes the classification tree exchange file.
package transfer

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"fondspod/internal/archive"
)

// Format is an exchange file encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unsupported exchange format: %q", s)
	}
}

// FormatFromPath picks the format from the file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return f
	}
	return JSON
}

// node mirrors archive.ClassificationNode on the wire. A missing is_active
// means active.
type node struct {
	Code     string `json:"code" yaml:"code"`
	Name     string `json:"name" yaml:"name"`
	Active   *bool  `json:"is_active,omitempty" yaml:"is_active,omitempty"`
	Children []node `json:"children,omitempty" yaml:"children,omitempty"`
}

func toWire(in []*archive.ClassificationNode) []node {
	out := make([]node, 0, len(in))
	for _, n := range in {
		active := n.Active
		out = append(out, node{Code: n.Code, Name: n.Name, Active: &active, Children: toWire(n.Children)})
	}
	return out
}

func fromWire(in []node, path string) ([]*archive.ClassificationNode, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]*archive.ClassificationNode, 0, len(in))
	for i, w := range in {
		if strings.TrimSpace(w.Code) == "" {
			return nil, fmt.Errorf("%s[%d]: missing code", path, i)
		}
		if strings.TrimSpace(w.Name) == "" {
			return nil, fmt.Errorf("%s[%d]: missing name for %q", path, i, w.Code)
		}
		children, err := fromWire(w.Children, path+"/"+w.Code)
		if err != nil {
			return nil, err
		}
		n := &archive.ClassificationNode{Code: w.Code, Name: w.Name, Active: true, Children: children}
		if w.Active != nil {
			n.Active = *w.Active
		}
		out = append(out, n)
	}
	return out, nil
}

// Encode writes the tree to w.
func Encode(w io.Writer, format Format, tree []*archive.ClassificationNode) error {
	wire := toWire(tree)
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(wire); err != nil {
			return fmt.Errorf("encoding classifications as json: %w", err)
		}
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(wire); err != nil {
			return fmt.Errorf("encoding classifications as yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding classifications as yaml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported exchange format: %q", format)
	}
	return nil
}

// Decode reads a tree from r and checks every node has a code and a name.
func Decode(r io.Reader, format Format) ([]*archive.ClassificationNode, error) {
	var wire []node
	switch format {
	case JSON:
		if err := json.NewDecoder(r).Decode(&wire); err != nil {
			return nil, fmt.Errorf("decoding json classifications: %w", err)
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&wire); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decoding yaml classifications: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported exchange format: %q", format)
	}
	return fromWire(wire, "")
}
