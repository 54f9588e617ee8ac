// Package documents decodes model documents and dispatches them to the
// engine by kind. A document is a YAML (or JSON) file naming the kind of
// the model it carries:
//
//	kind: task
//	model:
//	  type_id: bug
//	  label: Broken export
package documents

import (
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/modelsync/pkg/errors"
	"github.com/agentstation/modelsync/pkg/models"
)

// Document is an undecoded model together with its kind.
type Document struct {
	Kind models.Kind
	File string // Source file, for diagnostics
	data []byte
}

// header is the part of a document read before the kind is known.
type header struct {
	Kind string `yaml:"kind"`
}

// Decode reads the kind of a document. The model itself is decoded once a
// handler for that kind is chosen.
func Decode(file string, data []byte) (*Document, error) {
	var h header
	if err := yaml.Unmarshal(data, &h); err != nil {
		return nil, errors.WrapParse("yaml", file, err)
	}
	kind := strings.TrimSpace(h.Kind)
	if kind == "" {
		return nil, errors.NewParseError("yaml", file, "document has no kind", nil)
	}
	return &Document{Kind: models.Kind(kind), File: file, data: data}, nil
}

// Load reads and decodes a document file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return Decode(path, data)
}

// decodeModel decodes the model section of doc into a fresh *T.
func decodeModel[T any](doc *Document) (*T, error) {
	var body struct {
		Model *T `yaml:"model"`
	}
	if err := yaml.Unmarshal(doc.data, &body); err != nil {
		return nil, errors.WrapParse("yaml", doc.File, err)
	}
	if body.Model == nil {
		return nil, errors.NewParseError("yaml", doc.File, "document has no model", nil)
	}
	return body.Model, nil
}
