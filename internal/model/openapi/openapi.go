package openapi

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Primosic/validador-opin-2025/internal/model"
	"gopkg.in/yaml.v3"
)

// File is the wire shape of an OpenAPI document, reduced to the parts the
// engine consumes. Everything else (paths, servers, descriptions) is ignored
// by the YAML decoder.
type File struct {
	Info       Info       `yaml:"info"`
	Components Components `yaml:"components"`
}

type Info struct {
	Title string `yaml:"title"`
}

type Components struct {
	Schemas map[string]*Schema `yaml:"schemas"`
}

// Schema is one schema node as it appears on the wire. An allOf element may
// carry both a $ref and a properties mapping at the same time; both are kept.
type Schema struct {
	Type       string             `yaml:"type"`
	Ref        string             `yaml:"$ref"`
	MaxLength  *int               `yaml:"maxLength"`
	Enum       []any              `yaml:"enum"`
	Properties map[string]*Schema `yaml:"properties"`
	Required   []string           `yaml:"required"`
	AllOf      []*Schema          `yaml:"allOf"`
	Items      *Schema            `yaml:"items"`
}

// ReadDocument loads one OpenAPI YAML file into a model.Document. A file
// without component schemas yields a document with an empty schema mapping,
// not an error; deciding what that means is the caller's business.
func ReadDocument(filePath string) (*model.Document, error) {
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf(`failed to read OpenAPI file "%s": %w`, filePath, err)
	}

	var file File
	if err := yaml.Unmarshal(fileData, &file); err != nil {
		return nil, fmt.Errorf(`failed to unmarshal OpenAPI file "%s": %w`, filePath, err)
	}

	doc := &model.Document{
		Source:  filePath,
		APIName: strings.TrimSpace(file.Info.Title),
		Schemas: make(map[string]*model.Fragment, len(file.Components.Schemas)),
	}

	for name, schema := range file.Components.Schemas {
		doc.Schemas[name] = toFragment(schema)
	}

	return doc, nil
}

// FallbackAPIName derives the group name used when a document declares no
// API name: the file's base name without its extension.
func FallbackAPIName(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// toFragment maps a wire schema to the engine model. A null schema node
// ("field:" with no value) maps to a nil fragment so the deriver can treat it
// as malformed instead of silently classifying it.
func toFragment(schema *Schema) *model.Fragment {
	if schema == nil {
		return nil
	}

	frag := &model.Fragment{
		Type:      schema.Type,
		MaxLength: schema.MaxLength,
		Enum:      schema.Enum,
		Required:  schema.Required,
		Ref:       schema.Ref,
	}

	if schema.Properties != nil {
		frag.Properties = make(map[string]*model.Fragment, len(schema.Properties))
		for name, prop := range schema.Properties {
			frag.Properties[name] = toFragment(prop)
		}
	}

	if schema.AllOf != nil {
		frag.AllOf = make([]*model.Fragment, 0, len(schema.AllOf))
		for _, item := range schema.AllOf {
			frag.AllOf = append(frag.AllOf, toFragment(item))
		}
	}

	if schema.Items != nil {
		frag.Items = toFragment(schema.Items)
	}

	return frag
}
