// Package schema generates JSON schemas from Go configuration types.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Generator reflects a JSON schema from a Go value.
type Generator struct {
	v         any
	id        jsonschema.ID
	reflector *jsonschema.Reflector
}

// NewGenerator creates a [Generator] for v. The schema is published under id.
func NewGenerator(v any, id string) *Generator {
	return &Generator{
		v:  v,
		id: jsonschema.ID(id),
		reflector: &jsonschema.Reflector{
			DoNotReference:             true,
			RequiredFromJSONSchemaTags: true,
			AllowAdditionalProperties:  false,
		},
	}
}

// Schema returns the reflected schema.
func (g *Generator) Schema() *jsonschema.Schema {
	s := g.reflector.Reflect(g.v)
	s.ID = g.id

	return s
}

// Generate returns the reflected schema as indented JSON.
func (g *Generator) Generate() ([]byte, error) {
	data, err := json.MarshalIndent(g.Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return data, nil
}
