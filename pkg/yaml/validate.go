package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator checks decoded documents against a compiled JSON schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schemaData, registered under url.
func NewValidator(url string, schemaData []byte) (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaData))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()

	err = c.AddResource(url, doc)
	if err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: s}, nil
}

func MustNewValidator(url string, schemaData []byte) *Validator {
	v, err := NewValidator(url, schemaData)
	if err != nil {
		panic(err)
	}

	return v
}

// Validate checks data, which should come from a [Decoder]. Violations are
// returned as an [Error] whose path is the deepest failing node.
func (v *Validator) Validate(data any) error {
	err := v.schema.Validate(data)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("schema validation: %w", err)
	}

	return &Error{
		Err:  verr,
		Path: pathOf(deepestLocation(verr)),
	}
}

func deepestLocation(err *jsonschema.ValidationError) []string {
	deepest := err.InstanceLocation
	for _, cause := range err.Causes {
		if loc := deepestLocation(cause); len(loc) > len(deepest) {
			deepest = loc
		}
	}

	return deepest
}

// pathOf converts a JSON pointer, split into its tokens, to a [yaml.Path].
// Numeric tokens are sequence indexes.
func pathOf(location []string) *yaml.Path {
	p := NewPathBuilder().Root()
	for _, part := range location {
		i, err := strconv.ParseUint(part, 10, 0)
		if err != nil {
			p = p.Child(part)

			continue
		}

		p = p.Index(uint(i))
	}

	return p.Build()
}
