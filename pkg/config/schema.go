package config

import (
	"fmt"
	"sync"

	"github.com/macropower/tabula/pkg/schema"
	"github.com/macropower/tabula/pkg/yaml"
)

const (
	SchemaFile = "config.v1beta1.json"
	SchemaID   = "https://jacobcolvin.com/tabula/" + SchemaFile
)

var compileValidator = sync.OnceValues(func() (*yaml.Validator, error) {
	data, err := Schema()
	if err != nil {
		return nil, err
	}

	v, err := yaml.NewValidator(SchemaID, data)
	if err != nil {
		return nil, fmt.Errorf("compile config schema: %w", err)
	}

	return v, nil
})

// Schema returns the JSON schema of [Config].
func Schema() ([]byte, error) {
	data, err := schema.NewGenerator(&Config{}, SchemaID).Generate()
	if err != nil {
		return nil, fmt.Errorf("generate config schema: %w", err)
	}

	return data, nil
}

// SchemaValidator validates decoded YAML against [Schema].
type SchemaValidator struct{}

func (SchemaValidator) Validate(data any) error {
	v, err := compileValidator()
	if err != nil {
		return err
	}

	return v.Validate(data) //nolint:wrapcheck // Keep the path information.
}
