package config

import (
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"

	goyaml "github.com/goccy/go-yaml"

	"github.com/macropower/tabula/pkg/keys"
	"github.com/macropower/tabula/pkg/pagination"
	"github.com/macropower/tabula/pkg/ui/navigator"
	"github.com/macropower/tabula/pkg/ui/table"
	"github.com/macropower/tabula/pkg/yaml"
)

const (
	APIVersion = "tabula.jacobcolvin.com/v1beta1"
	Kind       = "Configuration"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")

	ValidAPIVersions = []string{APIVersion}
	ValidKinds       = []string{Kind}
)

//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// UI holds the theme and key bindings.
	UI *UIConfig `json:"ui,omitempty" jsonschema:"title=UI"`
	// Pagination overrides the automatic pagination policy. Setting it, even
	// empty, turns pagination on for every dataset.
	Pagination *pagination.Override `json:"pagination,omitempty" jsonschema:"title=Pagination"`
	// FallbackPageSize is the page size used when Pagination does not set one.
	FallbackPageSize *int `json:"fallbackPageSize,omitempty" jsonschema:"title=Fallback Page Size,minimum=1"`
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"required,title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"required,title=Kind"`
}

type UIConfig struct {
	// Theme is a chroma style name, or one of "auto", "dark" and "light".
	Theme string `json:"theme,omitempty" jsonschema:"title=Theme"`
	// KeyBinds overrides the default key bindings.
	KeyBinds *KeyBinds `json:"keybinds,omitempty" jsonschema:"title=Key Bindings"`
	// Themes registers custom themes, which can then be selected with Theme.
	Themes map[string]*ThemeConfig `json:"themes,omitempty" jsonschema:"title=Themes"`
}

type KeyBinds struct {
	Navigation *navigator.KeyBinds `json:"navigation,omitempty" jsonschema:"title=Navigation"`
	Table      *table.KeyBinds     `json:"table,omitempty" jsonschema:"title=Table"`
}

func New() *Config {
	c := &Config{
		APIVersion: APIVersion,
		Kind:       Kind,
	}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.UI == nil {
		c.UI = &UIConfig{}
	}

	if c.UI.Theme == "" {
		c.UI.Theme = "auto"
	}

	if c.UI.KeyBinds == nil {
		c.UI.KeyBinds = &KeyBinds{}
	}

	if c.UI.KeyBinds.Navigation == nil {
		c.UI.KeyBinds.Navigation = &navigator.KeyBinds{}
	}

	if c.UI.KeyBinds.Table == nil {
		c.UI.KeyBinds.Table = &table.KeyBinds{}
	}

	c.UI.KeyBinds.Navigation.EnsureDefaults()
	c.UI.KeyBinds.Table.EnsureDefaults()

	if c.FallbackPageSize == nil {
		size := pagination.DefaultPageSize
		c.FallbackPageSize = &size
	}
}

// Validate checks the requirements that the schema cannot express. It must be
// called after [Config.EnsureDefaults].
// Validate reports the first problem the schema cannot catch. The returned
// error is a [yaml.Error] pointing at the offending node.
func (c *Config) Validate() error {
	pb := yaml.NewPathBuilder()

	err := c.Pagination.Validate()
	if err != nil {
		return invalid(err, pb.Root().Child("pagination").Build())
	}

	if c.FallbackPageSize != nil && *c.FallbackPageSize <= 0 {
		return invalid(fmt.Errorf("must be positive, got %d", *c.FallbackPageSize),
			pb.Root().Child("fallbackPageSize").Build())
	}

	if c.UI == nil {
		return nil
	}

	for name, tc := range c.UI.Themes {
		_, err := tc.Entries()
		if err != nil {
			return invalid(err, pb.Root().Child("ui").Child("themes").Child(name).Build())
		}
	}

	if kb := c.UI.KeyBinds; kb != nil {
		err = keys.ValidateBinds(kb.Navigation.GetKeyBinds(), kb.Table.GetKeyBinds())
		if err != nil {
			return invalid(err, pb.Root().Child("ui").Child("keybinds").Build())
		}
	}

	return nil
}

func invalid(err error, path *goyaml.Path) error {
	return yaml.NewError(fmt.Errorf("%w: %w", ErrInvalidConfig, err), yaml.WithPath(path))
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	apiVersion, ok := jss.Properties.Get("apiVersion")
	if !ok {
		panic("apiVersion property not found in schema")
	}

	for _, version := range ValidAPIVersions {
		apiVersion.OneOf = append(apiVersion.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: version,
			Title: "API Version",
		})
	}

	_, _ = jss.Properties.Set("apiVersion", apiVersion)

	kind, ok := jss.Properties.Get("kind")
	if !ok {
		panic("kind property not found in schema")
	}

	for _, kindValue := range ValidKinds {
		kind.OneOf = append(kind.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: kindValue,
			Title: "Kind",
		})
	}

	_, _ = jss.Properties.Set("kind", kind)
}

func (c *Config) MarshalYAML() ([]byte, error) {
	data, err := yaml.Marshal(*c)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return data, nil
}
