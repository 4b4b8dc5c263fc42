package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	_ "embed"

	"github.com/macropower/tabula/pkg/ui/theme"
	"github.com/macropower/tabula/pkg/yaml"
)

//go:embed config.yaml
var defaultConfigYAML []byte

// Validator validates configuration data against a schema.
type Validator interface {
	Validate(data any) error
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*Loader)

// WithValidator sets a custom validator.
func WithValidator(v Validator) LoaderOpt {
	return func(l *Loader) {
		l.validator = v
	}
}

// WithThemeFromData extracts the theme from the config data for error formatting.
func WithThemeFromData() LoaderOpt {
	return func(l *Loader) {
		l.theme = getTheme(l.data)
	}
}

// Loader handles validation, YAML parsing, and error formatting for [Config].
type Loader struct {
	validator Validator
	theme     *theme.Theme
	yamlError *yaml.ErrorWrapper
	data      []byte
}

// NewLoaderFromBytes creates a [Loader] from byte data.
func NewLoaderFromBytes(data []byte, opts ...LoaderOpt) *Loader {
	l := &Loader{
		data:      data,
		validator: SchemaValidator{},
		theme:     theme.Default,
	}
	for _, opt := range opts {
		opt(l)
	}

	l.yamlError = yaml.NewErrorWrapper(
		yaml.WithLineStyle(l.theme.ErrorStyle),
		yaml.WithSource(data),
		yaml.WithSourceLines(4),
	)

	return l
}

// NewLoaderFromFile creates a [Loader] from a file path.
func NewLoaderFromFile(path string, opts ...LoaderOpt) (*Loader, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return NewLoaderFromBytes(data, opts...), nil
}

// Validate validates the configuration data against the schema, without
// loading it into a [Config].
func (l *Loader) Validate() error {
	var anyConfig any

	err := yaml.Unmarshal(l.data, &anyConfig)
	if err != nil {
		return l.yamlError.Wrap(err)
	}

	if l.validator != nil {
		err = l.validator.Validate(anyConfig)
		if err != nil {
			return l.yamlError.Wrap(err)
		}
	}

	return nil
}

// Load parses the configuration, fills in defaults and checks the
// requirements that the schema cannot express.
func (l *Loader) Load() (*Config, error) {
	c := &Config{}

	err := yaml.Unmarshal(l.data, c)
	if err != nil {
		return nil, l.yamlError.Wrap(err)
	}

	c.EnsureDefaults()

	err = c.Validate()
	if err != nil {
		return nil, l.yamlError.Wrap(err)
	}

	return c, nil
}

// GetTheme returns the theme for error formatting.
func (l *Loader) GetTheme() *theme.Theme {
	return l.theme
}

// WriteDefaultConfig writes the embedded default config.yaml and the JSON
// schema to the specified path. An existing file is kept unless force is
// set, in which case it is moved to a backup first.
func WriteDefaultConfig(path string, force bool) error {
	configExists := false

	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		switch {
		case err == nil && pathInfo.Mode().IsRegular():
			configExists = true
		case pathInfo.IsDir():
			return fmt.Errorf("%s: path is a directory", path)
		default:
			return fmt.Errorf("%s: unknown file state", path)
		}
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if configExists && force {
		backupFile := fmt.Sprintf("%s.%d.old", filepath.Base(path), time.Now().UnixNano())
		backupPath := filepath.Join(filepath.Dir(path), backupFile)
		slog.Info("backing up existing config file",
			slog.String("path", backupPath),
		)

		err = os.Rename(path, backupPath)
		if err != nil {
			return fmt.Errorf("rename existing config file to backup: %w", err)
		}

		configExists = false
	}

	if configExists {
		slog.Debug("configuration file already exists, skipping write",
			slog.String("path", path),
		)
	} else {
		slog.Info("write default configuration",
			slog.String("path", path),
		)

		err = os.WriteFile(path, defaultConfigYAML, 0o600)
		if err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	}

	schemaJSON, err := Schema()
	if err != nil {
		return err
	}

	schemaPath := filepath.Join(filepath.Dir(path), SchemaFile)
	slog.Debug("write JSON schema",
		slog.String("path", schemaPath),
	)

	err = os.WriteFile(schemaPath, schemaJSON, 0o600)
	if err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}

	return nil
}

// GetPath returns the path of the user's config file. It checks
// $XDG_CONFIG_HOME first, then falls back to ~/.config, and finally to a temp
// directory.
func GetPath() string {
	if xdgHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgHome != "" {
		return filepath.Join(xdgHome, "tabula", "config.yaml")
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", "tabula", "config.yaml")
	}

	tmpConfig := filepath.Join(os.TempDir(), "tabula", "config.yaml")

	slog.Warn("could not determine user config directory, using temp path for config",
		slog.String("path", tmpConfig),
		slog.Any("error", fmt.Errorf("$XDG_CONFIG_HOME is unset, fall back to home directory: %w", err)),
	)

	return tmpConfig
}

func readFile(path string) ([]byte, error) {
	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		if err == nil && pathInfo.IsDir() {
			return nil, fmt.Errorf("%s: path is a directory", path)
		}
		if err == nil && !pathInfo.Mode().IsRegular() {
			return nil, fmt.Errorf("%s: unknown file state", path)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

func getTheme(data []byte) *theme.Theme {
	var themeName string

	path := yaml.NewPathBuilder().Root().Child("ui").Child("theme").Build()

	err := path.Read(bytes.NewReader(data), &themeName)
	if err == nil {
		return theme.New(themeName)
	}

	slog.Debug("could not read theme, config might be invalid")

	// Fall back to a regex, so that errors in malformed YAML can still be
	// styled with the configured theme.
	themeName = extractThemeWithRegex(data)
	if themeName != "" {
		slog.Debug("extracted theme using regex fallback", slog.String("theme", themeName))
		return theme.New(themeName)
	}

	return theme.Default
}

var (
	uiSectionRe = regexp.MustCompile(`(?m)^ui:\s*$((?:\n[ \t]+.*)*)`)
	themeRe     = regexp.MustCompile(`\n[ \t]+theme:\s*(?:"([^"#\n]+)"|'([^'#\n]+)'|([^\s#\n]+))`)
)

// extractThemeWithRegex looks for the pattern:
//
//	ui:
//	  foo: bar
//	  theme: <value>
//
// And returns the (optionally quoted) theme value.
func extractThemeWithRegex(data []byte) string {
	uiMatches := uiSectionRe.FindStringSubmatch(string(data))
	if len(uiMatches) < 2 {
		return ""
	}

	themeMatches := themeRe.FindStringSubmatch(uiMatches[1])
	if len(themeMatches) < 4 {
		return ""
	}

	for _, m := range themeMatches[1:4] {
		if m != "" {
			return strings.TrimSpace(m)
		}
	}

	return ""
}
