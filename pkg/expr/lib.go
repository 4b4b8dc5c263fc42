package expr

import (
	"log/slog"
	"math"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
	"github.com/sahilm/fuzzy"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Math(),
		ext.Strings(),
		ext.Lists(),

		cel.CrossTypeNumericComparisons(true),

		// `fuzzy` reports whether pattern fuzzy-matches text.
		// Example: fuzzy(row.name, "jdoe").
		cel.Function("fuzzy",
			cel.Overload("fuzzy_string_string", []*cel.Type{cel.StringType, cel.StringType}, cel.BoolType,
				cel.BinaryBinding(func(text, pattern ref.Val) ref.Val {
					textValue, ok := text.(types.String)
					if !ok {
						return types.NewErr("fuzzy: invalid text value")
					}

					patternValue, ok := pattern.(types.String)
					if !ok {
						return types.NewErr("fuzzy: invalid pattern value")
					}

					matches := fuzzy.Find(string(patternValue), []string{string(textValue)})

					return types.Bool(len(matches) > 0)
				}),
			),
		),

		// `yamlPath` parses a YAML (or JSON) document held in a cell and
		// extracts a value using a YAML path. Returns null if the document
		// or path is invalid, or if nothing is found.
		// Example: yamlPath(row.labels, "$.team") == "infra".
		cel.Function("yamlPath",
			cel.Overload("yaml_path", []*cel.Type{cel.StringType, cel.StringType}, cel.DynType,
				cel.BinaryBinding(func(doc, yamlPathExpr ref.Val) ref.Val {
					docStr, ok := doc.(types.String)
					if !ok {
						return types.NewErr("yamlPath: invalid document")
					}

					yamlPathStr, ok := yamlPathExpr.(types.String)
					if !ok {
						return types.NewErr("yamlPath: invalid yaml path")
					}

					logger := slog.With(slog.String("yamlPath", string(yamlPathStr)))

					path, err := yaml.PathString(string(yamlPathStr))
					if err != nil {
						logger.Debug("invalid YAML path, returning null",
							slog.Any("error", err),
						)

						return types.NullValue
					}

					var value any

					err = path.Read(strings.NewReader(string(docStr)), &value)
					if err != nil {
						logger.Debug("failed to extract value from YAML, returning null",
							slog.Any("error", err),
						)

						return types.NullValue
					}

					return ConvertToCELValue(value)
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}

// ConvertToCELValue converts a Go value to a CEL value.
// Handles common YAML types and returns null for unsupported types.
//
//nolint:ireturn // Following CEL's function signature.
func ConvertToCELValue(value any) ref.Val {
	switch v := value.(type) {
	case nil:
		return types.NullValue

	case bool:
		return types.Bool(v)

	case int:
		return types.Int(v)

	case int8:
		return types.Int(int64(v))

	case int16:
		return types.Int(int64(v))

	case int32:
		return types.Int(int64(v))

	case int64:
		return types.Int(v)

	case uint:
		// Check for overflow when converting to int64.
		if v > math.MaxInt64 {
			return types.Double(float64(v))
		}

		return types.Int(int64(v))

	case uint8:
		return types.Int(int64(v))

	case uint16:
		return types.Int(int64(v))

	case uint32:
		return types.Int(int64(v))

	case uint64:
		// Check for overflow when converting to int64.
		if v > math.MaxInt64 {
			return types.Double(float64(v))
		}

		return types.Int(int64(v))

	case float32:
		return types.Double(float64(v))

	case float64:
		return types.Double(v)

	case string:
		return types.String(v)

	case []any:
		// Convert slice to CEL list.
		celValues := make([]ref.Val, len(v))
		for i, item := range v {
			celValues[i] = ConvertToCELValue(item)
		}

		return types.NewDynamicList(types.DefaultTypeAdapter, celValues)

	case map[any]any:
		// Convert map to CEL map.
		celMap := make(map[ref.Val]ref.Val)
		for key, val := range v {
			celKey := ConvertToCELValue(key)
			celVal := ConvertToCELValue(val)
			celMap[celKey] = celVal
		}

		return types.NewDynamicMap(types.DefaultTypeAdapter, celMap)

	case map[string]any:
		// Convert string map to CEL map.
		celMap := make(map[ref.Val]ref.Val)
		for key, val := range v {
			celKey := types.String(key)
			celVal := ConvertToCELValue(val)
			celMap[celKey] = celVal
		}

		return types.NewDynamicMap(types.DefaultTypeAdapter, celMap)

	default:
		// For unsupported types, return null instead of erroring.
		return types.NullValue
	}
}
