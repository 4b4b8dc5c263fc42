package expr

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// ErrNotBool is returned when a predicate does not evaluate to a bool.
var ErrNotBool = errors.New("expression did not return a bool")

var (
	// Guards compilation against the shared environment.
	compileMu sync.Mutex

	rowEnv = sync.OnceValues(func() (*cel.Env, error) {
		env, err := cel.NewEnv(
			cel.Variable("row", cel.MapType(cel.StringType, cel.DynType)),
			cel.Variable("index", cel.IntType),
			cel.Lib(&lib{}),
		)
		if err != nil {
			return nil, fmt.Errorf("create CEL environment: %w", err)
		}

		return env, nil
	})
)

// RowFilter is a compiled boolean row expression.
type RowFilter struct {
	program    cel.Program
	expression string
}

// CompileRowFilter compiles expression against the row environment.
func CompileRowFilter(expression string) (*RowFilter, error) {
	env, err := rowEnv()
	if err != nil {
		return nil, err
	}

	compileMu.Lock()
	defer compileMu.Unlock()

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	return &RowFilter{program: program, expression: expression}, nil
}

// String returns the source expression.
func (f *RowFilter) String() string {
	return f.expression
}

// Match evaluates the filter for the row at index.
func (f *RowFilter) Match(index int, row map[string]any) (bool, error) {
	out, _, err := f.program.Eval(map[string]any{
		"row":   ConvertToCELValue(row),
		"index": index,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", f.expression, err)
	}

	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("evaluate %q: %w, got %s", f.expression, ErrNotBool, out.Type().TypeName())
	}

	return b, nil
}
