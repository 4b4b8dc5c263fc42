package rows

import "github.com/macropower/tabula/pkg/expr"

// NewWhere compiles a CEL expression into a [Predicate]. The expression sees
// the row as `row` and its position as `index`.
func NewWhere(expression string) (Predicate, error) {
	f, err := expr.CompileRowFilter(expression)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped.
	}

	return func(index int, r Row) (bool, error) {
		return f.Match(index, r)
	}, nil
}
