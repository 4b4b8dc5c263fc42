// Package expr evaluates CEL (Common Expression Language) predicates
// against table rows.
//
// Row expressions have access to variables:
//   - `row` (map<string, dyn>): The cells of the row, keyed by column
//   - `index` (int): The position of the row in the dataset
//
// Besides the standard CEL extensions, expressions may call:
//   - `fuzzy(text, pattern)`: Fuzzy match, as used by the table filter
//   - `yamlPath(text, path)`: Extract a value from a YAML or JSON cell
package expr
