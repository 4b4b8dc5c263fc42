package yaml

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
)

func NewPathBuilder() *yaml.PathBuilder {
	return &yaml.PathBuilder{}
}

type ErrorWrapper struct {
	Opts []ErrorOpt
}

func NewErrorWrapper(opts ...ErrorOpt) *ErrorWrapper {
	return &ErrorWrapper{
		Opts: opts,
	}
}

// Wrap wraps an error with additional context for [Error]s.
// If the error isn't an [Error], it returns the original error unmodified.
func (ew *ErrorWrapper) Wrap(err error, opts ...ErrorOpt) error {
	if err == nil {
		return nil
	}

	var yamlErr *Error
	if errors.As(err, &yamlErr) {
		for _, opt := range ew.Opts {
			opt(yamlErr)
		}

		for _, opt := range opts {
			opt(yamlErr)
		}

		return yamlErr
	}

	return err
}

// Error represents a YAML error. It includes the original error, and the
// [*token.Token] where the error occurred.
type Error struct {
	Err         error
	Path        *yaml.Path
	Token       *token.Token
	Source      []byte
	Highlight   func(string) string // Renders the offending source line.
	SourceLines int                 // Number of lines to show around the error in the source.
}

func NewError(err error, opts ...ErrorOpt) *Error {
	e := &Error{
		Err:         err,
		SourceLines: 4,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

type ErrorOpt func(e *Error)

func WithSourceLines(lines int) ErrorOpt {
	return func(e *Error) {
		e.SourceLines = lines
	}
}

func WithPath(path *yaml.Path) ErrorOpt {
	return func(e *Error) {
		e.Path = path
	}
}

func WithToken(tk *token.Token) ErrorOpt {
	return func(e *Error) {
		e.Token = tk
	}
}

func WithSource(source []byte) ErrorOpt {
	return func(e *Error) {
		e.Source = source
	}
}

// WithLineStyle renders the offending source line with s.
func WithLineStyle(s lipgloss.Style) ErrorOpt {
	return func(e *Error) {
		e.Highlight = func(v string) string { return s.Render(v) }
	}
}

func (e Error) Unwrap() error {
	return e.Err
}

func (e Error) Error() string {
	if e.Err == nil {
		return ""
	}
	if e.Path == nil && e.Token == nil {
		return e.Err.Error()
	}

	errMsg, srcErr := e.annotateSource()
	if srcErr != nil {
		if e.Path == nil {
			return e.Err.Error()
		}

		slog.Debug("failed to annotate source with error",
			slog.String("path", e.Path.String()),
			slog.Any("error", srcErr),
		)

		return fmt.Sprintf("error at %s: %v", e.Path.String(), e.Err)
	}

	return errMsg
}

// annotateSource renders the error position followed by the surrounding
// source lines, marking the offending column.
func (e Error) annotateSource() (string, error) {
	tk := e.Token
	if tk == nil {
		var err error

		tk, err = getTokenFromPath(e.Source, e.Path)
		if err != nil {
			return "", fmt.Errorf("get token from path: %w", err)
		}
	}

	line, col := tk.Position.Line, tk.Position.Column
	errMsg := fmt.Sprintf("[%d:%d] %v", line, col, e.Err)

	if len(e.Source) == 0 {
		return errMsg, nil
	}

	return errMsg + ":\n\n" + e.excerpt(line, col), nil
}

func (e Error) excerpt(line, col int) string {
	lines := strings.Split(strings.TrimRight(string(e.Source), "\n"), "\n")

	first := max(line-e.SourceLines, 1)
	last := min(line+e.SourceLines, len(lines))
	width := len(fmt.Sprint(last))

	var b strings.Builder

	for n := first; n <= last; n++ {
		text := lines[n-1]
		prefix := "  "
		if n == line {
			prefix = "> "
			if e.Highlight != nil {
				text = e.Highlight(text)
			}
		}

		fmt.Fprintf(&b, "%s%*d | %s\n", prefix, width, n, text)

		if n == line {
			fmt.Fprintf(&b, "  %s | %s^\n", strings.Repeat(" ", width), strings.Repeat(" ", max(col-1, 0)))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func getTokenFromPath(source []byte, path *yaml.Path) (*token.Token, error) {
	file, err := parser.ParseBytes(source, 0)
	if err != nil {
		return nil, fmt.Errorf("parse source bytes into ast.File: %w", err)
	}

	node, err := path.FilterFile(file)
	if err != nil {
		return nil, fmt.Errorf("filter from ast.File by YAMLPath: %w", err)
	}

	// path.FilterFile returns the value node; point at the key instead.
	keyToken := findKeyToken(file, path)
	if keyToken != nil {
		return keyToken, nil
	}

	return node.GetToken(), nil
}

// findKeyToken attempts to find the KEY token for the given path by looking
// in the parent node.
func findKeyToken(file *ast.File, path *yaml.Path) *token.Token {
	pathStr := path.String()

	lastDot := strings.LastIndex(pathStr, ".")
	lastBracket := strings.LastIndex(pathStr, "[")

	if lastDot == -1 && lastBracket == -1 {
		return nil // Root path, no parent.
	}

	if lastDot <= lastBracket {
		return nil
	}

	parentPathStr := pathStr[:lastDot]
	lastSegment := pathStr[lastDot+1:]

	if parentPathStr == "" {
		parentPathStr = "$"
	}

	parentPath, err := yaml.PathString(parentPathStr)
	if err != nil {
		return nil
	}

	parentNode, err := parentPath.FilterFile(file)
	if err != nil {
		return nil
	}

	if mapping, ok := parentNode.(*ast.MappingNode); ok {
		for _, val := range mapping.Values {
			if val.Key.String() == lastSegment {
				return val.Key.GetToken()
			}
		}
	}

	return nil
}
