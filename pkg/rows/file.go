package rows

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/macropower/tabula/pkg/yaml"
)

var ErrUnsupportedDocument = errors.New("unsupported dataset document")

// Document is the object form of a dataset file. A file may instead hold a
// bare list of rows, in which case the columns are inferred.
type Document struct {
	Columns []Column `json:"columns,omitempty"`
	Rows    []Row    `json:"rows"`
}

// LoadFile reads a YAML or JSON dataset from path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: User-supplied dataset path.
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}

// Decode parses a dataset document from r.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var raw any

	err = yaml.Unmarshal(data, &raw)
	if errors.Is(err, io.EOF) {
		return &Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	switch v := raw.(type) {
	case nil:
		return &Document{}, nil

	case []any:
		rs, err := toRows(v)
		if err != nil {
			return nil, err
		}

		return &Document{Columns: inferColumns(rs), Rows: rs}, nil

	case map[string]any:
		doc := &Document{}

		err = yaml.Unmarshal(data, doc)
		if err != nil {
			return nil, fmt.Errorf("decode dataset: %w", err)
		}

		if len(doc.Columns) == 0 {
			doc.Columns = inferColumns(doc.Rows)
		}

		return doc, nil
	}

	return nil, fmt.Errorf("%w: top level is %T", ErrUnsupportedDocument, raw)
}

func toRows(items []any) ([]Row, error) {
	rs := make([]Row, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: item %d is %T, not a mapping", ErrUnsupportedDocument, i, item)
		}

		rs = append(rs, Row(m))
	}

	return rs, nil
}
