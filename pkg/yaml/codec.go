package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// Decoder reads YAML or JSON documents. Syntax errors are returned as
// [Error]s carrying the offending token, so they can be shown in context.
type Decoder struct {
	dec *yaml.Decoder
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: yaml.NewDecoder(r, yaml.AllowDuplicateMapKey())}
}

// Decode reads the next document into v. It returns [io.EOF] when the
// input holds no further documents.
func (d *Decoder) Decode(v any) error {
	return tokenError(d.dec.Decode(v))
}

// Unmarshal decodes the first document in data into v.
func Unmarshal(data []byte, v any) error {
	return NewDecoder(bytes.NewReader(data)).Decode(v)
}

// Encoder writes block-style YAML with two-space indented sequences.
type Encoder struct {
	enc *yaml.Encoder
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{enc: yaml.NewEncoder(w, yaml.Indent(2), yaml.IndentSequence(true))}
}

func (e *Encoder) Encode(v any) error {
	return e.enc.Encode(v) //nolint:wrapcheck // Callers add context.
}

func (e *Encoder) Close() error {
	return e.enc.Close() //nolint:wrapcheck // Callers add context.
}

// Marshal encodes v as a single document.
func Marshal(v any) ([]byte, error) {
	var b bytes.Buffer

	enc := NewEncoder(&b)

	err := enc.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	err = enc.Close()
	if err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return b.Bytes(), nil
}

func tokenError(err error) error {
	if err == nil {
		return nil
	}

	var yamlErr yaml.Error
	if errors.As(err, &yamlErr) {
		return &Error{
			Err:   errors.New(yamlErr.GetMessage()),
			Token: yamlErr.GetToken(),
		}
	}

	return err
}
