package kv

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// ValueCodec turns record bodies into the bytes stored under a key and back.
type ValueCodec interface {
	Encode(v interface{}) ([]byte, error)
	Decode(b []byte, v interface{}) error
}

var (
	_ ValueCodec = JSONCodec{}
	_ ValueCodec = YAMLCodec{}
)

var errTrailingData = errors.New("unexpected data after value")

// JSONCodec stores records as JSON. Fields present in the stored value but
// missing from the target type fail the decode.
type JSONCodec struct{}

// Encode implements ValueCodec.
func (JSONCodec) Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// Decode implements ValueCodec.
func (JSONCodec) Decode(b []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errTrailingData
	}
	return nil
}

// YAMLCodec stores records as YAML documents, with the same strictness
// about unknown fields as JSONCodec.
type YAMLCodec struct{}

// Encode implements ValueCodec.
func (YAMLCodec) Encode(v interface{}) ([]byte, error) {
	return yaml.Marshal(v)
}

// Decode implements ValueCodec.
func (YAMLCodec) Decode(b []byte, v interface{}) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	return dec.Decode(v)
}
