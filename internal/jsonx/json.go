// Package jsonx wraps json-iterator with standard library compatible settings.
package jsonx

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

var api = jsoniter.ConfigCompatibleWithStandardLibrary

func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return api.Unmarshal(data, v)
}

func NewDecoder(r io.Reader) *jsoniter.Decoder {
	return api.NewDecoder(r)
}

func NewEncoder(w io.Writer) *jsoniter.Encoder {
	return api.NewEncoder(w)
}
