package jsonmodel

import (
	"bytes"
	"io"
	"os"

	j "github.com/goccy/go-json"
)

// DecodeJSON parses data into a raw JSON value. Numbers decode as
// json.Number so values round-trip without float drift.
func DecodeJSON(data []byte) (any, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ReadJSON decodes a single raw JSON value from r. Trailing non-space
// content after the value is an error.
func ReadJSON(r io.Reader) (any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, Serializationf("decode json: %w", err)
	}
	if dec.More() {
		return nil, Serializationf("decode json: trailing data after value")
	}
	return v, nil
}

// EncodeJSON serializes a raw JSON value to compact JSON text.
func EncodeJSON(raw any) ([]byte, error) {
	data, err := j.Marshal(raw)
	if err != nil {
		return nil, Serializationf("encode json: %w", err)
	}
	return data, nil
}

// EncodeJSONIndent serializes a raw JSON value with the given indent.
func EncodeJSONIndent(raw any, indent string) ([]byte, error) {
	data, err := j.MarshalIndent(raw, "", indent)
	if err != nil {
		return nil, Serializationf("encode json: %w", err)
	}
	return data, nil
}

// WriteJSON encodes a raw JSON value to w, followed by a newline.
func WriteJSON(w io.Writer, raw any) error {
	enc := j.NewEncoder(w)
	if err := enc.Encode(raw); err != nil {
		return Serializationf("write json: %w", err)
	}
	return nil
}

// LoadJSON reads and decodes the JSON document stored at path.
func LoadJSON(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Serializationf("load %s: %w", path, err)
	}
	return DecodeJSON(data)
}

// SaveJSON encodes a raw JSON value and writes it to path.
func SaveJSON(path string, raw any) error {
	data, err := EncodeJSON(raw)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Serializationf("save %s: %w", path, err)
	}
	return nil
}
