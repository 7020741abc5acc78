package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// ReadJSONFile reads path and strictly decodes it into T. Unknown fields are an error
// so that typos in catalog and fixture files surface at load time.
func ReadJSONFile[T any](path string) (T, error) {
	var out T
	data, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if err := DecodeStrict(data, &out); err != nil {
		return out, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return out, nil
}

// DecodeStrict unmarshals data into target, rejecting unknown fields and trailing data.
func DecodeStrict(data []byte, target any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected trailing data after JSON document")
	}
	return nil
}
