package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload returns an event payload as T. In-process publishers hand over
// the payload struct itself or a pointer to it; payloads replayed from the
// dead-letter file arrive as generic JSON maps and go through a JSON round trip.
func DecodePayload[T any](input any) (T, error) {
	switch v := input.(type) {
	case T:
		return v, nil
	case *T:
		if v != nil {
			return *v, nil
		}
	}

	var out T
	data, err := json.Marshal(input)
	if err != nil {
		return out, fmt.Errorf("encode %T payload: %w", input, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode payload into %T: %w", out, err)
	}
	return out, nil
}
