package repository

import (
	"encoding/json"
	"fmt"

	"lexicards/internal/domain"
)

// EncodeStates serialises a state map to the stored JSON document
func EncodeStates(states map[string]domain.ReviewState) ([]byte, error) {
	if states == nil {
		states = map[string]domain.ReviewState{}
	}
	data, err := json.Marshal(states)
	if err != nil {
		return nil, fmt.Errorf("failed to encode review states: %w", err)
	}
	return data, nil
}

// DecodeStates parses a stored JSON document. An empty document is an empty map.
func DecodeStates(data []byte) (map[string]domain.ReviewState, error) {
	states := map[string]domain.ReviewState{}
	if len(data) == 0 {
		return states, nil
	}
	if err := json.Unmarshal(data, &states); err != nil {
		return nil, fmt.Errorf("failed to decode review states: %w", err)
	}
	return states, nil
}
