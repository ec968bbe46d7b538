package agentkind

import "encoding/json"

// decodeStructured parses text as JSON into a generic any (object, array,
// or scalar) for force_json_output agents. Object keys decode as
// map[string]interface{}, matching the shape every other part of
// GlobalState already uses.
func decodeStructured(text string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	return v, nil
}
