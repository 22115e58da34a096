package rpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// toStruct renders v (any JSON-tagged Go value) as a structpb.Struct by
// round-tripping it through encoding/json, the same conversion
// structpb.NewStruct expects of its input map.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rpc: marshal: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("rpc: marshal: %w", err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("rpc: marshal: %w", err)
	}
	return s, nil
}

// fromStruct is the inverse of toStruct: it decodes s's JSON-compatible
// value tree into out, which must be a pointer to a JSON-tagged Go value.
func fromStruct(s *structpb.Struct, out any) error {
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return fmt.Errorf("rpc: unmarshal: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("rpc: unmarshal: %w", err)
	}
	return nil
}
