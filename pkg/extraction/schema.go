package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildResultJSONSchema returns the JSON schema of the service's "data"
// object. Every field needs a confidence entry in [0,1].
func BuildResultJSONSchema() map[string]any {
	props := map[string]any{}
	scores := map[string]any{}
	required := make([]string, 0, len(Fields))
	for _, f := range Fields {
		props[string(f)] = map[string]any{"type": []string{"string", "null"}}
		scores[string(f)] = map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0}
		required = append(required, string(f))
	}
	props["confidence"] = map[string]any{
		"type":       "object",
		"properties": scores,
		"required":   required,
	}

	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   []string{"confidence"},
	}
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("result.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("result.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

func validateResult(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
