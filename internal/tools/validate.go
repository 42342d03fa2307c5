package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValidateParams checks params against InputSchema.
// - Required fields: returns error if missing
// - Type check: verifies value matches declared property type
// - Enum check: string values must be one of the declared values
// Numbers are accepted as JSON numbers or numeric strings; handlers coerce
// and clamp them. Returns validated params (shallow copy) or error.
func ValidateParams(schema InputSchema, params map[string]any) (map[string]any, error) {
	if params == nil {
		params = make(map[string]any)
	}

	var missing []string
	for _, key := range schema.Required {
		val, exists := params[key]
		if !exists || val == nil {
			missing = append(missing, key)
			continue
		}
		if s, ok := val.(string); ok && s == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required parameter(s): %s", strings.Join(missing, ", "))
	}

	out := make(map[string]any, len(params))
	for key, val := range params {
		out[key] = val
		prop, declared := schema.Properties[key]
		if !declared || val == nil {
			continue
		}
		if err := checkType(key, val, prop); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// checkType verifies that val matches the expected JSON Schema type.
func checkType(key string, val any, prop Property) error {
	switch prop.Type {
	case "string":
		s, ok := val.(string)
		if !ok {
			return fmt.Errorf("parameter %q: expected string, got %T", key, val)
		}
		if len(prop.Enum) > 0 && !contains(prop.Enum, s) {
			return fmt.Errorf("parameter %q: must be one of %s", key, strings.Join(prop.Enum, ", "))
		}
	case "number", "integer":
		switch v := val.(type) {
		case float64, int, int64, json.Number:
		case string:
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				return fmt.Errorf("parameter %q: expected number, got %q", key, v)
			}
		default:
			return fmt.Errorf("parameter %q: expected number, got %T", key, val)
		}
	case "boolean":
		if _, ok := val.(bool); !ok {
			return fmt.Errorf("parameter %q: expected boolean, got %T", key, val)
		}
	case "array":
		items, ok := val.([]interface{})
		if !ok {
			return fmt.Errorf("parameter %q: expected array, got %T", key, val)
		}
		if prop.Items != nil {
			for i, item := range items {
				if err := checkType(fmt.Sprintf("%s[%d]", key, i), item, *prop.Items); err != nil {
					return err
				}
			}
		}
	case "object":
		if _, ok := val.(map[string]interface{}); !ok {
			return fmt.Errorf("parameter %q: expected object, got %T", key, val)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
