package tools

import (
	"testing"
)

func TestValidateParams_RequiredFields(t *testing.T) {
	schema := InputSchema{
		Type: "object",
		Properties: map[string]Property{
			"id":    {Type: "string", Description: "Bookmark UUID"},
			"title": {Type: "string", Description: "New title"},
		},
		Required: []string{"id"},
	}

	tests := []struct {
		name    string
		params  map[string]any
		wantErr bool
		errMsg  string
	}{
		{
			name:    "required present",
			params:  map[string]any{"id": "abc"},
			wantErr: false,
		},
		{
			name:    "missing required",
			params:  map[string]any{"title": "x"},
			wantErr: true,
			errMsg:  "missing required parameter(s): id",
		},
		{
			name:    "nil params",
			params:  nil,
			wantErr: true,
			errMsg:  "missing required parameter(s): id",
		},
		{
			name:    "empty string for required field",
			params:  map[string]any{"id": ""},
			wantErr: true,
			errMsg:  "missing required parameter(s): id",
		},
		{
			name:    "nil value for required field",
			params:  map[string]any{"id": nil},
			wantErr: true,
			errMsg:  "missing required parameter(s): id",
		},
		{
			name:    "null optional field",
			params:  map[string]any{"id": "abc", "title": nil},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateParams(schema, tt.params)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got nil")
				} else if err.Error() != tt.errMsg {
					t.Errorf("expected error %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateParams_TypeCheck(t *testing.T) {
	schema := InputSchema{
		Type: "object",
		Properties: map[string]Property{
			"query":  {Type: "string"},
			"limit":  {Type: "number"},
			"star":   {Type: "boolean"},
			"tags":   {Type: "array", Items: &Property{Type: "string"}},
			"status": {Type: "string", Enum: []string{"active", "inactive"}},
		},
	}

	tests := []struct {
		name    string
		params  map[string]any
		wantErr string
	}{
		{"valid", map[string]any{"query": "go", "limit": float64(5), "star": true, "tags": []interface{}{"a"}, "status": "active"}, ""},
		{"numeric string", map[string]any{"limit": "5"}, ""},
		{"undeclared passes through", map[string]any{"extra": 1}, ""},
		{"string mismatch", map[string]any{"query": 1.0}, `parameter "query": expected string, got float64`},
		{"number mismatch", map[string]any{"limit": "many"}, `parameter "limit": expected number, got "many"`},
		{"boolean mismatch", map[string]any{"star": "true"}, `parameter "star": expected boolean, got string`},
		{"array mismatch", map[string]any{"tags": "a,b"}, `parameter "tags": expected array, got string`},
		{"array item mismatch", map[string]any{"tags": []interface{}{"a", 2.0}}, `parameter "tags[1]": expected string, got float64`},
		{"enum", map[string]any{"status": "deleted"}, `parameter "status": must be one of active, inactive`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateParams(schema, tt.params)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateParams_DoesNotMutateInput(t *testing.T) {
	schema := InputSchema{Type: "object", Properties: map[string]Property{}}
	in := map[string]any{"a": 1}
	out, err := ValidateParams(schema, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out["b"] = 2
	if _, ok := in["b"]; ok {
		t.Errorf("input map was modified")
	}
}
