package bookmark

import (
	"testing"
)

func TestTypeValid(t *testing.T) {
	if len(Types) != 14 {
		t.Fatalf("len(Types) = %d, want 14", len(Types))
	}
	for _, typ := range Types {
		if !typ.Valid() {
			t.Errorf("%q should be valid", typ)
		}
	}
	for _, typ := range []Type{"", "podcast", "LINK"} {
		if typ.Valid() {
			t.Errorf("%q should be invalid", typ)
		}
	}
}

func TestStatusValid(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusActive, true},
		{StatusInactive, true},
		{"", false},
		{"deleted", false},
	}
	for _, tt := range tests {
		if got := tt.status.Valid(); got != tt.want {
			t.Errorf("Status(%q).Valid() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestFilterEffectiveStatus(t *testing.T) {
	if got := (Filter{}).EffectiveStatus(); got != StatusActive {
		t.Errorf("zero filter status = %q, want active", got)
	}
	if got := (Filter{Status: StatusInactive}).EffectiveStatus(); got != StatusInactive {
		t.Errorf("status = %q, want inactive", got)
	}
}

func TestTagsValue(t *testing.T) {
	tests := []struct {
		name string
		tags Tags
		want interface{}
	}{
		{"nil", nil, nil},
		{"simple", Tags{"go", "rust"}, "{go,rust}"},
		{"inner space", Tags{"machine learning"}, "{machine learning}"},
		{"comma", Tags{"a,b"}, `{"a,b"}`},
		{"brace", Tags{"{x}"}, `{"{x}"}`},
		{"null word", Tags{"NULL"}, `{"NULL"}`},
		{"empty element", Tags{""}, `{""}`},
		{"quote", Tags{`say "hi"`}, `{"say \"hi\""}`},
		{"empty", Tags{}, "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.tags.Value()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Value() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTagsRoundTrip(t *testing.T) {
	for _, in := range []Tags{
		{"go", "rust"},
		{"machine learning", "a,b", "{x}", "NULL", "", `say "hi"`, `back\slash`},
		{},
	} {
		v, err := in.Value()
		if err != nil {
			t.Fatalf("Value(%q): %v", in, err)
		}
		var out Tags
		if err := out.Scan(v); err != nil {
			t.Fatalf("Scan(%v): %v", v, err)
		}
		if len(out) != len(in) {
			t.Fatalf("round trip of %q = %q", in, out)
		}
		for i := range in {
			if out[i] != in[i] {
				t.Errorf("round trip of %q = %q", in, out)
				break
			}
		}
	}
}

func TestTagsScan(t *testing.T) {
	t.Run("from string", func(t *testing.T) {
		var tags Tags
		if err := tags.Scan(`{go,"machine learning"}`); err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		if len(tags) != 2 || tags[0] != "go" || tags[1] != "machine learning" {
			t.Errorf("got %v", tags)
		}
	})

	t.Run("from bytes", func(t *testing.T) {
		var tags Tags
		if err := tags.Scan([]byte(`{a}`)); err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		if len(tags) != 1 || tags[0] != "a" {
			t.Errorf("got %v", tags)
		}
	})

	t.Run("from nil", func(t *testing.T) {
		tags := Tags{"stale"}
		if err := tags.Scan(nil); err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		if tags != nil {
			t.Errorf("got %v, want nil", tags)
		}
	})
}
