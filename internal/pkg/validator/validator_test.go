package validator

import "testing"

type sample struct {
	SKU  string `json:"sku" validate:"required,max=8"`
	URL  string `json:"url" validate:"omitempty,http_url"`
	Note string `json:"-" validate:"max=3"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name   string
		in     sample
		fields map[string]string
	}{
		{
			name:   "valid",
			in:     sample{SKU: "ABC123", URL: "https://example.com/hook"},
			fields: nil,
		},
		{
			name:   "missing sku",
			in:     sample{},
			fields: map[string]string{"sku": "is required"},
		},
		{
			name:   "too long and bad url",
			in:     sample{SKU: "ABCDEFGHIJ", URL: "not a url"},
			fields: map[string]string{"sku": "must be at most 8 characters", "url": "must be an absolute http(s) URL"},
		},
		{
			name:   "json dash falls back to lowercase field name",
			in:     sample{SKU: "A", Note: "long"},
			fields: map[string]string{"note": "must be at most 3 characters"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Struct(tt.in)
			if len(got) != len(tt.fields) {
				t.Fatalf("Struct() = %v, want %v", got, tt.fields)
			}
			for k, v := range tt.fields {
				if got[k] != v {
					t.Errorf("field %s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestFieldErrors_Summary(t *testing.T) {
	fe := FieldErrors{"url": "is required", "event": "is required"}
	want := "event is required; url is required"
	if got := fe.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}
