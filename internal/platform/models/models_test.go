package models

import (
	"encoding/json"
	"testing"
)

func TestWebhookTestResult_Display(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"delivered", `{"status_code": 200, "response_ms": 12.5}`, "200"},
		{"remote error status", `{"status_code": 503}`, "503"},
		{"delivery failed", `{"error": "connection refused", "status": "failed"}`, "ERR"},
		{"queued only", `{"task_id": "abc", "status": "triggered"}`, "ERR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r WebhookTestResult
			if err := json.Unmarshal([]byte(tt.body), &r); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := r.Display(); got != tt.want {
				t.Errorf("Display() = %s, want %s", got, tt.want)
			}
		})
	}

	var nilResult *WebhookTestResult
	if got := nilResult.Display(); got != "ERR" {
		t.Errorf("nil Display() = %s, want ERR", got)
	}
}

func TestProduct_NullOptionalFields(t *testing.T) {
	var p Product
	body := `{"id": 7, "sku": "ABC123", "name": null, "description": null, "active": true}`
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Name != "" || p.Description != "" {
		t.Errorf("expected empty optional fields, got %+v", p)
	}
}

func TestProgress_Done(t *testing.T) {
	if (Progress{Progress: 99}).Done() {
		t.Error("99% should not be done")
	}
	if !(Progress{Progress: 100}).Done() {
		t.Error("100% should be done")
	}
}

func TestProgress_Unknown(t *testing.T) {
	tests := []struct {
		in   Progress
		want bool
	}{
		{Progress{Status: "not found"}, true},
		{Progress{Status: " Not Found "}, true},
		{Progress{Progress: 40, Status: "Processed 2/5"}, false},
		{Progress{Progress: 100, Status: "not found"}, false},
	}
	for _, tt := range tests {
		if got := tt.in.Unknown(); got != tt.want {
			t.Errorf("%+v.Unknown() = %v, want %v", tt.in, got, tt.want)
		}
	}
}
