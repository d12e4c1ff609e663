package models

import "strconv"

// DefaultWebhookEvent pre-fills the event field of a new webhook.
const DefaultWebhookEvent = "product.imported"

type Webhook struct {
	ID      int64  `json:"id"`
	URL     string `json:"url"`
	Event   string `json:"event"`
	Enabled bool   `json:"enabled"`
}

type WebhookInput struct {
	URL     string `json:"url" validate:"required,http_url"`
	Event   string `json:"event" validate:"required,max=100"`
	Enabled bool   `json:"enabled"`
}

// WebhookTestResult is the outcome of a one-off test delivery. The service
// either reports the remote status code or an error; when it only queues the
// test, TaskID is set and neither is present.
type WebhookTestResult struct {
	StatusCode int     `json:"status_code,omitempty"`
	ResponseMS float64 `json:"response_ms,omitempty"`
	Error      string  `json:"error,omitempty"`
	Status     string  `json:"status,omitempty"`
	TaskID     string  `json:"task_id,omitempty"`
}

// Display is what the dashboard shows for a test delivery: the status code, or ERR.
func (r *WebhookTestResult) Display() string {
	if r == nil || r.StatusCode == 0 {
		return "ERR"
	}
	return strconv.Itoa(r.StatusCode)
}
