package models

import "strings"

type ImportTask struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

type Progress struct {
	Progress int    `json:"progress"`
	Status   string `json:"status"`
}

// Done reports whether the import reached 100%.
func (p Progress) Done() bool {
	return p.Progress >= 100
}

// Unknown reports whether the service no longer knows the task.
func (p Progress) Unknown() bool {
	return !p.Done() && strings.EqualFold(strings.TrimSpace(p.Status), "not found")
}
