package client

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"productdash/internal/pkg/validator"
	"productdash/internal/platform/models"
)

// CheckCSVName rejects anything that is not a .csv file before it reaches the network.
func CheckCSVName(filename string) error {
	name := strings.TrimSpace(filename)
	if name == "" {
		return validationError("upload", validator.FieldErrors{"file": "is required"})
	}
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return validationError("upload", validator.FieldErrors{"file": "must be a .csv file"})
	}
	return nil
}

// Upload streams r as multipart field "file" and returns the import task the service started.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*models.ImportTask, error) {
	if err := CheckCSVName(filename); err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(filename))
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req := request{
		op:          "upload",
		method:      http.MethodPost,
		path:        "/upload",
		body:        pr,
		contentType: mw.FormDataContentType(),
	}
	var task models.ImportTask
	err := c.do(ctx, req, &task)
	pr.Close()
	if err != nil {
		return nil, err
	}
	if task.TaskID == "" {
		return nil, &Error{Kind: KindDecode, Op: "upload", Message: "response carried no task_id"}
	}
	return &task, nil
}

func (c *Client) Progress(ctx context.Context, taskID string) (*models.Progress, error) {
	var p models.Progress
	path := "/progress/" + url.PathEscape(taskID)
	if err := c.do(ctx, request{op: "progress", method: http.MethodGet, path: path}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
