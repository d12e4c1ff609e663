package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"productdash/internal/client"
)

// FromError turns an error into text an operator can act on.
func FromError(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *client.Error
	if !errors.As(err, &apiErr) {
		if errors.Is(err, context.DeadlineExceeded) {
			return "Request timed out - try again"
		}
		if errors.Is(err, context.Canceled) {
			return "Request cancelled"
		}
		return err.Error()
	}

	subject := subjectOf(apiErr.Op)
	switch apiErr.Kind {
	case client.KindNetwork:
		return networkMessage(apiErr)
	case client.KindValidation:
		detail := apiErr.Message
		if len(apiErr.Fields) > 0 {
			detail = apiErr.Fields.Summary()
		}
		return fmt.Sprintf("Invalid %s data: %s", subject, detail)
	case client.KindNotFound:
		return capitalize(subject) + " not found"
	case client.KindConflict:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return capitalize(subject) + " already exists"
	case client.KindDecode:
		return "Unexpected response from catalog API - check api.base_url points at the catalog service"
	default:
		msg := apiErr.Message
		if msg == "" {
			msg = "server error"
		}
		return fmt.Sprintf("Catalog API error (HTTP %d): %s", apiErr.Status, msg)
	}
}

func networkMessage(e *client.Error) string {
	host := e.URL
	if u, err := url.Parse(e.URL); err == nil && u.Host != "" {
		host = u.Scheme + "://" + u.Host
	}

	switch {
	case errors.Is(e, context.DeadlineExceeded) || strings.Contains(strings.ToLower(errString(e.Err)), "timeout"):
		return fmt.Sprintf("Catalog API at %s timed out - try again or raise api.timeout", host)
	case errors.Is(e, context.Canceled):
		return "Request cancelled"
	case strings.Contains(strings.ToLower(errString(e.Err)), "no such host"):
		return fmt.Sprintf("Cannot resolve catalog API host %s - check api.base_url", host)
	default:
		return fmt.Sprintf("Cannot reach catalog API - is it running at %s?", host)
	}
}

func subjectOf(op string) string {
	switch {
	case strings.Contains(op, "product"):
		return "product"
	case strings.Contains(op, "webhook"):
		return "webhook"
	case strings.Contains(op, "upload"), strings.Contains(op, "progress"):
		return "import"
	default:
		return "request"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
