package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"productdash/internal/pkg/validator"
)

type Kind string

const (
	KindNetwork    Kind = "network"
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindServer     Kind = "server"
	KindDecode     Kind = "decode"
)

// Error is returned by every Client method.
type Error struct {
	Kind    Kind
	Op      string
	URL     string
	Status  int
	Message string
	Fields  validator.FieldErrors
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && len(e.Fields) > 0 {
		msg = e.Fields.Summary()
	}
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Op, msg, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of a client error, or "" for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsNetwork(err error) bool    { return KindOf(err) == KindNetwork }

func validationError(op string, fields validator.FieldErrors) *Error {
	return &Error{Kind: KindValidation, Op: op, Fields: fields}
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	default:
		return KindServer
	}
}

type detailItem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// errorFromResponse decodes the service's {"detail": ...} envelope, which is
// either a string or a list of per-field validation problems.
func errorFromResponse(op string, status int, body []byte) *Error {
	e := &Error{Kind: kindForStatus(status), Op: op, Status: status}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		e.Message = strings.TrimSpace(string(body))
		if e.Message == "" {
			e.Message = http.StatusText(status)
		}
		return e
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
		e.Message = detail
		return e
	}

	var items []detailItem
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		e.Fields = validator.FieldErrors{}
		for _, item := range items {
			e.Fields[fieldFromLoc(item.Loc)] = item.Msg
		}
		return e
	}

	e.Message = string(envelope.Detail)
	return e
}

func fieldFromLoc(loc []any) string {
	for i := len(loc) - 1; i >= 0; i-- {
		if s, ok := loc[i].(string); ok && s != "body" && s != "query" && s != "path" {
			return s
		}
	}
	return "_"
}
