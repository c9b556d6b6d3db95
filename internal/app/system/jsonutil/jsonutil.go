// Package jsonutil provides helper functions for JSON API responses.
//
// Every response uses the same envelope:
//
//	{"success": true, "statusCode": 200, "message": "...", "data": {...}}
//
// Use these helpers in API handlers so status codes, messages and the ledger
// error fields stay consistent across features.
package jsonutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/stratacms/internal/app/system/apperr"
	"github.com/dalemusser/stratacms/internal/app/system/ledger"
	"go.uber.org/zap"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

// Send writes an envelope with the given status code. Success is derived from the status.
//
// Usage:
//
//	jsonutil.Send(w, http.StatusOK, "Blog retrieved successfully", blog)
func Send(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{
		Success:    status < http.StatusBadRequest,
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

// OK writes a 200 OK envelope.
func OK(w http.ResponseWriter, message string, data any) {
	Send(w, http.StatusOK, message, data)
}

// Created writes a 201 Created envelope.
func Created(w http.ResponseWriter, message string, data any) {
	Send(w, http.StatusCreated, message, data)
}

// Fail writes an error envelope with no data and records the message in the ledger.
func Fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	ledger.SetErrorMessage(r.Context(), message)
	Send(w, status, message, nil)
}

// BadRequest writes a 400 Bad Request envelope.
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	Fail(w, r, http.StatusBadRequest, message)
}

// Unauthorized writes a 401 Unauthorized envelope.
func Unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	Fail(w, r, http.StatusUnauthorized, message)
}

// Forbidden writes a 403 Forbidden envelope.
func Forbidden(w http.ResponseWriter, r *http.Request, message string) {
	Fail(w, r, http.StatusForbidden, message)
}

// NotFound writes a 404 Not Found envelope.
func NotFound(w http.ResponseWriter, r *http.Request, message string) {
	Fail(w, r, http.StatusNotFound, message)
}

// Error maps err to its status code and writes the envelope.
//
// Errors built with apperr keep their message. Any other error is logged with
// the request path and reported as a generic server error; internal details
// never reach the client.
func Error(w http.ResponseWriter, r *http.Request, logger *zap.Logger, msg string, err error) {
	kind := apperr.KindOf(err)
	ledger.SetErrorClass(r.Context(), kind.String())
	if kind == apperr.KindInternal && logger != nil {
		logger.Error(msg,
			zap.Error(err),
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
		)
	}
	Fail(w, r, kind.Status(), apperr.Message(err))
}

// ErrInvalidJSON is returned by Decode when the body is empty or malformed.
var ErrInvalidJSON = apperr.Validation("Invalid JSON payload")

// Decode reads and decodes JSON from the request body into v.
// Decoding failures are reported as validation errors.
//
// Usage:
//
//	var in createInput
//	if err := jsonutil.Decode(r, &in); err != nil {
//	    jsonutil.Error(w, r, h.logger, "decode", err)
//	    return
//	}
func Decode(r *http.Request, v any) error {
	if r.Body == nil {
		return ErrInvalidJSON
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrInvalidJSON
		}
		return &apperr.Error{Kind: apperr.KindValidation, Message: "Invalid JSON payload", Err: err}
	}
	return nil
}
