// Package response writes the uniform {status, message, data} JSON envelope
// every API handler replies with.
package response

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire shape of every JSON API response. Data is always
// present (null when there is nothing to return); Errors only on 422.
type Envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    any               `json:"data"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Write sends body with its own Status as the HTTP status code.
func Write(w http.ResponseWriter, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.Status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// JSON sends a raw JSON document (used by routes whose contract is not the
// envelope, e.g. {reply} or {messages}).
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Respond sends an envelope with the given status, message and data.
func Respond(w http.ResponseWriter, status int, message string, data any) {
	Write(w, Envelope{Status: status, Message: message, Data: data})
}

// Success sends a 200 envelope.
func Success(w http.ResponseWriter, message string, data any) {
	Respond(w, http.StatusOK, message, data)
}

// Created sends a 201 envelope.
func Created(w http.ResponseWriter, message string, data any) {
	Respond(w, http.StatusCreated, message, data)
}

// Error sends an envelope with no data.
func Error(w http.ResponseWriter, status int, message string) {
	Respond(w, status, message, nil)
}

// ValidationError sends a 422 with a field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	Write(w, Envelope{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  errs,
	})
}

func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Forbidden")
}

func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}

func TooManyRequests(w http.ResponseWriter) {
	Error(w, http.StatusTooManyRequests, "Too Many Requests")
}
