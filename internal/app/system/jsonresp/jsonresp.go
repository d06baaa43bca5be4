// internal/app/system/jsonresp/jsonresp.go
//
// Package jsonresp writes the API's response envelope:
//
//	{ "success": true,  "data": ... }
//	{ "success": false, "error": "..." }
package jsonresp

import (
	"encoding/json"
	"net/http"
)

// Envelope is the outer shape of every API response body.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Write encodes v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes {success:true, data} with the given status.
func OK(w http.ResponseWriter, status int, data any) {
	Write(w, status, Envelope{Success: true, Data: data})
}

// Error writes {success:false, error:msg} with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, Envelope{Success: false, Error: msg})
}

// Decode reads a JSON request body into dst. Unknown fields are ignored and
// the body is capped at 1 MiB.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	return json.NewDecoder(r.Body).Decode(dst)
}
