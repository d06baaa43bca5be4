// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/suraj4124/gamesphere/internal/app/system/jsonresp"
	"go.uber.org/zap"
)

// ErrorLogger writes JSON error responses and logs the ones that need
// attention. Server errors are logged at error level with the underlying
// cause; the client only sees the public message.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	f := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		f = append(f, zap.String("request_id", id))
	}
	if err != nil {
		f = append(f, zap.Error(err))
	}
	return f
}

// LogServerError logs msg and err and responds 500 with publicMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, publicMsg string) {
	e.Log.Error(msg, e.fields(r, err)...)
	if publicMsg == "" {
		publicMsg = "Server Error"
	}
	jsonresp.Error(w, http.StatusInternalServerError, publicMsg)
}

// LogBadRequest logs msg at debug level and responds 400 with publicMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, publicMsg string) {
	e.Log.Debug(msg, e.fields(r, err)...)
	jsonresp.Error(w, http.StatusBadRequest, publicMsg)
}

// BadRequest responds 400.
func BadRequest(w http.ResponseWriter, msg string) {
	jsonresp.Error(w, http.StatusBadRequest, msg)
}

// Unauthorized responds 401.
func Unauthorized(w http.ResponseWriter, msg string) {
	jsonresp.Error(w, http.StatusUnauthorized, msg)
}

// Forbidden responds 403.
func Forbidden(w http.ResponseWriter, msg string) {
	jsonresp.Error(w, http.StatusForbidden, msg)
}

// NotFound responds 404.
func NotFound(w http.ResponseWriter, msg string) {
	jsonresp.Error(w, http.StatusNotFound, msg)
}

// TooManyRequests responds 429.
func TooManyRequests(w http.ResponseWriter, msg string) {
	jsonresp.Error(w, http.StatusTooManyRequests, msg)
}

// RouteNotFound is the router's fallback for unknown paths.
func RouteNotFound(w http.ResponseWriter, r *http.Request) {
	jsonresp.Error(w, http.StatusNotFound, "Route not found")
}

// MethodNotAllowed is the router's fallback for known paths hit with the
// wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	jsonresp.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
}
