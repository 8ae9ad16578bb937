// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Envelope is the uniform response shape: status is "success" for 2xx,
// "fail" for client errors and "error" for server errors.
type Envelope struct {
	Status  string `json:"status"`
	Results *int   `json:"results,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(env)
}

func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Envelope{Status: "success", Data: data})
}

// OKList writes a success envelope with a result count, used by every
// collection listing.
func OKList(w http.ResponseWriter, results int, data any) {
	writeJSON(w, http.StatusOK, Envelope{
		Status:  "success",
		Results: &results,
		Data:    data,
	})
}

func Created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, Envelope{Status: "success", Data: data})
}

func OKMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, Envelope{Status: "success", Message: message})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func BadRequest(w http.ResponseWriter, message string) {
	JSONError(w, ValidationError(message))
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSONError(w, UnauthorizedError(message))
}

func Forbidden(w http.ResponseWriter, message string) {
	JSONError(w, ForbiddenError(message))
}

func NotFound(w http.ResponseWriter, resource string) {
	JSONError(w, NotFoundError(resource))
}

func InternalServerError(w http.ResponseWriter, err error) {
	slog.Error("internal server error", "error", err)

	env := Envelope{Status: "error", Message: "something went wrong"}
	if err != nil && !isProduction() {
		env.Detail = err.Error()
	}

	writeJSON(w, http.StatusInternalServerError, env)
}

// JSONError renders any error through the envelope. Bare sentinel
// errors from lower layers map to their default responses; anything
// unrecognized is treated as internal.
func JSONError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		switch {
		case errors.Is(err, ErrNotFound):
			appErr = NotFoundError("resource")
		case errors.Is(err, ErrInvalidInput):
			appErr = ValidationError(err.Error())
		case errors.Is(err, ErrUnauthorized):
			appErr = UnauthorizedError("")
		case errors.Is(err, ErrForbidden):
			appErr = ForbiddenError("")
		case errors.Is(err, ErrDuplicateKey):
			appErr = ConflictError("duplicate value for a unique field")
		case errors.Is(err, ErrTokenExpired):
			appErr = TokenExpiredError()
		case errors.Is(err, ErrTokenInvalid):
			appErr = TokenInvalidError()
		default:
			InternalServerError(w, err)
			return
		}
	}

	status := "fail"
	if appErr.StatusCode >= http.StatusInternalServerError {
		status = "error"
	}

	env := Envelope{Status: status, Message: appErr.Message}
	if appErr.Err != nil && appErr.StatusCode >= 500 && !isProduction() {
		env.Detail = appErr.Err.Error()
	}

	writeJSON(w, appErr.StatusCode, env)
}

// isProduction is injected from config at startup so core does not
// import the config package.
var isProduction = func() bool { return false }

func SetProductionMode(production bool) {
	isProduction = func() bool { return production }
}
