package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/myrjola/fitplan/internal/errors"
	"github.com/myrjola/fitplan/internal/workout"
)

const serverErrorMessage = "Server error"

// writeJSON encodes v as the response body. Encoding failures are only logged because the status is already sent.
func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "failed writing response",
			errors.SlogError(errors.Wrap(err, "encode response")))
	}
}

// serverError responds to an unexpected fault with the message of its root cause.
func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.writeJSON(w, r, http.StatusInternalServerError, workout.Failure(faultMessage(err)))
}

// faultMessage returns the message of the innermost error in the chain of err, without the annotations wrapped around
// it, or [serverErrorMessage] when there is none.
func faultMessage(err error) string {
	for err != nil {
		inner := errors.Unwrap(err)
		if inner == nil {
			break
		}
		err = inner
	}
	if err == nil || err.Error() == "" {
		return serverErrorMessage
	}
	return err.Error()
}

func (app *application) badRequest(w http.ResponseWriter, r *http.Request, validationErr *workout.ValidationError) {
	app.logger.LogAttrs(r.Context(), slog.LevelInfo, "rejected invalid input",
		slog.String("field", validationErr.Field), slog.String("reason", validationErr.Message))
	app.writeJSON(w, r, http.StatusBadRequest, workout.Failure(validationErr.Message))
}
