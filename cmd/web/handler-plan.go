package main

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/myrjola/fitplan/internal/errors"
	"github.com/myrjola/fitplan/internal/workout"
)

const (
	maxRequestBodyBytes     = 64 << 10
	generationFailedMessage = "Failed to generate workout plan. Please try again."
)

func (app *application) generatePlanPOST(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			app.badRequest(w, r, &workout.ValidationError{
				Field:   "",
				Message: "Request body must be at most 64 KiB.",
			})
			return
		}
		app.badRequest(w, r, &workout.ValidationError{Field: "", Message: "Request body must be a JSON object."})
		return
	}

	var validationErr *workout.ValidationError
	in, err := workout.ParseInput(body)
	if err != nil {
		if errors.As(err, &validationErr) {
			app.badRequest(w, r, validationErr)
			return
		}
		app.serverError(w, r, errors.Wrap(err, "parse input"))
		return
	}

	result, err := app.planService.GeneratePlan(ctx, in)
	switch {
	case err == nil:
		app.logger.LogAttrs(ctx, slog.LevelInfo, "generated plan",
			slog.Int("target_calories", result.Calculations.TargetCalories),
			slog.Int("training_days", workout.TrainingDays(result.Plan)))
		app.writeJSON(w, r, http.StatusOK, workout.Success(result))
	case errors.As(err, &validationErr):
		app.badRequest(w, r, validationErr)
	case errors.Is(err, workout.ErrGeneration):
		app.logger.LogAttrs(ctx, slog.LevelError, "plan generation failed",
			slog.String("failure", string(workout.ClassifyFailure(err))), errors.SlogError(err))
		app.writeJSON(w, r, http.StatusInternalServerError, workout.Failure(generationFailedMessage))
	default:
		app.serverError(w, r, err)
	}
}
