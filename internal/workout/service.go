package workout

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/myrjola/fitplan/internal/errors"
	"github.com/myrjola/fitplan/internal/nutrition"
)

const daysPerWeek = 7

// Service runs the plan pipeline: validate, calculate, prompt, generate, and parse.
type Service struct {
	generator Generator
	logger    *slog.Logger
}

// NewService creates a new workout plan service using generator for the plan text.
func NewService(generator Generator, logger *slog.Logger) *Service {
	return &Service{
		generator: generator,
		logger:    logger,
	}
}

// Calculate computes the energy figures and the macro split for in.
func Calculate(in Input) (nutrition.Calculations, nutrition.MacroSplit) {
	profile := in.Profile()
	calc := nutrition.Calculate(profile)
	return calc, nutrition.AllocateMacros(profile, calc.TargetCalories)
}

// GeneratePlan computes the deterministic numbers for in and asks the generator for a matching plan.
//
// A [*ValidationError] is returned for invalid input. Every generator failure, including output that is not a JSON
// object of the expected top-level shape, is wrapped with [ErrGeneration]. Nothing is retried and no partial result
// is returned.
func (s *Service) GeneratePlan(ctx context.Context, in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err //nolint:wrapcheck // callers inspect *ValidationError.
	}

	calc, macros := Calculate(in)
	s.logger.LogAttrs(ctx, slog.LevelDebug, "calculated targets",
		slog.Int("bmr", calc.BMR),
		slog.Int("tdee", calc.TDEE),
		slog.Int("target_calories", calc.TargetCalories),
		slog.Int("protein_g", macros.ProteinG),
		slog.Int("carbs_g", macros.CarbsG),
		slog.Int("fats_g", macros.FatsG))

	prompt, err := BuildPrompt(in, calc, macros)
	if err != nil {
		return Result{}, errors.Wrap(err, "build prompt")
	}

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return Result{}, generationError(err, "generate plan",
			slog.String("failure", string(ClassifyFailure(err))))
	}

	plan, err := ParsePlan(text)
	if err != nil {
		return Result{}, generationError(err, "parse plan",
			slog.String("failure", string(ClassifyFailure(err))))
	}

	s.checkSchedule(ctx, in, plan)

	return Result{
		Calculations: calc,
		Macros:       macros,
		Plan:         plan,
	}, nil
}

// checkSchedule logs when the plan diverges from the requested structure. The plan is still returned as is.
func (s *Service) checkSchedule(ctx context.Context, in Input, plan json.RawMessage) {
	if got := TrainingDays(plan); got != in.DaysPerWeek {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "plan training days differ from request",
			slog.Int("requested", in.DaysPerWeek), slog.Int("planned", got))
	}
	if n := scheduleLength(plan); n > daysPerWeek {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "plan schedule longer than a week",
			slog.Int("entries", n))
	}
}
