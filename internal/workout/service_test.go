package workout_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/fitplan/internal/nutrition"
	"github.com/myrjola/fitplan/internal/testhelpers"
	"github.com/myrjola/fitplan/internal/workout"
)

func maleFatLossInput() workout.Input {
	return workout.Input{
		Sex:               nutrition.SexMale,
		Age:               30,
		HeightCm:          180,
		WeightKg:          80,
		GoalWeightKg:      nil,
		ActivityLevel:     nutrition.ActivityModerate,
		Goal:              nutrition.GoalFatLoss,
		Level:             workout.LevelIntermediate,
		DaysPerWeek:       3,
		TimePerSessionMin: 60,
		Equipment:         workout.EquipmentGym,
	}
}

func newService(t *testing.T, fn workout.GeneratorFunc) *workout.Service {
	t.Helper()
	return workout.NewService(fn, testhelpers.NewLogger(testhelpers.NewWriter(t)))
}

func TestService_GeneratePlan(t *testing.T) {
	var prompt string
	svc := newService(t, func(_ context.Context, p string) (string, error) {
		prompt = p
		return samplePlanJSON, nil
	})

	result, err := svc.GeneratePlan(t.Context(), maleFatLossInput())
	if err != nil {
		t.Fatalf("GeneratePlan() unexpected error = %v", err)
	}

	wantCalc := nutrition.Calculations{BMR: 1780, ActivityMultiplier: 1.55, TDEE: 2759, TargetCalories: 2207}
	if diff := cmp.Diff(wantCalc, result.Calculations); diff != "" {
		t.Errorf("Calculations mismatch (-want +got):\n%s", diff)
	}
	wantMacros := nutrition.MacroSplit{ProteinG: 152, CarbsG: 256, FatsG: 64}
	if diff := cmp.Diff(wantMacros, result.Macros); diff != "" {
		t.Errorf("Macros mismatch (-want +got):\n%s", diff)
	}
	assertSameJSON(t, samplePlanJSON, result.Plan)

	for _, want := range []string{"- Target calories: 2207", "protein 152g, carbs 256g, fats 64g", "exactly 3 workout days"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt does not contain %q", want)
		}
	}
}

func TestService_GeneratePlan_Deterministic(t *testing.T) {
	svc := newService(t, func(context.Context, string) (string, error) {
		return samplePlanJSON, nil
	})

	first, err := svc.GeneratePlan(t.Context(), maleFatLossInput())
	if err != nil {
		t.Fatalf("GeneratePlan() unexpected error = %v", err)
	}
	second, err := svc.GeneratePlan(t.Context(), maleFatLossInput())
	if err != nil {
		t.Fatalf("GeneratePlan() unexpected error = %v", err)
	}
	if diff := cmp.Diff(first.Calculations, second.Calculations); diff != "" {
		t.Errorf("Calculations differ between runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Macros, second.Macros); diff != "" {
		t.Errorf("Macros differ between runs (-first +second):\n%s", diff)
	}
}

func TestService_GeneratePlan_GenerationFailures(t *testing.T) {
	tests := []struct {
		name     string
		generate workout.GeneratorFunc
	}{
		{
			name: "not JSON",
			generate: func(context.Context, string) (string, error) {
				return "Sure! Here is your plan: squat a lot.", nil
			},
		},
		{
			name: "wrong shape",
			generate: func(context.Context, string) (string, error) {
				return `{"title": "x", "schedule": "Monday", "disclaimer": "y"}`, nil
			},
		},
		{
			name: "generator error",
			generate: func(context.Context, string) (string, error) {
				return "", errors.New("connection reset")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, tt.generate)
			result, err := svc.GeneratePlan(t.Context(), maleFatLossInput())
			if !errors.Is(err, workout.ErrGeneration) {
				t.Fatalf("GeneratePlan() error = %v, want ErrGeneration", err)
			}
			if diff := cmp.Diff(workout.Result{}, result); diff != "" {
				t.Errorf("expected zero result on failure (-want +got):\n%s", diff)
			}
		})
	}
}

func TestService_GeneratePlan_InvalidInput(t *testing.T) {
	var calls atomic.Int32
	svc := newService(t, func(context.Context, string) (string, error) {
		calls.Add(1)
		return samplePlanJSON, nil
	})

	in := maleFatLossInput()
	in.Age = 10
	_, err := svc.GeneratePlan(t.Context(), in)

	var validationErr *workout.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("GeneratePlan() error = %v, want *ValidationError", err)
	}
	if got, want := validationErr.Field, "age"; got != want {
		t.Errorf("Field = %q, want %q", got, want)
	}
	if errors.Is(err, workout.ErrGeneration) {
		t.Error("validation error must not be a generation error")
	}
	if got := calls.Load(); got != 0 {
		t.Errorf("generator called %d times, want 0", got)
	}
}

func TestService_GeneratePlan_DayMismatchStillReturned(t *testing.T) {
	svc := newService(t, func(context.Context, string) (string, error) {
		return samplePlanJSON, nil
	})
	in := maleFatLossInput()
	in.DaysPerWeek = 5

	result, err := svc.GeneratePlan(t.Context(), in)
	if err != nil {
		t.Fatalf("GeneratePlan() unexpected error = %v", err)
	}
	if got := workout.TrainingDays(result.Plan); got != 3 {
		t.Errorf("TrainingDays() = %d, want plan returned unchanged with 3", got)
	}
}

func TestService_GeneratePlan_PlanPassedThroughUnchanged(t *testing.T) {
	const text = `{
  "title": "Strength Block",
  "coachNote": "not part of the requested shape",
  "overview": {"goalSummary": "Get stronger."},
  "schedule": [
    {"day": "Monday", "workout": [{"exercise": "Squat", "sets": 5, "reps": 5, "restSec": "120-180"}]},
    {"day": "Thursday", "workout": [{"exercise": "Deadlift", "sets": 3, "reps": 3}]}
  ],
  "disclaimer": "Lift with good form."
}`
	svc := newService(t, func(context.Context, string) (string, error) {
		return text, nil
	})
	in := maleFatLossInput()
	in.Goal = nutrition.GoalStrength

	result, err := svc.GeneratePlan(t.Context(), in)
	if err != nil {
		t.Fatalf("GeneratePlan() unexpected error = %v", err)
	}
	assertSameJSON(t, text, result.Plan)

	envelope, err := json.Marshal(workout.Success(result))
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	var decoded struct {
		Plan json.RawMessage `json:"plan"`
	}
	if err = json.Unmarshal(envelope, &decoded); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	assertSameJSON(t, text, decoded.Plan)
}
