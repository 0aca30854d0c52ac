package workout_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/fitplan/internal/workout"
)

const samplePlanJSON = `{
  "title": "3-Day Fat Loss Plan",
  "overview": {
    "goalSummary": "Lose fat while keeping strength.",
    "weeklyStructure": "Three full-body days with cardio.",
    "progressionRule": "Add a rep each week.",
    "safetyNotes": ["Warm up properly."]
  },
  "schedule": [
    {
      "day": "Monday",
      "focus": "Full body",
      "warmup": ["5 min brisk walk"],
      "workout": [{"exercise": "Goblet squat", "sets": 3, "reps": "10-12", "restSec": 60}],
      "finisher": ["Plank 3x30s"],
      "cooldown": ["Stretch"]
    },
    {
      "day": "Tuesday",
      "focus": "Rest",
      "warmup": [],
      "workout": [],
      "finisher": [],
      "cooldown": []
    },
    {
      "day": "Wednesday",
      "focus": "Full body",
      "warmup": ["Jumping jacks"],
      "workout": [{"exercise": "Push-up", "sets": 3, "reps": "8-10", "restSec": 60}],
      "finisher": [],
      "cooldown": ["Stretch"]
    },
    {
      "day": "Friday",
      "focus": "Full body",
      "warmup": ["Jumping jacks"],
      "workout": [{"exercise": "Dumbbell row", "sets": 3, "reps": "10", "restSec": 60}],
      "finisher": [],
      "cooldown": ["Stretch"]
    }
  ],
  "cardio": {"frequencyPerWeek": 3, "sessions": ["20 min incline walk"]},
  "nextSteps": ["Track your sessions."],
  "disclaimer": "Consult a professional before starting."
}`

func TestParsePlan(t *testing.T) {
	plan, err := workout.ParsePlan(samplePlanJSON)
	if err != nil {
		t.Fatalf("ParsePlan() unexpected error = %v", err)
	}
	assertSameJSON(t, samplePlanJSON, plan)
	if got, want := workout.TrainingDays(plan), 3; got != want {
		t.Errorf("TrainingDays() = %d, want %d", got, want)
	}
}

func TestParsePlan_TrustsNestedContent(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "numeric reps",
			text: `{"title": "t", "schedule": [{"day": "Monday", "workout": [{"exercise": "Squat", "sets": 3, "reps": 10}]}], "disclaimer": "d"}`,
		},
		{
			name: "rest as range",
			text: `{"title": "t", "schedule": [{"workout": [{"exercise": "Row", "restSec": "60-90"}]}], "disclaimer": "d"}`,
		},
		{
			name: "extra and missing fields",
			text: `{"title": "t", "notes": "extra", "overview": {"goalSummary": "g", "extra": true}, "schedule": [], "disclaimer": "d"}`,
		},
		{
			name: "surrounding whitespace",
			text: "\n  {\"title\": \"t\", \"schedule\": [], \"disclaimer\": \"d\"}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := workout.ParsePlan(tt.text)
			if err != nil {
				t.Fatalf("ParsePlan() unexpected error = %v", err)
			}
			assertSameJSON(t, tt.text, plan)
		})
	}
}

func TestTrainingDays(t *testing.T) {
	tests := []struct {
		name string
		plan string
		want int
	}{
		{name: "empty schedule", plan: `{"schedule": []}`, want: 0},
		{name: "rest days skipped", plan: `{"schedule": [{"workout": []}, {"workout": [{}]}, {"focus": "Rest"}]}`, want: 1},
		{name: "workout not an array", plan: `{"schedule": [{"workout": "run"}, {"workout": [{}, {}]}]}`, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := workout.TrainingDays(json.RawMessage(tt.plan)); got != tt.want {
				t.Errorf("TrainingDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

// assertSameJSON fails unless got decodes to the same value as want.
func assertSameJSON(t *testing.T, want string, got json.RawMessage) {
	t.Helper()
	var wantValue, gotValue any
	if err := json.Unmarshal([]byte(want), &wantValue); err != nil {
		t.Fatalf("decode want: %v", err)
	}
	if err := json.Unmarshal(got, &gotValue); err != nil {
		t.Fatalf("decode got: %v", err)
	}
	if diff := cmp.Diff(wantValue, gotValue); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePlan_Rejections(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "prose", text: "Here is your plan: lift heavy things."},
		{name: "markdown fence", text: "```json\n{\"title\": \"x\", \"schedule\": [], \"disclaimer\": \"y\"}\n```"},
		{name: "array", text: `[{"title": "x"}]`},
		{name: "missing title", text: `{"schedule": [], "disclaimer": "y"}`},
		{name: "numeric title", text: `{"title": 3, "schedule": [], "disclaimer": "y"}`},
		{name: "schedule object", text: `{"title": "x", "schedule": {"day": "Monday"}, "disclaimer": "y"}`},
		{name: "missing disclaimer", text: `{"title": "x", "schedule": []}`},
		{name: "null disclaimer", text: `{"title": "x", "schedule": [], "disclaimer": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := workout.ParsePlan(tt.text); err == nil {
				t.Fatal("ParsePlan() expected error")
			} else if got := workout.ClassifyFailure(err); got != workout.FailureInvalidOutput {
				t.Errorf("ClassifyFailure() = %q, want %q", got, workout.FailureInvalidOutput)
			}
		})
	}
}

func TestClassifyFailure_NotGeneration(t *testing.T) {
	if got := workout.ClassifyFailure(errors.New("boom")); got != workout.FailureUnknown {
		t.Errorf("ClassifyFailure() = %q, want %q", got, workout.FailureUnknown)
	}
	if got := workout.ClassifyFailure(nil); got != "" {
		t.Errorf("ClassifyFailure(nil) = %q, want empty", got)
	}
}
