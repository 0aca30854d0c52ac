package workout

import (
	"encoding/json"

	"github.com/myrjola/fitplan/internal/nutrition"
)

// Level is the training experience of the user.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Equipment is the equipment available for training.
type Equipment string

const (
	EquipmentGym        Equipment = "gym"
	EquipmentHomeBasic  Equipment = "home_basic"
	EquipmentBodyweight Equipment = "bodyweight"
)

// Input is the validated request for a workout plan. Construct it with [ParseInput] or call [Input.Validate].
type Input struct {
	Sex      nutrition.Sex `json:"sex"`
	Age      int           `json:"age"`
	HeightCm float64       `json:"heightCm"`
	WeightKg float64       `json:"weightKg"`

	// GoalWeightKg is optional and only passed on to the plan generator.
	GoalWeightKg *float64 `json:"goalWeightKg,omitempty"`

	ActivityLevel     nutrition.ActivityLevel `json:"activityLevel"`
	Goal              nutrition.Goal          `json:"goal"`
	Level             Level                   `json:"level"`
	DaysPerWeek       int                     `json:"daysPerWeek"`
	TimePerSessionMin int                     `json:"timePerSessionMin"`
	Equipment         Equipment               `json:"equipment"`
}

// Profile returns the part of the input the energy calculations use.
func (i Input) Profile() nutrition.Profile {
	return nutrition.Profile{
		Sex:           i.Sex,
		Age:           i.Age,
		HeightCm:      i.HeightCm,
		WeightKg:      i.WeightKg,
		ActivityLevel: i.ActivityLevel,
		Goal:          i.Goal,
	}
}

// Result bundles the deterministic numbers with the generated plan.
type Result struct {
	Calculations nutrition.Calculations
	Macros       nutrition.MacroSplit
	// Plan is the generator output exactly as parsed. Only its top-level shape is checked, see [ParsePlan].
	Plan json.RawMessage
}

// APIResponse is the envelope returned to callers. Either OK is true and the calculations, macros and plan are set,
// or OK is false and Error explains why.
type APIResponse struct {
	OK           bool                    `json:"ok"`
	Calculations *nutrition.Calculations `json:"calculations,omitempty"`
	Macros       *nutrition.MacroSplit   `json:"macros,omitempty"`
	Plan         json.RawMessage         `json:"plan,omitempty"`
	Error        string                  `json:"error,omitempty"`
}

// Success wraps a complete result.
func Success(r Result) APIResponse {
	return APIResponse{
		OK:           true,
		Calculations: &r.Calculations,
		Macros:       &r.Macros,
		Plan:         r.Plan,
		Error:        "",
	}
}

// Failure creates an error envelope without any partial data.
func Failure(msg string) APIResponse {
	return APIResponse{
		OK:           false,
		Calculations: nil,
		Macros:       nil,
		Plan:         nil,
		Error:        msg,
	}
}
