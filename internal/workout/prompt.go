package workout

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/myrjola/fitplan/internal/nutrition"
)

// SystemInstruction constrains the plan generator to JSON output.
const SystemInstruction = "You output strict JSON only."

//go:embed prompt.tmpl
var promptTemplateText string

//nolint:gochecknoglobals // parsed once at startup.
var promptTemplate = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"number": formatNumber,
}).Parse(promptTemplateText))

//nolint:gochecknoglobals // lookup table.
var goalRules = map[nutrition.Goal]string{
	nutrition.GoalFatLoss:        "include cardio 2–4x/week, strength full-body or upper/lower.",
	nutrition.GoalMuscleGain:     "prioritize progressive overload; cardio minimal.",
	nutrition.GoalRecomp:         "balanced strength + moderate cardio.",
	nutrition.GoalStrength:       "lower reps, higher rest, main lifts.",
	nutrition.GoalGeneralFitness: "mix strength + cardio + mobility.",
}

type goalRule struct {
	Goal nutrition.Goal
	Rule string
}

type promptData struct {
	Input        Input
	Calculations nutrition.Calculations
	Macros       nutrition.MacroSplit
	GoalRules    []goalRule
}

// GoalRule returns the plan characteristics required for goal.
func GoalRule(goal nutrition.Goal) string {
	return goalRules[goal]
}

// BuildPrompt renders the instructions for the plan generator.
//
// Every input field and calculated number is embedded verbatim together with the required JSON shape and the goal
// specific rules.
func BuildPrompt(in Input, calc nutrition.Calculations, macros nutrition.MacroSplit) (string, error) {
	rules := make([]goalRule, 0, len(goalRules))
	for _, g := range nutrition.Goals() {
		rules = append(rules, goalRule{Goal: g, Rule: goalRules[g]})
	}

	var sb strings.Builder
	if err := promptTemplate.Execute(&sb, promptData{
		Input:        in,
		Calculations: calc,
		Macros:       macros,
		GoalRules:    rules,
	}); err != nil {
		return "", fmt.Errorf("execute prompt template: %w", err)
	}
	return sb.String(), nil
}
