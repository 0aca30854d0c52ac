package nutrition

const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9

	fatGramsPerKg = 0.8
	minFatGrams   = 45
	maxFatGrams   = 95

	defaultProteinPerKg = 1.6
)

//nolint:gochecknoglobals // lookup table.
var proteinPerKg = map[Goal]float64{
	GoalMuscleGain: 2.0,
	GoalStrength:   1.8,
	GoalFatLoss:    1.9,
	GoalRecomp:     1.9,
}

// ProteinPerKg returns grams of protein per kilogram of bodyweight for goal.
func ProteinPerKg(goal Goal) float64 {
	if f, ok := proteinPerKg[goal]; ok {
		return f
	}
	return defaultProteinPerKg
}

// AllocateMacros splits targetCalories into protein, fat and carbohydrate grams.
//
// Protein and fat are set from bodyweight first and carbohydrates fill the remaining calories. When protein and fat
// already cover the target the carbohydrate allowance is zero, never negative.
func AllocateMacros(p Profile, targetCalories int) MacroSplit {
	protein := round(p.WeightKg * ProteinPerKg(p.Goal))
	fats := min(max(round(p.WeightKg*fatGramsPerKg), minFatGrams), maxFatGrams)

	remaining := max(0, targetCalories-(protein*kcalPerGramProtein+fats*kcalPerGramFat))
	carbs := round(float64(remaining) / kcalPerGramCarbs)

	return MacroSplit{
		ProteinG: protein,
		CarbsG:   carbs,
		FatsG:    fats,
	}
}
