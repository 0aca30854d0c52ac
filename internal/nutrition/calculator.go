package nutrition

import "math"

//nolint:gochecknoglobals // lookup table.
var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityVeryActive: 1.725,
	ActivityAthlete:    1.9,
}

//nolint:gochecknoglobals // lookup table.
var goalCalorieFactors = map[Goal]float64{
	GoalFatLoss:        0.8,
	GoalMuscleGain:     1.1,
	GoalStrength:       1.0,
	GoalRecomp:         0.9,
	GoalGeneralFitness: 1.0,
}

// BMR returns the unrounded basal metabolic rate using the Mifflin-St Jeor equation.
func BMR(p Profile) float64 {
	base := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age) //nolint:mnd // Mifflin-St Jeor coefficients.
	if p.Sex == SexMale {
		return base + 5 //nolint:mnd // male offset
	}
	return base - 161 //nolint:mnd // female offset
}

// ActivityMultiplier returns the TDEE multiplier for level and whether level is known.
func ActivityMultiplier(level ActivityLevel) (float64, bool) {
	m, ok := activityMultipliers[level]
	return m, ok
}

// GoalCalorieFactor returns the factor applied to maintenance calories. Unknown goals maintain.
func GoalCalorieFactor(goal Goal) float64 {
	if f, ok := goalCalorieFactors[goal]; ok {
		return f
	}
	return 1.0
}

// Calculate derives BMR, TDEE and the goal adjusted calorie target.
//
// Rounding happens only when exposing the values. TDEE is computed from the unrounded BMR and the target from the
// unrounded TDEE so that results are reproducible to the calorie.
func Calculate(p Profile) Calculations {
	bmr := BMR(p)
	multiplier, _ := ActivityMultiplier(p.ActivityLevel)
	tdee := bmr * multiplier
	target := tdee * GoalCalorieFactor(p.Goal)

	return Calculations{
		BMR:                round(bmr),
		ActivityMultiplier: multiplier,
		TDEE:               round(tdee),
		TargetCalories:     round(target),
	}
}

func round(f float64) int {
	return int(math.Round(f))
}
