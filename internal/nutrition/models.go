// Package nutrition computes energy and macronutrient targets from anthropometric input.
//
// All functions are pure. Inputs are expected to be validated by the caller.
package nutrition

// Sex is the biological sex used by the Mifflin-St Jeor equation.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ActivityLevel describes daily activity outside of workouts.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityVeryActive ActivityLevel = "very_active"
	ActivityAthlete    ActivityLevel = "athlete"
)

// ActivityLevels returns the activity tiers from least to most active.
func ActivityLevels() []ActivityLevel {
	return []ActivityLevel{ActivitySedentary, ActivityLight, ActivityModerate, ActivityVeryActive, ActivityAthlete}
}

// Goal is the training and nutrition objective.
type Goal string

const (
	GoalFatLoss        Goal = "fat_loss"
	GoalMuscleGain     Goal = "muscle_gain"
	GoalRecomp         Goal = "recomp"
	GoalStrength       Goal = "strength"
	GoalGeneralFitness Goal = "general_fitness"
)

// Goals returns every supported goal.
func Goals() []Goal {
	return []Goal{GoalFatLoss, GoalMuscleGain, GoalRecomp, GoalStrength, GoalGeneralFitness}
}

// Profile holds the inputs needed for the energy and macro calculations.
type Profile struct {
	Sex           Sex
	Age           int
	HeightCm      float64
	WeightKg      float64
	ActivityLevel ActivityLevel
	Goal          Goal
}

// Calculations are the rounded energy figures exposed to callers.
type Calculations struct {
	BMR                int     `json:"bmr"`
	ActivityMultiplier float64 `json:"activityMultiplier"`
	TDEE               int     `json:"tdee"`
	TargetCalories     int     `json:"targetCalories"`
}

// MacroSplit is the daily macronutrient target in grams.
type MacroSplit struct {
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatsG    int `json:"fats_g"`
}

// Calories returns the energy content of the split using 4/4/9 kcal per gram.
func (m MacroSplit) Calories() int {
	return m.ProteinG*kcalPerGramProtein + m.CarbsG*kcalPerGramCarbs + m.FatsG*kcalPerGramFat
}
