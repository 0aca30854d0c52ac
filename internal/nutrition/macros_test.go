package nutrition_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/fitplan/internal/nutrition"
)

func TestAllocateMacros(t *testing.T) {
	tests := []struct {
		name           string
		profile        nutrition.Profile
		targetCalories int
		want           nutrition.MacroSplit
	}{
		{
			name:           "muscle gain 75 kg",
			profile:        nutrition.Profile{WeightKg: 75, Goal: nutrition.GoalMuscleGain}, //nolint:exhaustruct // only weight and goal matter
			targetCalories: 2607,
			// 2607 - (600 + 540) = 1467 kcal of carbs.
			want: nutrition.MacroSplit{ProteinG: 150, CarbsG: 367, FatsG: 60},
		},
		{
			name:           "fat loss 80 kg",
			profile:        nutrition.Profile{WeightKg: 80, Goal: nutrition.GoalFatLoss}, //nolint:exhaustruct // only weight and goal matter
			targetCalories: 2207,
			want:           nutrition.MacroSplit{ProteinG: 152, CarbsG: 256, FatsG: 64},
		},
		{
			name:           "fat floor for light bodyweight",
			profile:        nutrition.Profile{WeightKg: 30, Goal: nutrition.GoalGeneralFitness}, //nolint:exhaustruct // only weight and goal matter
			targetCalories: 1500,
			// Protein 48 g, fat floor 45 g: 1500 - (192 + 405) = 903 kcal.
			want: nutrition.MacroSplit{ProteinG: 48, CarbsG: 226, FatsG: 45},
		},
		{
			name:           "fat ceiling and zero carbs when protein and fat exceed target",
			profile:        nutrition.Profile{WeightKg: 250, Goal: nutrition.GoalFatLoss}, //nolint:exhaustruct // only weight and goal matter
			targetCalories: 2581,
			want:           nutrition.MacroSplit{ProteinG: 475, CarbsG: 0, FatsG: 95},
		},
		{
			name:           "strength",
			profile:        nutrition.Profile{WeightKg: 90, Goal: nutrition.GoalStrength}, //nolint:exhaustruct // only weight and goal matter
			targetCalories: 3000,
			// Protein 162 g, fat 72 g: 3000 - (648 + 648) = 1704 kcal.
			want: nutrition.MacroSplit{ProteinG: 162, CarbsG: 426, FatsG: 72},
		},
		{
			name:           "protein and fat exactly meet target",
			profile:        nutrition.Profile{WeightKg: 100, Goal: nutrition.GoalRecomp}, //nolint:exhaustruct // only weight and goal matter
			targetCalories: 190*4 + 80*9,
			want:           nutrition.MacroSplit{ProteinG: 190, CarbsG: 0, FatsG: 80},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nutrition.AllocateMacros(tt.profile, tt.targetCalories)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("AllocateMacros() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAllocateMacrosProperties(t *testing.T) {
	forEachProfile(func(p nutrition.Profile) {
		calc := nutrition.Calculate(p)
		macros := nutrition.AllocateMacros(p, calc.TargetCalories)

		if macros.FatsG < 45 || macros.FatsG > 95 {
			t.Fatalf("AllocateMacros(%+v).FatsG = %d, want within [45, 95]", p, macros.FatsG)
		}
		if macros.CarbsG < 0 {
			t.Fatalf("AllocateMacros(%+v).CarbsG = %d, want >= 0", p, macros.CarbsG)
		}

		proteinAndFat := macros.ProteinG*4 + macros.FatsG*9
		if proteinAndFat >= calc.TargetCalories {
			if macros.CarbsG != 0 {
				t.Fatalf("AllocateMacros(%+v).CarbsG = %d, want 0 when protein and fat cover the target", p, macros.CarbsG)
			}
			return
		}
		// Carbohydrate grams are rounded, so the total may be off by at most half a gram of carbs.
		if diff := macros.Calories() - calc.TargetCalories; diff < -2 || diff > 2 {
			t.Fatalf("AllocateMacros(%+v) totals %d kcal, want %d ± 2", p, macros.Calories(), calc.TargetCalories)
		}
	})
}
