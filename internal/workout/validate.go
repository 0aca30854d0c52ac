package workout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/myrjola/fitplan/internal/nutrition"
)

const (
	minAge               = 13
	maxAge               = 80
	minHeightCm          = 120
	maxHeightCm          = 230
	minWeightKg          = 30
	maxWeightKg          = 250
	minDaysPerWeek       = 1
	maxDaysPerWeek       = 6
	minTimePerSessionMin = 20
	maxTimePerSessionMin = 120
)

//nolint:gochecknoglobals // allowed enum values.
var (
	sexes      = []nutrition.Sex{nutrition.SexMale, nutrition.SexFemale}
	levels     = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}
	equipments = []Equipment{EquipmentGym, EquipmentHomeBasic, EquipmentBodyweight}
)

// ValidationError reports the first input field that violates its constraint.
type ValidationError struct {
	// Field is the JSON name of the offending field. It is empty when the payload itself is malformed.
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

type inputField struct {
	name     string
	optional bool
	parse    func(in *Input, raw json.RawMessage) error
}

// inputFields lists the fields in the order they are validated.
//
//nolint:gochecknoglobals // static field table.
var inputFields = []inputField{
	{name: "sex", optional: false, parse: func(in *Input, raw json.RawMessage) error {
		var err error
		in.Sex, err = parseEnum("sex", raw, sexes)
		return err
	}},
	{name: "age", optional: false, parse: func(in *Input, raw json.RawMessage) error {
		var err error
		in.Age, err = parseInteger("age", raw, minAge, maxAge)
		return err
	}},
	{name: "heightCm", optional: false, parse: func(in *Input, raw json.RawMessage) error {
		var err error
		in.HeightCm, err = parseNumber("heightCm", raw, minHeightCm, maxHeightCm)
		return err
	}},
	{name: "weightKg", optional: false, parse: func(in *Input, raw json.RawMessage) error {
		var err error
		in.WeightKg, err = parseNumber("weightKg", raw, minWeightKg, maxWeightKg)
		return err
	}},
	{name: "goalWeightKg", optional: true, parse: func(in *Input, raw json.RawMessage) error {
		v, err := parseNumber("goalWeightKg", raw, minWeightKg, maxWeightKg)
		if err != nil {
			return err
		}
		in.GoalWeightKg = &v
		return nil
	}},
	{name: "activityLevel", optional: false, parse: func(in *Input, raw json.RawMessage) error {
		var err error
		in.ActivityLevel, err = parseEnum("activityLevel", raw, nutrition.ActivityLevels())
		return err
	}},
	{name: "goal", optional: false, parse: func(in *Input, raw json.RawMessage) error {
		var err error
		in.Goal, err = parseEnum("goal", raw, nutrition.Goals())
		return err
	}},
	{name: "level", optional: false, parse: func(in *Input, raw json.RawMessage) error {
		var err error
		in.Level, err = parseEnum("level", raw, levels)
		return err
	}},
	{name: "daysPerWeek", optional: false, parse: func(in *Input, raw json.RawMessage) error {
		var err error
		in.DaysPerWeek, err = parseInteger("daysPerWeek", raw, minDaysPerWeek, maxDaysPerWeek)
		return err
	}},
	{name: "timePerSessionMin", optional: false, parse: func(in *Input, raw json.RawMessage) error {
		var err error
		in.TimePerSessionMin, err = parseInteger("timePerSessionMin", raw, minTimePerSessionMin, maxTimePerSessionMin)
		return err
	}},
	{name: "equipment", optional: false, parse: func(in *Input, raw json.RawMessage) error {
		var err error
		in.Equipment, err = parseEnum("equipment", raw, equipments)
		return err
	}},
}

// ParseInput decodes and validates a raw JSON request body.
//
// Fields are checked in a fixed order and the first violation is returned as a [*ValidationError]. Numeric fields
// must be JSON numbers; numeric strings are rejected. Unknown fields are ignored.
func ParseInput(data []byte) (Input, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return Input{}, invalid("", "Request body must be a JSON object.")
	}

	var in Input
	for _, f := range inputFields {
		raw, ok := obj[f.name]
		if !ok || isNull(raw) {
			if f.optional {
				continue
			}
			return Input{}, invalid(f.name, "%s is required", f.name)
		}
		if err := f.parse(&in, raw); err != nil {
			return Input{}, err
		}
	}
	return in, nil
}

// Validate checks an already typed Input against the same constraints as [ParseInput].
func (i Input) Validate() error {
	checks := []func() error{
		func() error { return checkEnum("sex", i.Sex, sexes) },
		func() error { return checkRange("age", float64(i.Age), minAge, maxAge) },
		func() error { return checkRange("heightCm", i.HeightCm, minHeightCm, maxHeightCm) },
		func() error { return checkRange("weightKg", i.WeightKg, minWeightKg, maxWeightKg) },
		func() error {
			if i.GoalWeightKg == nil {
				return nil
			}
			return checkRange("goalWeightKg", *i.GoalWeightKg, minWeightKg, maxWeightKg)
		},
		func() error { return checkEnum("activityLevel", i.ActivityLevel, nutrition.ActivityLevels()) },
		func() error { return checkEnum("goal", i.Goal, nutrition.Goals()) },
		func() error { return checkEnum("level", i.Level, levels) },
		func() error { return checkRange("daysPerWeek", float64(i.DaysPerWeek), minDaysPerWeek, maxDaysPerWeek) },
		func() error {
			return checkRange("timePerSessionMin", float64(i.TimePerSessionMin), minTimePerSessionMin, maxTimePerSessionMin)
		},
		func() error { return checkEnum("equipment", i.Equipment, equipments) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeNumber(field string, raw json.RawMessage) (float64, error) {
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, invalid(field, "%s must be a number", field)
	}
	return v, nil
}

func parseNumber(field string, raw json.RawMessage, minVal, maxVal float64) (float64, error) {
	v, err := decodeNumber(field, raw)
	if err != nil {
		return 0, err
	}
	if err = checkRange(field, v, minVal, maxVal); err != nil {
		return 0, err
	}
	return v, nil
}

func parseInteger(field string, raw json.RawMessage, minVal, maxVal int) (int, error) {
	v, err := decodeNumber(field, raw)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, invalid(field, "%s must be an integer", field)
	}
	if err = checkRange(field, v, float64(minVal), float64(maxVal)); err != nil {
		return 0, err
	}
	return int(v), nil
}

func parseEnum[T ~string](field string, raw json.RawMessage, allowed []T) (T, error) {
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", invalid(field, "%s must be one of %s", field, joinEnum(allowed))
	}
	if err := checkEnum(field, T(v), allowed); err != nil {
		return "", err
	}
	return T(v), nil
}

func checkRange(field string, v, minVal, maxVal float64) error {
	if v < minVal {
		return invalid(field, "%s must be at least %s", field, formatNumber(minVal))
	}
	if v > maxVal {
		return invalid(field, "%s must be at most %s", field, formatNumber(maxVal))
	}
	return nil
}

func checkEnum[T ~string](field string, v T, allowed []T) error {
	if !slices.Contains(allowed, v) {
		return invalid(field, "%s must be one of %s", field, joinEnum(allowed))
	}
	return nil
}

func joinEnum[T ~string](allowed []T) string {
	s := make([]string, len(allowed))
	for i, a := range allowed {
		s[i] = string(a)
	}
	return strings.Join(s, ", ")
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
