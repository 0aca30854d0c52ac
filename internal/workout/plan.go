package workout

import (
	"bytes"
	"encoding/json"
	"log/slog"

	"github.com/myrjola/fitplan/internal/errors"
	"github.com/tidwall/gjson"
)

var errPlanShape = errors.NewSentinel("unexpected plan shape")

// ParsePlan makes the single parse attempt of the generator output.
//
// The text must be a JSON object with a string title, a schedule array and a string disclaimer. Everything below the
// top level is trusted as is and returned untouched, including fields the plan shape does not mention.
func ParsePlan(text string) (json.RawMessage, error) {
	if !gjson.Valid(text) {
		return nil, errors.Wrap(errPlanShape, "output is not valid JSON", slog.Int("length", len(text)))
	}

	doc := gjson.Parse(text)
	if !doc.IsObject() {
		return nil, errors.Wrap(errPlanShape, "output is not a JSON object")
	}
	if doc.Get("title").Type != gjson.String {
		return nil, errors.Wrap(errPlanShape, "title is not a string")
	}
	if !doc.Get("schedule").IsArray() {
		return nil, errors.Wrap(errPlanShape, "schedule is not an array")
	}
	if doc.Get("disclaimer").Type != gjson.String {
		return nil, errors.Wrap(errPlanShape, "disclaimer is not a string")
	}

	return json.RawMessage(bytes.TrimSpace([]byte(text))), nil
}

// TrainingDays counts the schedule entries of plan whose workout is a non-empty array.
func TrainingDays(plan json.RawMessage) int {
	n := 0
	gjson.GetBytes(plan, "schedule").ForEach(func(_, day gjson.Result) bool {
		if workout := day.Get("workout"); workout.IsArray() && len(workout.Array()) > 0 {
			n++
		}
		return true
	})
	return n
}

// scheduleLength returns the number of schedule entries in plan.
func scheduleLength(plan json.RawMessage) int {
	return int(gjson.GetBytes(plan, "schedule.#").Int())
}
