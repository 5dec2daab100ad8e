package http

import (
	"encoding/json"
	"errors"
	"math"

	"trivia-scoring/internal/domain"
)

var errAnswerNotObject = errors.New("answer payload must be an object")

// decodeAnswer reads an answer payload field by field. A field of the wrong
// type falls back to its zero value, so a malformed difficulty still scores as
// medium. Only a payload that is not a JSON object is rejected.
func decodeAnswer(raw json.RawMessage) (domain.AnswerEvent, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return domain.AnswerEvent{}, errAnswerNotObject
	}

	var event domain.AnswerEvent
	if v, ok := fields["isCorrect"]; ok {
		_ = json.Unmarshal(v, &event.IsCorrect)
	}
	if v, ok := fields["difficulty"]; ok {
		var s string
		if json.Unmarshal(v, &s) == nil {
			event.Difficulty = domain.Difficulty(s)
		}
	}
	if v, ok := fields["category"]; ok {
		_ = json.Unmarshal(v, &event.Category)
	}
	if v, ok := fields["responseTimeMs"]; ok {
		var f float64
		if json.Unmarshal(v, &f) == nil && !math.IsNaN(f) && math.Abs(f) < math.MaxInt32 {
			ms := int(math.Round(f))
			event.ResponseTimeMs = &ms
		}
	}
	return event, nil
}
