package checklist

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/feichai0017/document-checklist/internal/models"
)

const parseErrorMessage = "Failed to parse response as JSON"

// FallbackAnswers is the result recorded when the model reply is not a JSON object.
func FallbackAnswers() models.ChecklistAnswers {
	return models.ChecklistAnswers{
		QuestionAnswers:      map[string]string{"error": parseErrorMessage},
		ConditionEvaluations: map[string]bool{},
	}
}

// ParseResponse decodes the whole reply as one JSON object. Replies wrapped in
// code fences or prose are not repaired.
func ParseResponse(text string) models.ChecklistAnswers {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &top); err != nil || top == nil {
		return FallbackAnswers()
	}

	answers := models.EmptyAnswers()
	if raw, ok := top["question_answers"]; ok {
		var values map[string]json.RawMessage
		if json.Unmarshal(raw, &values) == nil {
			for k, v := range values {
				answers.QuestionAnswers[k] = answerText(v)
			}
		}
	}
	if raw, ok := top["condition_evaluations"]; ok {
		var values map[string]json.RawMessage
		if json.Unmarshal(raw, &values) == nil {
			for k, v := range values {
				answers.ConditionEvaluations[k] = evaluation(v)
			}
		}
	}
	return answers
}

// answerText keeps strings as-is and any other JSON value as compact JSON text.
func answerText(raw json.RawMessage) string {
	var s string
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte(`"`)) && json.Unmarshal(raw, &s) == nil {
		return s
	}
	var buf bytes.Buffer
	if json.Compact(&buf, raw) == nil {
		return buf.String()
	}
	return string(raw)
}

// evaluation accepts booleans and the strings "true"/"false"; anything else is false.
func evaluation(raw json.RawMessage) bool {
	var b bool
	if json.Unmarshal(raw, &b) == nil {
		return b
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.EqualFold(strings.TrimSpace(s), "true")
	}
	return false
}
