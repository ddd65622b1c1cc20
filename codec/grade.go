package codec

import (
	"encoding/json"
	"sort"
	"strings"
)

// Check grades a student response. graded is false when the body is never scored
// automatically (essays and writing) or is nil; correct is meaningful only when graded.
//
// Accepted response shapes: option key or text (multiple choice), bool or "True"/"False"
// (true/false, anything else is wrong), string (fill in the blank), object key->value (matching), array of items
// (ordering).
func Check(a Answer, response json.RawMessage) (correct bool, graded bool) {
	if a == nil || !a.Type().AutoGraded() {
		return false, false
	}

	switch q := a.(type) {
	case MultipleChoice:
		s, ok := responseString(response)
		return ok && q.Correct != "" && q.Choices.keyOf(s) == q.Correct, true

	case TrueFalse:
		var b bool
		if err := json.Unmarshal(response, &b); err == nil {
			return b == q.Correct, true
		}
		s, ok := responseString(response)
		if !ok {
			return false, true
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true":
			return q.Correct, true
		case "false":
			return !q.Correct, true
		}
		return false, true

	case FillInTheBlank:
		s, ok := responseString(response)
		if !ok {
			return false, true
		}
		s = strings.TrimSpace(s)
		for _, accepted := range q.Accepted {
			if strings.EqualFold(s, accepted) {
				return true, true
			}
		}
		return false, true

	case Matching:
		var got map[string]string
		if err := json.Unmarshal(response, &got); err != nil || len(got) != len(q.Pairs) {
			return false, true
		}
		for _, p := range q.Pairs {
			if strings.TrimSpace(got[p.Key]) != p.Value {
				return false, true
			}
		}
		return true, true

	case Ordering:
		var got []string
		if err := json.Unmarshal(response, &got); err != nil || len(got) != len(q.Items) {
			return false, true
		}
		for i := range q.Items {
			if strings.TrimSpace(got[i]) != q.Items[i] {
				return false, true
			}
		}
		return true, true
	}
	return false, false
}

func responseString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Prompt is the student-facing view of a body: everything needed to answer, nothing
// that reveals the answer.
type Prompt struct {
	Choices *Choices `json:"choices,omitempty"`
	Keys    []string `json:"keys,omitempty"`
	Values  []string `json:"values,omitempty"`
	Items   []string `json:"items,omitempty"`
}

// PromptFor builds the student view of a. Matching values and ordering items are
// returned sorted so their stored order does not leak.
func PromptFor(a Answer) Prompt {
	switch q := a.(type) {
	case MultipleChoice:
		choices := q.Choices
		return Prompt{Choices: &choices}
	case Matching:
		p := Prompt{}
		for _, pair := range q.Pairs {
			p.Keys = append(p.Keys, pair.Key)
			p.Values = append(p.Values, pair.Value)
		}
		sort.Strings(p.Values)
		return p
	case Ordering:
		items := append([]string(nil), q.Items...)
		sort.Strings(items)
		return Prompt{Items: items}
	}
	return Prompt{}
}
