package codec

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseBody reads a typed body sent by an authoring client and normalizes it. It is
// strict, unlike Decode: problems are reported per field so the editor can show them.
func ParseBody(t QuestionType, raw json.RawMessage) (Answer, map[string]string) {
	errs := make(map[string]string)
	if !t.Valid() {
		errs["type"] = "Unsupported question type!"
		return nil, errs
	}
	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage("{}")
	}

	switch t {
	case MultipleChoiceType:
		var q MultipleChoice
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, invalidBody(errs)
		}
		for _, key := range choiceKeys {
			if text, _ := q.Choices.Get(key); strings.TrimSpace(text) == "" {
				errs["body.choices."+key] = fmt.Sprintf("Option %s is required!", key)
			}
		}
		q.Correct = q.Choices.keyOf(q.Correct)
		if q.Correct == "" {
			errs["body.correct"] = "Correct answer must be one of A, B, C or D!"
		}
		return q, nilIfEmpty(errs)

	case TrueFalseType:
		var probe struct {
			Correct any `json:"correct"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil, invalidBody(errs)
		}
		switch v := probe.Correct.(type) {
		case bool:
			return TrueFalse{Correct: v}, nil
		case string:
			return TrueFalse{Correct: parseTrueFalse(v)}, nil
		}
		return TrueFalse{Correct: true}, nil

	case FillInTheBlankType:
		var q FillInTheBlank
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, invalidBody(errs)
		}
		accepted := make([]string, 0, len(q.Accepted))
		for _, a := range q.Accepted {
			a = strings.TrimSpace(a)
			if a == "" {
				continue
			}
			if strings.Contains(a, acceptedSeparator) {
				errs["body.accepted"] = "Answers must not contain \"||\"!"
			}
			accepted = append(accepted, a)
		}
		if len(accepted) == 0 {
			errs["body.accepted"] = "At least one accepted answer is required!"
		}
		return FillInTheBlank{Accepted: accepted}, nilIfEmpty(errs)

	case MatchingType:
		var q Matching
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, invalidBody(errs)
		}
		seen := make(map[string]bool, len(q.Pairs))
		for i, p := range q.Pairs {
			q.Pairs[i].Key = strings.TrimSpace(p.Key)
			q.Pairs[i].Value = strings.TrimSpace(p.Value)
			field := fmt.Sprintf("body.pairs.%d", i)
			switch {
			case q.Pairs[i].Key == "" || q.Pairs[i].Value == "":
				errs[field] = "Both key and value are required!"
			case seen[q.Pairs[i].Key]:
				errs[field] = "Keys must be unique!"
			}
			seen[q.Pairs[i].Key] = true
		}
		if len(q.Pairs) == 0 {
			errs["body.pairs"] = "At least one pair is required!"
		}
		return q, nilIfEmpty(errs)

	case OrderingType:
		var q Ordering
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, invalidBody(errs)
		}
		for i, item := range q.Items {
			q.Items[i] = strings.TrimSpace(item)
			if q.Items[i] == "" {
				errs[fmt.Sprintf("body.items.%d", i)] = "Items must not be empty!"
			}
		}
		if len(q.Items) < 2 {
			errs["body.items"] = "At least two items are required!"
		}
		return q, nilIfEmpty(errs)

	case EssayType:
		var q Essay
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, invalidBody(errs)
		}
		return q, nil

	case WritingType:
		var q Writing
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, invalidBody(errs)
		}
		return q, nil
	}
	return nil, invalidBody(errs)
}

func invalidBody(errs map[string]string) map[string]string {
	errs["body"] = "Invalid question body!"
	return errs
}

func nilIfEmpty(errs map[string]string) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	return errs
}
