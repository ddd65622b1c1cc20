// Package codec translates typed question bodies to and from the two generic strings
// stored on every question row. Nothing outside this package reads or writes those
// strings directly.
package codec

import (
	"bytes"
	"encoding/json"
	"strings"
)

// QuestionType selects how a question's payloads are interpreted.
type QuestionType string

const (
	MultipleChoiceType QuestionType = "MULTIPLE_CHOICE"
	TrueFalseType      QuestionType = "TRUE_FALSE"
	FillInTheBlankType QuestionType = "FILL_IN_THE_BLANK"
	MatchingType       QuestionType = "MATCHING"
	OrderingType       QuestionType = "ORDERING"
	EssayType          QuestionType = "ESSAY"
	WritingType        QuestionType = "WRITING"
)

// AllTypes lists every supported question type.
var AllTypes = []QuestionType{
	MultipleChoiceType,
	TrueFalseType,
	FillInTheBlankType,
	MatchingType,
	OrderingType,
	EssayType,
	WritingType,
}

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}

// AutoGraded reports whether answers of this type are scored automatically.
func (t QuestionType) AutoGraded() bool {
	return t.Valid() && t != EssayType && t != WritingType
}

const acceptedSeparator = "||"

// Payload is the wire form of a question body.
type Payload struct {
	Options string
	Answer  string
}

// Answer is the typed body of a question. Every question type has exactly one
// implementation in this package.
type Answer interface {
	Type() QuestionType
	encode() Payload
}

// Choices holds the four options of a multiple choice question.
type Choices struct {
	A string `json:"A"`
	B string `json:"B"`
	C string `json:"C"`
	D string `json:"D"`
}

var choiceKeys = []string{"A", "B", "C", "D"}

// Get returns the option text stored under key.
func (c Choices) Get(key string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(key)) {
	case "A":
		return c.A, true
	case "B":
		return c.B, true
	case "C":
		return c.C, true
	case "D":
		return c.D, true
	}
	return "", false
}

// keyOf resolves a response or stored answer to an option key. It accepts the key
// itself or the full text of one option.
func (c Choices) keyOf(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if _, ok := c.Get(s); ok && len(s) == 1 {
		return strings.ToUpper(s)
	}
	for _, key := range choiceKeys {
		text, _ := c.Get(key)
		if text != "" && strings.TrimSpace(text) == s {
			return key
		}
	}
	return ""
}

// MultipleChoice stores the correct option as its key ("A".."D"). Answers persisted as
// the full option text are migrated to the key when decoded.
type MultipleChoice struct {
	Choices Choices `json:"choices"`
	Correct string  `json:"correct"`
}

func (MultipleChoice) Type() QuestionType { return MultipleChoiceType }

func (q MultipleChoice) encode() Payload {
	return Payload{
		Options: marshal(q.Choices),
		Answer:  strings.ToUpper(strings.TrimSpace(q.Correct)),
	}
}

type TrueFalse struct {
	Correct bool `json:"correct"`
}

func (TrueFalse) Type() QuestionType { return TrueFalseType }

func (q TrueFalse) encode() Payload {
	if q.Correct {
		return Payload{Answer: "True"}
	}
	return Payload{Answer: "False"}
}

// FillInTheBlank accepts any of several answers.
type FillInTheBlank struct {
	Accepted []string `json:"accepted"`
}

func (FillInTheBlank) Type() QuestionType { return FillInTheBlankType }

// encode trims each answer and drops empty ones, as Decode does.
func (q FillInTheBlank) encode() Payload {
	accepted := make([]string, 0, len(q.Accepted))
	for _, a := range q.Accepted {
		if a = strings.TrimSpace(a); a != "" {
			accepted = append(accepted, a)
		}
	}
	return Payload{Answer: strings.Join(accepted, acceptedSeparator)}
}

type Pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Matching pairs each key with its value. The answer payload is derived from Pairs.
type Matching struct {
	Pairs []Pair `json:"pairs"`
}

func (Matching) Type() QuestionType { return MatchingType }

func (q Matching) encode() Payload {
	pairs := q.Pairs
	if pairs == nil {
		pairs = []Pair{}
	}
	return Payload{Options: marshal(pairs), Answer: pairsObject(pairs)}
}

// Ordering lists items in their correct order. The answer payload is derived from Items.
type Ordering struct {
	Items []string `json:"items"`
}

func (Ordering) Type() QuestionType { return OrderingType }

func (q Ordering) encode() Payload {
	items := q.Items
	if items == nil {
		items = []string{}
	}
	return Payload{Options: marshal(items), Answer: strings.Join(items, " ")}
}

// Essay carries a reference answer used as grading guidance only.
type Essay struct {
	Reference string `json:"reference"`
}

func (Essay) Type() QuestionType { return EssayType }

func (q Essay) encode() Payload { return Payload{Answer: q.Reference} }

type Writing struct {
	Reference string `json:"reference"`
}

func (Writing) Type() QuestionType { return WritingType }

func (q Writing) encode() Payload { return Payload{Answer: q.Reference} }

// Encode produces the stored payloads for a typed body. A nil body encodes to empty
// strings.
func Encode(a Answer) Payload {
	if a == nil {
		return Payload{}
	}
	return a.encode()
}

// Empty returns the default body for t, or nil if t is unknown.
func Empty(t QuestionType) Answer {
	switch t {
	case MultipleChoiceType:
		return MultipleChoice{}
	case TrueFalseType:
		return TrueFalse{Correct: true}
	case FillInTheBlankType:
		return FillInTheBlank{}
	case MatchingType:
		return Matching{}
	case OrderingType:
		return Ordering{}
	case EssayType:
		return Essay{}
	case WritingType:
		return Writing{}
	}
	return nil
}

// Decode interprets stored payloads according to t. It never fails: unreadable JSON
// falls back to the empty value of the affected field. Unknown types decode to nil.
func Decode(t QuestionType, options, answer string) Answer {
	switch t {
	case MultipleChoiceType:
		choices := decodeChoices(options)
		return MultipleChoice{Choices: choices, Correct: choices.keyOf(answer)}
	case TrueFalseType:
		return TrueFalse{Correct: parseTrueFalse(answer)}
	case FillInTheBlankType:
		return FillInTheBlank{Accepted: splitAccepted(answer)}
	case MatchingType:
		var pairs []Pair
		if err := json.Unmarshal([]byte(options), &pairs); err != nil || len(pairs) == 0 {
			return Matching{}
		}
		return Matching{Pairs: pairs}
	case OrderingType:
		var items []string
		if err := json.Unmarshal([]byte(options), &items); err != nil || len(items) == 0 {
			return Ordering{}
		}
		return Ordering{Items: items}
	case EssayType:
		return Essay{Reference: answer}
	case WritingType:
		return Writing{Reference: answer}
	}
	return nil
}

// Normalize rewrites stored payloads into their canonical form, e.g. a multiple choice
// answer stored as option text becomes the option key.
func Normalize(t QuestionType, options, answer string) Payload {
	return Encode(Decode(t, options, answer))
}

func decodeChoices(options string) Choices {
	raw := map[string]string{}
	if err := json.Unmarshal([]byte(options), &raw); err != nil {
		return Choices{}
	}
	var c Choices
	for k, v := range raw {
		switch strings.ToUpper(strings.TrimSpace(k)) {
		case "A":
			c.A = v
		case "B":
			c.B = v
		case "C":
			c.C = v
		case "D":
			c.D = v
		}
	}
	return c
}

// parseTrueFalse coerces anything other than "False" to true.
func parseTrueFalse(s string) bool {
	return !strings.EqualFold(strings.TrimSpace(s), "false")
}

func splitAccepted(s string) []string {
	var out []string
	for _, part := range strings.Split(s, acceptedSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// pairsObject writes a JSON object keeping the pair order. A repeated key keeps its
// first position and its last value.
func pairsObject(pairs []Pair) string {
	order := make([]string, 0, len(pairs))
	values := make(map[string]string, len(pairs))
	for _, p := range pairs {
		if _, seen := values[p.Key]; !seen {
			order = append(order, p.Key)
		}
		values[p.Key] = p.Value
	}

	var b strings.Builder
	b.WriteByte('{')
	for i, key := range order {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(marshal(key))
		b.WriteByte(':')
		b.WriteString(marshal(values[key]))
	}
	b.WriteByte('}')
	return b.String()
}

// marshal encodes v without HTML escaping so stored text stays byte-for-byte readable
// by every client.
func marshal(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
