package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wellFormed() []Answer {
	return []Answer{
		MultipleChoice{Choices: Choices{A: "cat", B: "dog", C: "bird", D: "fish"}, Correct: "B"},
		MultipleChoice{Choices: Choices{A: "<b>bold</b>", B: "a & b", C: "\"quoted\"", D: "mèo"}, Correct: "D"},
		TrueFalse{Correct: true},
		TrueFalse{Correct: false},
		FillInTheBlank{Accepted: []string{"went"}},
		FillInTheBlank{Accepted: []string{"colour", "color"}},
		Matching{Pairs: []Pair{{Key: "cat", Value: "mèo"}, {Key: "dog", Value: "chó"}}},
		Matching{Pairs: []Pair{{Key: "zebra", Value: "ngựa vằn"}, {Key: "ant", Value: "kiến"}}},
		Ordering{Items: []string{"I", "am", "a student"}},
		Essay{Reference: "Describe your hometown in three sentences."},
		Writing{Reference: ""},
	}
}

func TestRoundTrip(t *testing.T) {
	for _, v := range wellFormed() {
		p := Encode(v)
		got := Decode(v.Type(), p.Options, p.Answer)
		assert.Equal(t, v, got, "type %s payload %+v", v.Type(), p)
	}
}

func TestEncodeMatchingScenario(t *testing.T) {
	p := Encode(Matching{Pairs: []Pair{{Key: "cat", Value: "mèo"}, {Key: "dog", Value: "chó"}}})

	assert.Equal(t, `[{"key":"cat","value":"mèo"},{"key":"dog","value":"chó"}]`, p.Options)
	assert.Equal(t, `{"cat":"mèo","dog":"chó"}`, p.Answer)
}

func TestEncodeMatchingKeepsPairOrder(t *testing.T) {
	p := Encode(Matching{Pairs: []Pair{{Key: "zebra", Value: "1"}, {Key: "ant", Value: "2"}, {Key: "zebra", Value: "3"}}})

	assert.Equal(t, `{"zebra":"3","ant":"2"}`, p.Answer)
}

func TestEncodePerType(t *testing.T) {
	tests := []struct {
		name    string
		in      Answer
		options string
		answer  string
	}{
		{"multiple choice", MultipleChoice{Choices: Choices{A: "a", B: "b", C: "c", D: "d"}, Correct: "c"}, `{"A":"a","B":"b","C":"c","D":"d"}`, "C"},
		{"true", TrueFalse{Correct: true}, "", "True"},
		{"false", TrueFalse{Correct: false}, "", "False"},
		{"fill in the blank", FillInTheBlank{Accepted: []string{"a", "b"}}, "", "a||b"},
		{"ordering", Ordering{Items: []string{"I", "love", "Go"}}, `["I","love","Go"]`, "I love Go"},
		{"essay", Essay{Reference: "ref"}, "", "ref"},
		{"writing", Writing{Reference: "ref"}, "", "ref"},
		{"empty matching", Matching{}, "[]", "{}"},
		{"nil", nil, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Encode(tt.in)
			assert.Equal(t, tt.options, p.Options)
			assert.Equal(t, tt.answer, p.Answer)
		})
	}
}

func TestDecodeMalformedFallsBackToEmpty(t *testing.T) {
	for _, typ := range AllTypes {
		for _, bad := range []string{"", "{", "not json", "[1,2", `{"A":1}`, "null"} {
			got := Decode(typ, bad, bad)
			require.NotNil(t, got, "type %s", typ)
			assert.Equal(t, typ, got.Type())
		}
	}

	assert.Equal(t, MultipleChoice{}, Decode(MultipleChoiceType, "{oops", "Z"))
	assert.Equal(t, Matching{}, Decode(MatchingType, "{oops", `{"a":"b"}`))
	assert.Equal(t, Ordering{}, Decode(OrderingType, `{"not":"array"}`, "x y"))
	assert.Equal(t, FillInTheBlank{}, Decode(FillInTheBlankType, "", ""))
}

func TestDecodeUnknownType(t *testing.T) {
	assert.Nil(t, Decode("SPEAKING", "", "x"))
	assert.Nil(t, Empty("SPEAKING"))
}

func TestDecodeMultipleChoiceMigratesFullText(t *testing.T) {
	options := `{"A":"apple","B":"banana","C":"cherry","D":"date"}`

	got := Decode(MultipleChoiceType, options, "banana")
	assert.Equal(t, "B", got.(MultipleChoice).Correct)

	got = Decode(MultipleChoiceType, options, " c ")
	assert.Equal(t, "C", got.(MultipleChoice).Correct)

	got = Decode(MultipleChoiceType, options, "grape")
	assert.Equal(t, "", got.(MultipleChoice).Correct)

	assert.Equal(t, Payload{Options: options, Answer: "B"}, Normalize(MultipleChoiceType, options, "banana"))
}

func TestDecodeMultipleChoiceLowercaseKeys(t *testing.T) {
	got := Decode(MultipleChoiceType, `{"a":"x","b":"y"}`, "B")
	assert.Equal(t, MultipleChoice{Choices: Choices{A: "x", B: "y"}, Correct: "B"}, got)
}

func TestDecodeTrueFalseCoercesToTrue(t *testing.T) {
	for _, s := range []string{"True", "true", "yes", "", "1", "Đúng"} {
		assert.Equal(t, TrueFalse{Correct: true}, Decode(TrueFalseType, "", s), s)
	}
	for _, s := range []string{"False", "false", " FALSE "} {
		assert.Equal(t, TrueFalse{Correct: false}, Decode(TrueFalseType, "", s), s)
	}
	assert.Equal(t, "True", Normalize(TrueFalseType, "", "maybe").Answer)
}

func TestDecodeFillInTheBlankSplitsAndTrims(t *testing.T) {
	got := Decode(FillInTheBlankType, "", " go || went|| ||gone ")
	assert.Equal(t, FillInTheBlank{Accepted: []string{"go", "went", "gone"}}, got)
}

func TestEncodeFillInTheBlankDropsBlankAnswers(t *testing.T) {
	p := Encode(FillInTheBlank{Accepted: []string{" went", " ", "go "}})
	assert.Equal(t, "went||go", p.Answer)
	assert.Equal(t, FillInTheBlank{Accepted: []string{"went", "go"}}, Decode(FillInTheBlankType, p.Options, p.Answer))
}

func TestBodyJSONShape(t *testing.T) {
	b, err := json.Marshal(Matching{Pairs: []Pair{{Key: "k", Value: "v"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"pairs":[{"key":"k","value":"v"}]}`, string(b))
}
