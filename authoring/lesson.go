// Package authoring holds the rules of course authoring that do not need a database:
// the lesson aggregate, the version lifecycle, the publish checklist, discount windows
// and the lesson access gate.
package authoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"lingo/codec"
	"lingo/models/course"

	"github.com/google/uuid"
)

var (
	ErrQuestionIndex  = errors.New("question index out of range")
	ErrQuestionWeight = errors.New("question weight must be at least 1")
	ErrQuestionBody   = errors.New("question body is required")
)

// QuestionDraft is a question as edited in a lesson. ID is zero until the question has
// been persisted; LocalID identifies it before that.
type QuestionDraft struct {
	ID          uint         `json:"id,omitempty"`
	LocalID     string       `json:"localId"`
	Text        string       `json:"text"`
	Transcript  string       `json:"transcript"`
	Explanation string       `json:"explanation"`
	MediaURL    string       `json:"mediaUrl"`
	Weight      int          `json:"weight"`
	OrderIndex  int          `json:"orderIndex"`
	Body        codec.Answer `json:"-"`
}

// Type is the question type carried by the body.
func (q *QuestionDraft) Type() codec.QuestionType {
	if q.Body == nil {
		return ""
	}
	return q.Body.Type()
}

// Persisted reports whether the question exists on the server.
func (q *QuestionDraft) Persisted() bool {
	return q.ID != 0
}

// MarshalJSON writes the typed body as {"type": ..., "body": ...}.
func (q QuestionDraft) MarshalJSON() ([]byte, error) {
	type plain QuestionDraft
	return json.Marshal(struct {
		plain
		Type codec.QuestionType `json:"type"`
		Body codec.Answer       `json:"body"`
	}{plain(q), q.Type(), q.Body})
}

// Lesson is the aggregate of a lesson's metadata and its ordered questions.
type Lesson struct {
	ID              uint             `json:"id"`
	CourseID        *uint            `json:"courseId"`
	Title           string           `json:"title"`
	LessonType      string           `json:"lessonType"`
	IsFree          bool             `json:"isFree"`
	DurationSeconds int              `json:"durationSeconds"`
	ThumbnailURL    string           `json:"thumbnailUrl"`
	ContentURL      string           `json:"contentUrl"`
	OrderIndex      int              `json:"orderIndex"`
	Questions       []*QuestionDraft `json:"questions"`

	deleted []uint
}

// NewQuestion builds an unsaved question with a fresh local id.
func NewQuestion(text string, body codec.Answer) *QuestionDraft {
	return &QuestionDraft{
		LocalID: uuid.NewString(),
		Text:    strings.TrimSpace(text),
		Weight:  1,
		Body:    body,
	}
}

// List returns the questions in order.
func (l *Lesson) List() []*QuestionDraft {
	return l.Questions
}

// Append adds q at the end of the lesson.
func (l *Lesson) Append(q *QuestionDraft) error {
	return l.Insert(len(l.Questions), q)
}

// Insert places q at index i, shifting later questions down.
func (l *Lesson) Insert(i int, q *QuestionDraft) error {
	if i < 0 || i > len(l.Questions) {
		return fmt.Errorf("%w: %d", ErrQuestionIndex, i)
	}
	if err := prepare(q); err != nil {
		return err
	}
	l.Questions = append(l.Questions, nil)
	copy(l.Questions[i+1:], l.Questions[i:])
	l.Questions[i] = q
	l.reindex()
	return nil
}

// Update replaces the question at index i, keeping its identity.
func (l *Lesson) Update(i int, q *QuestionDraft) error {
	if i < 0 || i >= len(l.Questions) {
		return fmt.Errorf("%w: %d", ErrQuestionIndex, i)
	}
	if err := prepare(q); err != nil {
		return err
	}
	q.ID = l.Questions[i].ID
	q.LocalID = l.Questions[i].LocalID
	l.Questions[i] = q
	l.reindex()
	return nil
}

// Remove drops the question at index i. A persisted question is scheduled for
// deletion on the next save.
func (l *Lesson) Remove(i int) error {
	if i < 0 || i >= len(l.Questions) {
		return fmt.Errorf("%w: %d", ErrQuestionIndex, i)
	}
	if q := l.Questions[i]; q.Persisted() {
		l.deleted = append(l.deleted, q.ID)
	}
	l.Questions = append(l.Questions[:i], l.Questions[i+1:]...)
	l.reindex()
	return nil
}

// Move relocates the question at index from to index to.
func (l *Lesson) Move(from, to int) error {
	n := len(l.Questions)
	if from < 0 || from >= n {
		return fmt.Errorf("%w: %d", ErrQuestionIndex, from)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("%w: %d", ErrQuestionIndex, to)
	}
	q := l.Questions[from]
	l.Questions = append(l.Questions[:from], l.Questions[from+1:]...)
	l.Questions = append(l.Questions[:to], append([]*QuestionDraft{q}, l.Questions[to:]...)...)
	l.reindex()
	return nil
}

// Find returns the index of the question with the given server or local id, or -1.
func (l *Lesson) Find(id uint, localID string) int {
	for i, q := range l.Questions {
		if (id != 0 && q.ID == id) || (localID != "" && q.LocalID == localID) {
			return i
		}
	}
	return -1
}

// Replace sets the lesson's questions to qs in the given order. Questions of qs that
// carry an id must already be in the lesson; persisted questions missing from qs are
// scheduled for deletion.
func (l *Lesson) Replace(qs []*QuestionDraft) error {
	keep := make(map[uint]bool, len(qs))
	for _, q := range qs {
		if q == nil {
			return ErrQuestionBody
		}
		if q.ID != 0 {
			if l.Find(q.ID, "") < 0 {
				return fmt.Errorf("%w: question %d is not in this lesson", ErrQuestionIndex, q.ID)
			}
			keep[q.ID] = true
		}
	}
	for i := len(l.Questions) - 1; i >= 0; i-- {
		if !keep[l.Questions[i].ID] {
			if err := l.Remove(i); err != nil {
				return err
			}
		}
	}
	for pos, q := range qs {
		if q.ID == 0 {
			if err := l.Insert(pos, q); err != nil {
				return err
			}
			continue
		}
		i := l.Find(q.ID, "")
		if err := l.Update(i, q); err != nil {
			return err
		}
		if err := l.Move(i, pos); err != nil {
			return err
		}
	}
	return nil
}

// PendingDeletes lists persisted question ids removed since the lesson was loaded.
func (l *Lesson) PendingDeletes() []uint {
	return append([]uint(nil), l.deleted...)
}

// Saved clears the pending deletes after a successful save.
func (l *Lesson) Saved() {
	l.deleted = nil
}

func (l *Lesson) reindex() {
	for i, q := range l.Questions {
		q.OrderIndex = i
	}
}

func prepare(q *QuestionDraft) error {
	if q == nil || q.Body == nil {
		return ErrQuestionBody
	}
	if q.Weight == 0 {
		q.Weight = 1
	}
	if q.Weight < 0 {
		return ErrQuestionWeight
	}
	if q.LocalID == "" {
		q.LocalID = uuid.NewString()
	}
	return nil
}

// Encode turns the questions into rows ready for saving, each with its current order
// index and codec payloads.
func (l *Lesson) Encode() []course.Question {
	rows := make([]course.Question, 0, len(l.Questions))
	for i, q := range l.Questions {
		p := codec.Encode(q.Body)
		row := course.Question{
			LessonID:       l.ID,
			Text:           q.Text,
			QuestionType:   string(q.Type()),
			OptionsPayload: p.Options,
			AnswerPayload:  p.Answer,
			Transcript:     q.Transcript,
			Explanation:    q.Explanation,
			Weight:         q.Weight,
			OrderIndex:     i,
			MediaURL:       q.MediaURL,
		}
		row.ID = q.ID
		rows = append(rows, row)
	}
	return rows
}

// LessonFromModel builds the aggregate from stored rows. Questions of unknown types are
// skipped; deleted ones are ignored.
func LessonFromModel(m course.Lesson, questions []course.Question) *Lesson {
	l := &Lesson{
		ID:              m.ID,
		CourseID:        m.CourseID,
		Title:           m.Title,
		LessonType:      m.LessonType,
		IsFree:          m.IsFree,
		DurationSeconds: m.DurationSeconds,
		ThumbnailURL:    m.ThumbnailURL,
		ContentURL:      m.ContentURL,
		Questions:       []*QuestionDraft{},
	}
	for _, row := range sortedQuestions(questions) {
		if row.IsDeleted {
			continue
		}
		body := codec.Decode(codec.QuestionType(row.QuestionType), row.OptionsPayload, row.AnswerPayload)
		if body == nil {
			continue
		}
		weight := row.Weight
		if weight < 1 {
			weight = 1
		}
		l.Questions = append(l.Questions, &QuestionDraft{
			ID:          row.ID,
			LocalID:     uuid.NewString(),
			Text:        row.Text,
			Transcript:  row.Transcript,
			Explanation: row.Explanation,
			MediaURL:    row.MediaURL,
			Weight:      weight,
			Body:        body,
		})
	}
	l.reindex()
	return l
}

func sortedQuestions(rows []course.Question) []course.Question {
	out := append([]course.Question(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].ID < out[j].ID
	})
	return out
}
