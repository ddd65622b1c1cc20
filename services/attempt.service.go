package services

import (
	"context"
	"encoding/json"

	"lingo/codec"
	"lingo/logger"
	"lingo/models/course"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttemptService struct {
	db          *gorm.DB
	log         *logger.Logger
	enrollments *EnrollmentService
}

func NewAttemptService(db *gorm.DB, log *logger.Logger, enrollments *EnrollmentService) *AttemptService {
	return &AttemptService{db: db, log: log.With("service", "attempts"), enrollments: enrollments}
}

// QuestionResult is the outcome for one question of an attempt.
type QuestionResult struct {
	QuestionID  uint   `json:"questionId"`
	Graded      bool   `json:"graded"`
	Correct     bool   `json:"correct"`
	Weight      int    `json:"weight"`
	Explanation string `json:"explanation,omitempty"`
}

// AttemptResult is a stored attempt with its per-question results.
type AttemptResult struct {
	Attempt *course.QuizAttempt `json:"attempt"`
	Results []QuestionResult    `json:"results"`
}

// Submit grades a student's responses to a lesson. Responses are keyed by question id;
// unanswered gradable questions count as wrong. Essay and writing answers are stored
// for manual review.
func (s *AttemptService) Submit(ctx context.Context, userID, versionID, lessonID uint, responses map[uint]json.RawMessage) (*AttemptResult, error) {
	l, err := s.enrollments.openLesson(ctx, userID, versionID, lessonID)
	if err != nil {
		return nil, err
	}

	attempt := &course.QuizAttempt{UserID: userID, LessonID: lessonID}
	results := make([]QuestionResult, 0, len(l.Questions))
	for _, q := range l.Questions {
		response, answered := responses[q.ID]
		correct, graded := codec.Check(q.Body, response)
		if graded {
			attempt.MaxScore += q.Weight
			if correct {
				attempt.Score += q.Weight
			}
		} else if answered {
			attempt.PendingReview = true
		}
		results = append(results, QuestionResult{
			QuestionID:  q.ID,
			Graded:      graded,
			Correct:     correct,
			Weight:      q.Weight,
			Explanation: q.Explanation,
		})
	}

	raw, err := json.Marshal(responses)
	if err != nil {
		return nil, BadRequest("Invalid responses!")
	}
	attempt.Responses = datatypes.JSON(raw)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var previous int64
		if err := tx.Model(&course.QuizAttempt{}).
			Where("user_id = ? AND lesson_id = ? AND is_deleted = ?", userID, lessonID, false).
			Count(&previous).Error; err != nil {
			return err
		}
		attempt.AttemptNumber = int(previous) + 1
		return tx.Create(attempt).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("attempt submitted", "userId", userID, "lessonId", lessonID, "score", attempt.Score, "maxScore", attempt.MaxScore)
	return &AttemptResult{Attempt: attempt, Results: results}, nil
}

// List returns the user's attempts on a lesson, latest first.
func (s *AttemptService) List(ctx context.Context, userID, lessonID uint) ([]course.QuizAttempt, error) {
	attempts := []course.QuizAttempt{}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ? AND is_deleted = ?", userID, lessonID, false).
		Order("attempt_number DESC").
		Find(&attempts).Error
	return attempts, err
}
