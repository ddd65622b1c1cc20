package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizAttempt stores a student's submitted responses for a lesson and the auto-graded
// score. Essay and writing responses are kept for manual review.
type QuizAttempt struct {
	gorm.Model
	UserID        uint           `gorm:"index;not null" json:"userId"`
	LessonID      uint           `gorm:"index;not null" json:"lessonId"`
	Responses     datatypes.JSON `json:"responses"`
	Score         int            `json:"score"`
	MaxScore      int            `json:"maxScore"`
	PendingReview bool           `gorm:"default:false" json:"pendingReview"`
	AttemptNumber int            `gorm:"default:1" json:"attemptNumber"`
	IsDeleted     bool           `gorm:"default:false" json:"isDeleted"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
