package course

import "gorm.io/gorm"

// LessonType enum values
const (
	LessonVideo    = "VIDEO"
	LessonDocument = "DOCUMENT"
	LessonAudio    = "AUDIO"
	LessonQuiz     = "QUIZ"
	LessonReading  = "READING"
)

// Lesson is a unit of content. CourseID is nil for standalone practice lessons.
type Lesson struct {
	gorm.Model
	CourseID        *uint  `gorm:"index" json:"courseId"`
	Title           string `gorm:"not null" json:"title"`
	LessonType      string `gorm:"type:varchar(20);default:'QUIZ'" json:"lessonType"`
	IsFree          bool   `gorm:"default:false" json:"isFree"`
	DurationSeconds int    `gorm:"default:0" json:"durationSeconds"`
	ThumbnailURL    string `json:"thumbnailUrl"`
	ContentURL      string `json:"contentUrl"`
	CreatedBy       uint   `gorm:"not null" json:"createdBy"`
	IsDeleted       bool   `gorm:"default:false" json:"isDeleted"`

	Questions []Question `gorm:"foreignKey:LessonID" json:"-"`
}

func (Lesson) TableName() string {
	return "lessons"
}
