package course

import (
	"time"

	"gorm.io/gorm"
)

// VersionStatus enum values
const (
	StatusDraft    = "DRAFT"
	StatusPublic   = "PUBLIC"
	StatusRejected = "REJECTED"
	StatusArchived = "ARCHIVED"
)

// Difficulty levels
const (
	LevelBeginner     = "BEGINNER"
	LevelIntermediate = "INTERMEDIATE"
	LevelAdvanced     = "ADVANCED"
)

// CourseVersion is one revision of a course's content. At most one DRAFT and one PUBLIC
// version exist per course.
type CourseVersion struct {
	gorm.Model
	CourseID                uint       `gorm:"not null;index" json:"courseId"`
	VersionNumber           int        `gorm:"not null" json:"versionNumber"`
	Status                  string     `gorm:"not null;type:varchar(20);default:'DRAFT'" json:"status"`
	Description             string     `gorm:"type:text" json:"description"`
	ThumbnailURL            string     `json:"thumbnailUrl"`
	Price                   *float64   `json:"price"` // nil means not set yet
	Level                   string     `gorm:"type:varchar(20)" json:"level"`
	LanguageCode            string     `gorm:"type:varchar(10)" json:"languageCode"`
	InstructionLanguageCode string     `gorm:"type:varchar(10)" json:"instructionLanguageCode"`
	ReasonForChange         string     `gorm:"type:text" json:"reasonForChange"`
	Revision                int        `gorm:"not null;default:0" json:"revision"`
	CreatedBy               uint       `gorm:"not null" json:"createdBy"`
	PublishedAt             *time.Time `json:"publishedAt"`
	ArchivedAt              *time.Time `json:"archivedAt"`
	IsDeleted               bool       `gorm:"default:false" json:"isDeleted"`

	// Relations
	Course  *Course         `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Lessons []VersionLesson `gorm:"foreignKey:CourseVersionID" json:"lessons,omitempty"`
}

func (CourseVersion) TableName() string {
	return "course_versions"
}

// VersionLesson places a lesson at a position in a version. Forking a version copies
// these rows, so one lesson can be referenced by several versions.
type VersionLesson struct {
	gorm.Model
	CourseVersionID uint `gorm:"not null;index" json:"courseVersionId"`
	LessonID        uint `gorm:"not null;index" json:"lessonId"`
	OrderIndex      int  `gorm:"not null;default:0" json:"orderIndex"`

	Lesson *Lesson `gorm:"foreignKey:LessonID" json:"lesson,omitempty"`
}

func (VersionLesson) TableName() string {
	return "course_version_lessons"
}
