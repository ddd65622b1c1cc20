package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// HistoryAction enum values
const (
	ActionCreated       = "CREATED"
	ActionUpdated       = "UPDATED"
	ActionLessonAdded   = "LESSON_ADDED"
	ActionLessonUpdated = "LESSON_UPDATED"
	ActionLessonRemoved = "LESSON_REMOVED"
	ActionPublished     = "PUBLISHED"
	ActionArchived      = "ARCHIVED"
	ActionApproved      = "APPROVED"
	ActionRejected      = "REJECTED"
)

// ActorType enum values
const (
	ActorCreator = "CREATOR"
	ActorAdmin   = "ADMIN"
	ActorSystem  = "SYSTEM"
)

// VersionHistory is the audit log of a course version.
type VersionHistory struct {
	gorm.Model
	CourseVersionID uint           `gorm:"not null;index" json:"courseVersionId"`
	Action          string         `gorm:"not null;type:varchar(30)" json:"action"`
	ActorID         uint           `gorm:"not null" json:"actorId"`
	ActorType       string         `gorm:"not null;type:varchar(10)" json:"actorType"`
	Comments        string         `gorm:"type:text" json:"comments"`
	Metadata        datatypes.JSON `json:"metadata"`
}

func (VersionHistory) TableName() string {
	return "course_version_history"
}
