package course

import "gorm.io/gorm"

// ApprovalStatus values, set by the moderation callback.
const (
	ApprovalPending  = "PENDING"
	ApprovalApproved = "APPROVED"
	ApprovalRejected = "REJECTED"
)

// Course is the catalogue entry a creator owns. Its content lives in CourseVersion rows.
type Course struct {
	gorm.Model
	Title                 string  `gorm:"not null" json:"title"`
	BasePrice             float64 `gorm:"default:0" json:"basePrice"`
	CreatorID             uint    `gorm:"not null;index" json:"creatorId"`
	ApprovalStatus        string  `gorm:"type:varchar(20);default:'PENDING'" json:"approvalStatus"`
	LatestPublicVersionID *uint   `json:"latestPublicVersionId"`
	IsDeleted             bool    `gorm:"default:false" json:"isDeleted"`

	// Relations
	Versions            []CourseVersion `gorm:"foreignKey:CourseID" json:"versions,omitempty"`
	LatestPublicVersion *CourseVersion  `gorm:"foreignKey:LatestPublicVersionID" json:"latestPublicVersion,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
