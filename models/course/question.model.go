package course

import "gorm.io/gorm"

// Question is the stored form of a lesson question. OptionsPayload and AnswerPayload are
// only meaningful through the codec package and are never serialized to clients.
type Question struct {
	gorm.Model
	LessonID       uint   `gorm:"not null;index" json:"lessonId"`
	Text           string `gorm:"type:text" json:"text"`
	QuestionType   string `gorm:"type:varchar(30);not null" json:"questionType"`
	OptionsPayload string `gorm:"column:options;type:text" json:"-"`
	AnswerPayload  string `gorm:"column:correct_answer;type:text" json:"-"`
	Transcript     string `gorm:"type:text" json:"transcript"`
	Explanation    string `gorm:"type:text" json:"explanation"`
	Weight         int    `gorm:"not null;default:1" json:"weight"`
	OrderIndex     int    `gorm:"not null;default:0" json:"orderIndex"`
	MediaURL       string `json:"mediaUrl"`
	IsDeleted      bool   `gorm:"default:false" json:"isDeleted"`
}

func (Question) TableName() string {
	return "questions"
}
