package models

// ProgressStatusCompleted marks a finished lesson.
const ProgressStatusCompleted = "completed"

// UserProgress records how far a user got through one lesson.
type UserProgress struct {
	Base
	UserID         string `gorm:"type:uuid;not null;index" json:"user_id"`
	LessonID       string `gorm:"not null" json:"lesson_id"`
	ProgressStatus string `gorm:"not null" json:"progress_status"`
	Score          int    `json:"score"`
}

// TableName keeps the table name singular, as created by the lessons service.
func (UserProgress) TableName() string { return "user_progress" }
