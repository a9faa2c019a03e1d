package models

// Profile is a profile row as stored. Array-valued preference fields
// (subjects, study preferences) are JSON-encoded strings in their columns;
// the server never interprets them, it only stores and returns them.
type Profile struct {
	UserID           string  `json:"user_id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	UserType         string  `json:"user_type,omitempty"`
	ExamType         string  `json:"exam_type,omitempty"`
	TargetYear       string  `json:"target_year,omitempty"`
	College          string  `json:"college,omitempty"`
	Semester         string  `json:"semester,omitempty"`
	Course           string  `json:"course,omitempty"`
	Age              int     `json:"age,omitempty"`
	AvatarURL        string  `json:"avatar_url,omitempty"`
	Subjects         string  `json:"subjects,omitempty"`
	StudyPreferences string  `json:"study_preferences,omitempty"`
	DailyStudyHours  float64 `json:"daily_study_hours,omitempty"`
	ReminderTime     string  `json:"reminder_time,omitempty"`
	ReviewMode       string  `json:"review_mode,omitempty"`
	StudyStreak      int     `json:"study_streak"`
	TotalStudyHours  float64 `json:"total_study_hours"`
	Level            int     `json:"level"`
	ExperiencePoints int     `json:"experience_points"`
}

// UpdatableProfileColumns whitelists the columns a PATCH may touch. Anything
// else in the payload is rejected; counters in particular are server-owned.
var UpdatableProfileColumns = map[string]bool{
	"name":              true,
	"user_type":         true,
	"exam_type":         true,
	"target_year":       true,
	"college":           true,
	"semester":          true,
	"course":            true,
	"age":               true,
	"avatar_url":        true,
	"subjects":          true,
	"study_preferences": true,
	"daily_study_hours": true,
	"reminder_time":     true,
	"review_mode":       true,
}
