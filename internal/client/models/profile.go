// Package models holds the client-side domain types: identities, profiles,
// and study content mirrored from backend rows.
package models

import "encoding/json"

// UserType selects which study mode a profile is set up for. It is absent
// (empty) until onboarding completes.
type UserType string

const (
	UserTypeExam    UserType = "exam"
	UserTypeCollege UserType = "college"
)

// Identity is the backend-owned authenticated principal. Credentials are not
// modeled; the backend is the source of truth.
type Identity struct {
	ID    string
	Email string
}

// Profile is the in-memory mirror of a profile row. It is owned by the
// session store; all other components treat it as read-only.
type Profile struct {
	UserID   string
	Name     string
	Email    string
	UserType UserType

	// Mode-specific academic details. ExamType/TargetYear are meaningful
	// only for UserTypeExam, College/Semester/Course for UserTypeCollege.
	ExamType   string
	TargetYear string
	College    string
	Semester   string
	Course     string

	Age              int
	AvatarURL        string
	Subjects         []string
	StudyPreferences []string
	DailyStudyHours  float64
	ReminderTime     string
	ReviewMode       string

	// Gamification counters. Advisory only; no invariant depends on them.
	StudyStreak      int
	TotalStudyHours  float64
	Level            int
	ExperiencePoints int
}

// Complete reports whether the profile satisfies the onboarding invariant:
// a user type is chosen, the name is non-empty, and the mode-specific
// required field is set.
func (p *Profile) Complete() bool {
	if p == nil {
		return false
	}
	if p.Name == "" {
		return false
	}
	switch p.UserType {
	case UserTypeExam:
		return p.ExamType != ""
	case UserTypeCollege:
		return p.College != ""
	default:
		return false
	}
}

// ProfileRow is the wire shape of a profile table row. Array-valued
// preference fields are stored as JSON-encoded strings in their columns.
type ProfileRow struct {
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

// ProfileFromRow converts a backend row into the in-memory profile,
// decoding the JSON-encoded array columns. Malformed array columns decode
// to nil rather than failing the whole profile.
func ProfileFromRow(row *ProfileRow) *Profile {
	p := &Profile{
		UserID:           row.UserID,
		Name:             row.Name,
		Email:            row.Email,
		UserType:         UserType(row.UserType),
		ExamType:         row.ExamType,
		TargetYear:       row.TargetYear,
		College:          row.College,
		Semester:         row.Semester,
		Course:           row.Course,
		Age:              row.Age,
		AvatarURL:        row.AvatarURL,
		DailyStudyHours:  row.DailyStudyHours,
		ReminderTime:     row.ReminderTime,
		ReviewMode:       row.ReviewMode,
		StudyStreak:      row.StudyStreak,
		TotalStudyHours:  row.TotalStudyHours,
		Level:            row.Level,
		ExperiencePoints: row.ExperiencePoints,
	}
	if row.Subjects != "" {
		_ = json.Unmarshal([]byte(row.Subjects), &p.Subjects)
	}
	if row.StudyPreferences != "" {
		_ = json.Unmarshal([]byte(row.StudyPreferences), &p.StudyPreferences)
	}
	return p
}
