package models

import "encoding/json"

// AcademicDetails is the mode-specific half of a profile update. It is a
// closed sum: exactly ExamDetails or CollegeDetails. Each variant knows the
// user type it implies and the flat columns it populates, so an update can
// never mix fields from both modes.
type AcademicDetails interface {
	UserType() UserType
	// AppendFields writes the variant's columns into a flat update payload.
	AppendFields(dst map[string]any)
}

// ExamDetails is the academic detail set for exam-preparation users.
type ExamDetails struct {
	ExamType   string
	TargetYear string
}

func (d ExamDetails) UserType() UserType { return UserTypeExam }

func (d ExamDetails) AppendFields(dst map[string]any) {
	dst["exam_type"] = d.ExamType
	if d.TargetYear != "" {
		dst["target_year"] = d.TargetYear
	}
}

// CollegeDetails is the academic detail set for college students.
type CollegeDetails struct {
	College  string
	Semester string
	Course   string
}

func (d CollegeDetails) UserType() UserType { return UserTypeCollege }

func (d CollegeDetails) AppendFields(dst map[string]any) {
	dst["college"] = d.College
	if d.Semester != "" {
		dst["semester"] = d.Semester
	}
	if d.Course != "" {
		dst["course"] = d.Course
	}
}

// ProfileUpdate carries the mode-independent fields accumulated by the
// onboarding wizard (or edited later from settings).
type ProfileUpdate struct {
	Name             string
	Age              int
	AvatarURL        string
	Subjects         []string
	StudyPreferences []string
	DailyStudyHours  float64
	ReminderTime     string
	ReviewMode       string
}

// BuildProfileFields flattens the update and the academic details into the
// column map sent to the backend. Array-valued preference fields are
// JSON-encoded into their columns.
func BuildProfileFields(details AcademicDetails, u ProfileUpdate) map[string]any {
	fields := map[string]any{
		"user_type": string(details.UserType()),
	}
	details.AppendFields(fields)

	if u.Name != "" {
		fields["name"] = u.Name
	}
	if u.Age > 0 {
		fields["age"] = u.Age
	}
	if u.AvatarURL != "" {
		fields["avatar_url"] = u.AvatarURL
	}
	if len(u.Subjects) > 0 {
		b, _ := json.Marshal(u.Subjects)
		fields["subjects"] = string(b)
	}
	if len(u.StudyPreferences) > 0 {
		b, _ := json.Marshal(u.StudyPreferences)
		fields["study_preferences"] = string(b)
	}
	if u.DailyStudyHours > 0 {
		fields["daily_study_hours"] = u.DailyStudyHours
	}
	if u.ReminderTime != "" {
		fields["reminder_time"] = u.ReminderTime
	}
	if u.ReviewMode != "" {
		fields["review_mode"] = u.ReviewMode
	}
	return fields
}
