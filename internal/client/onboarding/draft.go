package onboarding

import "github.com/studymate-app/studymate/internal/client/models"

// Draft accumulates everything the wizard collects. It mirrors the profile
// fields plus wizard-only extras (age, preferences, schedule) and lives
// only for the duration of the flow.
type Draft struct {
	// basics
	Name string
	Age  int

	// avatar (optional)
	AvatarURL string

	// mode + subjects
	UserType models.UserType
	Subjects []string

	// academic details, exam branch
	ExamType   string
	TargetYear string

	// academic details, college branch
	College  string
	Semester string
	Course   string

	// study preferences
	StudyPreferences []string

	// schedule
	DailyStudyHours float64
	ReminderTime    string
	ReviewMode      string
}

// AcademicDetails narrows the draft to the tagged union for the selected
// mode. The branches populate disjoint field sets; a draft without a mode
// (or without the branch's required fields) cannot produce a value.
func (d *Draft) AcademicDetails() (models.AcademicDetails, error) {
	switch d.UserType {
	case models.UserTypeExam:
		if d.ExamType == "" || d.TargetYear == "" {
			return nil, ErrMissingAcademic
		}
		return models.ExamDetails{ExamType: d.ExamType, TargetYear: d.TargetYear}, nil
	case models.UserTypeCollege:
		if d.Semester == "" || d.Course == "" {
			return nil, ErrMissingAcademic
		}
		return models.CollegeDetails{College: d.College, Semester: d.Semester, Course: d.Course}, nil
	default:
		return nil, ErrMissingUserType
	}
}

// ProfileUpdate extracts the mode-independent half of the draft.
func (d *Draft) ProfileUpdate() models.ProfileUpdate {
	return models.ProfileUpdate{
		Name:             d.Name,
		Age:              d.Age,
		AvatarURL:        d.AvatarURL,
		Subjects:         d.Subjects,
		StudyPreferences: d.StudyPreferences,
		DailyStudyHours:  d.DailyStudyHours,
		ReminderTime:     d.ReminderTime,
		ReviewMode:       d.ReviewMode,
	}
}
