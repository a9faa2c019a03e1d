package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/studymate-app/studymate/internal/client/models"
	"github.com/studymate-app/studymate/internal/client/onboarding"
)

// runWizard walks the onboarding steps, collecting the draft and submitting
// it from the review step. It returns false when the user exits the program.
//
// Submitting re-fetches the profile through the controller, so on success
// the gate re-derives to the study shell without any transition code here.
func (a *App) runWizard(ctx context.Context) bool {
	fmt.Fprintln(a.out, "Let's set up your study profile.")

	seq := onboarding.NewSequencer(a.controller.UpdateUserType)

	// Prefill from whatever the session already holds, so a partially set
	// up profile (or the synthesized fallback) doesn't ask twice.
	if p := a.store.Snapshot().Profile; p != nil {
		d := seq.Draft()
		d.Name = p.Name
		d.Age = p.Age
		d.UserType = p.UserType
		d.Subjects = p.Subjects
	}

	for !seq.Completed() {
		if ctx.Err() != nil {
			return false
		}
		if _, exit := a.wizardStep(ctx, seq); exit {
			return false
		}
	}

	fmt.Fprintln(a.out, "All set!")
	return true
}

// wizardStep renders and collects one step. It returns ok=false when the
// step should be re-prompted, and exit=true when the user quit.
func (a *App) wizardStep(ctx context.Context, seq *onboarding.Sequencer) (ok, exit bool) {
	d := seq.Draft()
	fmt.Fprintf(a.out, "[%s] (type 'back' to go back, 'exit' to quit)\n", seq.Step())

	switch seq.Step() {
	case onboarding.StepBasics:
		name, err := getSimpleText(a.reader, "What's your name?", a.out)
		if err != nil {
			return false, true
		}
		if consumed, quit := wizardCommand(name, seq); consumed {
			return false, quit
		}
		if name != "" {
			d.Name = name
		}
		age, err := GetInt(a.reader, "Your age (optional)", a.out)
		if err == nil && age > 0 {
			d.Age = age
		}

	case onboarding.StepAvatar:
		path, err := getSimpleText(a.reader, "Path to an avatar image (optional, Enter to skip)", a.out)
		if err != nil {
			return false, true
		}
		if consumed, quit := wizardCommand(path, seq); consumed {
			return false, quit
		}
		if path != "" {
			if url, err := a.uploadAvatar(ctx, path); err != nil {
				fmt.Fprintln(a.out, "Avatar upload failed:", err)
			} else {
				d.AvatarURL = url
			}
		}

	case onboarding.StepSubjects:
		mode, err := getSimpleText(a.reader, "Are you preparing for an exam or in college? (exam/college)", a.out)
		if err != nil {
			return false, true
		}
		if consumed, quit := wizardCommand(mode, seq); consumed {
			return false, quit
		}
		switch strings.ToLower(mode) {
		case "exam":
			d.UserType = models.UserTypeExam
		case "college":
			d.UserType = models.UserTypeCollege
		case "":
		default:
			fmt.Fprintln(a.out, "Please answer 'exam' or 'college'.")
			return false, false
		}
		subjects, err := GetList(a.reader, "Your subjects", a.out)
		if err == nil && len(subjects) > 0 {
			d.Subjects = subjects
		}

	case onboarding.StepAcademic:
		if ok, exit := a.academicStep(seq); !ok || exit {
			return ok, exit
		}

	case onboarding.StepPreferences:
		prefs, err := GetList(a.reader, "How do you like to study? (e.g. flashcards, quizzes, mind maps)", a.out)
		if err != nil {
			return false, true
		}
		if len(prefs) > 0 {
			d.StudyPreferences = prefs
		}

	case onboarding.StepSchedule:
		hours, err := GetFloat(a.reader, "How many hours per day will you study?", a.out)
		if err != nil {
			fmt.Fprintln(a.out, err.Error())
			return false, false
		}
		if hours > 0 {
			d.DailyStudyHours = hours
		}
		reminder, err := getSimpleText(a.reader, "Daily reminder time (e.g. 18:00, optional)", a.out)
		if err == nil && reminder != "" {
			d.ReminderTime = reminder
		}

	case onboarding.StepReview:
		return a.reviewStep(ctx, seq)
	}

	if !seq.CanAdvance() {
		fmt.Fprintln(a.out, "This step is incomplete, let's try again.")
		return false, false
	}
	if err := seq.Next(); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return false, false
	}
	return true, false
}

// academicStep collects the mode-specific branch of the draft.
func (a *App) academicStep(seq *onboarding.Sequencer) (ok, exit bool) {
	d := seq.Draft()

	switch d.UserType {
	case models.UserTypeExam:
		examType, err := getSimpleText(a.reader, "Which exam are you preparing for? (e.g. JEE, NEET, UPSC)", a.out)
		if err != nil {
			return false, true
		}
		if consumed, quit := wizardCommand(examType, seq); consumed {
			return false, quit
		}
		if examType != "" {
			d.ExamType = examType
		}
		year, err := getSimpleText(a.reader, "Target year", a.out)
		if err == nil && year != "" {
			d.TargetYear = year
		}

	case models.UserTypeCollege:
		college, err := getSimpleText(a.reader, "Which college do you attend?", a.out)
		if err != nil {
			return false, true
		}
		if consumed, quit := wizardCommand(college, seq); consumed {
			return false, quit
		}
		if college != "" {
			d.College = college
		}
		course, err := getSimpleText(a.reader, "Your course", a.out)
		if err == nil && course != "" {
			d.Course = course
		}
		semester, err := getSimpleText(a.reader, "Current semester", a.out)
		if err == nil && semester != "" {
			d.Semester = semester
		}
	}
	return true, false
}

// reviewStep shows the accumulated draft and submits on confirmation. A
// failed submission keeps the draft and stays on review for a retry.
func (a *App) reviewStep(ctx context.Context, seq *onboarding.Sequencer) (ok, exit bool) {
	d := seq.Draft()

	fmt.Fprintln(a.out, "Review your profile:")
	fmt.Fprintf(a.out, "  Name:      %s\n", d.Name)
	fmt.Fprintf(a.out, "  Mode:      %s\n", d.UserType)
	fmt.Fprintf(a.out, "  Subjects:  %s\n", strings.Join(d.Subjects, ", "))
	switch d.UserType {
	case models.UserTypeExam:
		fmt.Fprintf(a.out, "  Exam:      %s (%s)\n", d.ExamType, d.TargetYear)
	case models.UserTypeCollege:
		fmt.Fprintf(a.out, "  College:   %s, %s, semester %s\n", d.College, d.Course, d.Semester)
	}
	fmt.Fprintf(a.out, "  Hours/day: %.1f\n", d.DailyStudyHours)

	answer, err := getSimpleText(a.reader, "Submit? (y/back/exit)", a.out)
	if err != nil {
		return false, true
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		if err := seq.Submit(ctx); err != nil {
			fmt.Fprintln(a.out, "Could not save your profile:", err)
			return false, false
		}
		return true, false
	case "back":
		seq.Back()
		return false, false
	case "exit", "quit":
		return false, true
	default:
		return false, false
	}
}

// wizardCommand handles the in-band 'back' and 'exit' commands. It reports
// whether the input was consumed, and whether it was a request to quit.
func wizardCommand(input string, seq *onboarding.Sequencer) (consumed, quit bool) {
	switch strings.ToLower(input) {
	case "back":
		seq.Back()
		return true, false
	case "exit", "quit":
		return true, true
	}
	return false, false
}

// uploadAvatar reads a local image and pushes it through the presigned
// upload, returning the storage key.
func (a *App) uploadAvatar(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	contentType := "image/png"
	if strings.HasSuffix(strings.ToLower(path), ".jpg") || strings.HasSuffix(strings.ToLower(path), ".jpeg") {
		contentType = "image/jpeg"
	}
	return a.study.UploadAvatar(ctx, data, contentType)
}
