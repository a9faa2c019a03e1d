package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/studymate-app/studymate/internal/common"
	"github.com/studymate-app/studymate/internal/dbx"
	"github.com/studymate-app/studymate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (user_id, name, email, level)
		VALUES ($1, $2, $3, 1)
	`
	if _, err := r.db.ExecContext(ctx, query, profile.UserID, profile.Name, profile.Email); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		SELECT user_id, name, email, user_type, exam_type, target_year,
		       college, semester, course, age, avatar_url, subjects,
		       study_preferences, daily_study_hours, reminder_time, review_mode,
		       study_streak, total_study_hours, level, experience_points
		FROM profiles
		WHERE user_id = $1
	`
	p := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.Name, &p.Email, &p.UserType, &p.ExamType, &p.TargetYear,
		&p.College, &p.Semester, &p.Course, &p.Age, &p.AvatarURL, &p.Subjects,
		&p.StudyPreferences, &p.DailyStudyHours, &p.ReminderTime, &p.ReviewMode,
		&p.StudyStreak, &p.TotalStudyHours, &p.Level, &p.ExperiencePoints,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// UpdateFields builds a single UPDATE over the provided columns. Callers are
// responsible for whitelisting; this method still refuses column names that
// are not plain identifiers.
func (r *PostgresRepository) UpdateFields(ctx context.Context, userID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	// Deterministic column order keeps the query stable for tests and logs.
	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, col := range cols {
		if !models.UpdatableProfileColumns[col] {
			return fmt.Errorf("%w: column %q", common.ErrValidation, col)
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, fields[col])
	}
	args = append(args, userID)

	query := fmt.Sprintf(`UPDATE profiles SET %s WHERE user_id = $%d`,
		strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
