package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/studymate-app/studymate/internal/common"
	"github.com/studymate-app/studymate/internal/server/models"
	"github.com/studymate-app/studymate/internal/server/repositories/repomanager"
)

// ProfileService reads and partially updates user profiles.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager) *ProfileService {
	return &ProfileService{db: db, repomanager: m}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	return s.repomanager.Profiles(s.db).Get(ctx, userID)
}

// Update applies a partial update and returns the resulting profile. Only
// whitelisted columns are accepted; anything else is rejected before the
// write. Array-valued fields arriving as JSON arrays are stored as their
// JSON text, matching the profile row encoding.
func (s *ProfileService) Update(ctx context.Context, userID string, fields map[string]any) (*models.Profile, error) {
	if len(fields) == 0 {
		return s.Get(ctx, userID)
	}

	normalized := make(map[string]any, len(fields))
	for col, v := range fields {
		if !models.UpdatableProfileColumns[col] {
			return nil, fmt.Errorf("%w: unknown field %q", common.ErrValidation, col)
		}
		if arr, ok := v.([]any); ok {
			b, err := json.Marshal(arr)
			if err != nil {
				return nil, fmt.Errorf("%w: field %q", common.ErrValidation, col)
			}
			v = string(b)
		}
		normalized[col] = v
	}

	if err := s.repomanager.Profiles(s.db).UpdateFields(ctx, userID, normalized); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}
