// Package services contains server-side business logic. This file implements
// UserService, which handles registration, password and Google sign-in, and
// issuing/refreshing JWTs plus server-stored refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/studymate-app/studymate/internal/common"
	"github.com/studymate-app/studymate/internal/dbx"
	"github.com/studymate-app/studymate/internal/server/auth"
	"github.com/studymate-app/studymate/internal/server/config"
	"github.com/studymate-app/studymate/internal/server/models"
	"github.com/studymate-app/studymate/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides authentication-related operations:
// - Register: create users with a hashed password and an empty profile
// - Login: verify credentials and mint tokens
// - LoginWithGoogle: find-or-create a user from a verified Google identity
// - RefreshToken: rotate refresh tokens and mint new access tokens
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a new user plus an empty profile in one transaction.
// A duplicate email yields common.ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if name == "" {
		name = common.EmailLocalPart(email)
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, &models.User{Email: email, PasswordHash: hash})
		if err != nil {
			return err
		}
		if err := s.repomanager.Profiles(tx).Create(ctx, &models.Profile{
			UserID: u.ID,
			Name:   name,
			Email:  email,
		}); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %v", err)
	}
	return user, nil
}

// Login verifies the email/password pair and, on success, returns the user
// and a new TokenPair. Unknown emails, wrong passwords, and Google-only
// accounts all yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}
	if user.PasswordHash == "" {
		return nil, nil, common.ErrorUnauthorized
	}
	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.generateTokenPair(ctx, user.ID, s.db)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// LoginWithGoogle signs in a user identified by a verified Google account,
// creating the user and profile on first sign-in. Existing password accounts
// with the same email are reused as-is.
func (s *UserService) LoginWithGoogle(ctx context.Context, gu *auth.GoogleUser) (*models.User, *TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByGoogleSubject(ctx, gu.Subject)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, nil, common.ErrorInternal
	}
	if user == nil {
		err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			u, err := s.repomanager.Users(tx).Create(ctx, &models.User{
				Email:         gu.Email,
				GoogleSubject: gu.Subject,
			})
			if err != nil {
				return err
			}
			name := gu.Name
			if name == "" {
				name = common.EmailLocalPart(gu.Email)
			}
			if err := s.repomanager.Profiles(tx).Create(ctx, &models.Profile{
				UserID: u.ID,
				Name:   name,
				Email:  gu.Email,
			}); err != nil {
				return err
			}
			user = u
			return nil
		})
		if errors.Is(err, common.ErrAlreadyExists) {
			// Password account with the same email signed in via Google.
			user, err = repo.GetByEmail(ctx, gu.Email)
		}
		if err != nil {
			return nil, nil, common.ErrorInternal
		}
	}

	pair, err := s.generateTokenPair(ctx, user.ID, s.db)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns the user with a fresh TokenPair. Expired tokens yield
// ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, fmt.Errorf("error searching refresh token: %v", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, nil, common.ErrRefreshTokenExpired
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, token.UserID)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %v", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// SignOut revokes the given refresh token. Revoking an unknown token is not
// an error; sign-out is idempotent.
func (s *UserService) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken)
}

// GetUser returns the user for an authenticated userID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, userID)
}

// --- helpers below ---

func (s *UserService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
