// internal/services/session_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emissionsiq/emissionsiq-backend/internal/config"
	"github.com/emissionsiq/emissionsiq-backend/internal/models"
	"github.com/emissionsiq/emissionsiq-backend/internal/utils"
)

// SessionService mints anonymous sessions. Identity is ambient: reads
// never require a session, and writes create one on the fly when the
// request carries no token.
type SessionService struct {
	db  *gorm.DB
	cfg *config.Config
}

type SessionResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int          `json:"expires_in"` // in seconds
}

type UpdateProfileRequest struct {
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Company string `json:"company,omitempty" validate:"omitempty,max=255"`
}

func NewSessionService(db *gorm.DB, cfg *config.Config) *SessionService {
	return &SessionService{
		db:  db,
		cfg: cfg,
	}
}

// CreateAnonymousSession creates a fresh user row and signs a token for
// it. No credentials are involved.
func (s *SessionService) CreateAnonymousSession(ctx context.Context) (*SessionResponse, error) {
	user := &models.User{}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create session user: %w", err)
	}

	token, err := utils.GenerateSessionToken(user.ID, s.cfg.Session.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return &SessionResponse{
		User:      user,
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: s.cfg.Session.TokenTTL * 3600,
	}, nil
}

func (s *SessionService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *SessionService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Company != "" {
		updates["company"] = req.Company
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}
