// internal/services/auth_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/javajoker/vms-backend/internal/config"
	"github.com/javajoker/vms-backend/internal/database"
	"github.com/javajoker/vms-backend/internal/i18n"
	"github.com/javajoker/vms-backend/internal/models"
	"github.com/javajoker/vms-backend/internal/utils"
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type AuthResponse struct {
	ID       uint      `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Token    TokenPair `json:"token"`
}

type RefreshResponse struct {
	Token TokenPair `json:"token"`
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
	}
}

func (s *AuthService) issueTokens(account *models.Account) (TokenPair, error) {
	accessToken, err := utils.GenerateJWT(account.ID, account.Username, s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(account.ID, account.Username, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return TokenPair{Access: accessToken, Refresh: refreshToken}, nil
}

// Login checks the credentials of an active account. Unknown usernames, wrong
// passwords and inactive accounts all fail the same way.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	var account models.Account
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&account).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, NewInvalidCredentialsError()
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := account.CheckPassword(req.Password); err != nil {
		return nil, NewInvalidCredentialsError()
	}

	if !account.IsActive {
		return nil, NewInvalidCredentialsError()
	}

	tokens, err := s.issueTokens(&account)
	if err != nil {
		return nil, err
	}

	// Update last login time
	now := time.Now()
	s.db.WithContext(ctx).Model(&account).Update("last_login_at", now)

	return &AuthResponse{
		ID:       account.ID,
		Name:     account.Name,
		Username: account.Username,
		Token:    tokens,
	}, nil
}

func (s *AuthService) RefreshToken(ctx context.Context, req *RefreshRequest) (*RefreshResponse, error) {
	claims, err := utils.ValidateRefreshToken(req.Refresh)
	if err != nil {
		return nil, NewUnauthenticatedError(i18n.KeyAuthInvalidRefresh, err)
	}

	var account models.Account
	if err := s.db.WithContext(ctx).First(&account, claims.AccountID).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, NewUnauthenticatedError(i18n.KeyAuthInvalidRefresh, err)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !account.IsActive {
		return nil, NewUnauthenticatedError(i18n.KeyAuthInvalidRefresh, nil)
	}

	tokens, err := s.issueTokens(&account)
	if err != nil {
		return nil, err
	}

	return &RefreshResponse{Token: tokens}, nil
}
