package services

import (
	"fmt"
	"strings"
	"time"

	"eventhub_backend/internal/auth"
	"eventhub_backend/internal/config"
	"eventhub_backend/internal/email"
	"eventhub_backend/internal/logger"
	"eventhub_backend/internal/models"
	"eventhub_backend/internal/repositories"
	"eventhub_backend/internal/services/dto"
	"eventhub_backend/pkg/apperrors"
)

const (
	minPasswordLength = 6
	resetTokenTTL     = 1 * time.Hour
	refreshTokenTTL   = 7 * 24 * time.Hour
)

type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
	RefreshToken(refreshToken string) (*dto.LoginResponse, error)
	Logout(refreshToken string) error
	CurrentUser(userID string) (*dto.UserResponse, error)
	RequestPasswordReset(email string) error
	ResetPassword(combinedToken, newPassword string) error
}

type AuthServiceImpl struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	emailProvider    email.Provider
}

func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	emailProvider email.Provider,
) AuthService {
	return &AuthServiceImpl{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		emailProvider:    emailProvider,
	}
}

func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if len(req.Password) < minPasswordLength {
		return nil, apperrors.ErrWeakPassword
	}

	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		return nil, apperrors.ErrUsernameAlreadyExists
	}
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrUsernameAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	return buildUserResponse(user), nil
}

func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.buildLoginResponse(user)
}

func (s *AuthServiceImpl) RefreshToken(refreshToken string) (*dto.LoginResponse, error) {
	token, err := s.refreshTokenRepo.FindByToken(refreshToken)
	if err != nil {
		// Not found or anything else: the token is unusable either way.
		return nil, apperrors.ErrInvalidToken
	}

	if time.Now().After(token.ExpiresAt) {
		if err := s.refreshTokenRepo.DeleteByToken(refreshToken); err != nil {
			logger.Error("Failed to delete expired refresh token", "error", err)
		}
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(token.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	// Rotation: the presented token is spent regardless of what follows.
	if err := s.refreshTokenRepo.DeleteByToken(refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.buildLoginResponse(user)
}

func (s *AuthServiceImpl) Logout(refreshToken string) error {
	return s.refreshTokenRepo.DeleteByToken(refreshToken)
}

func (s *AuthServiceImpl) CurrentUser(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return buildUserResponse(user), nil
}

// RequestPasswordReset stores a fresh reset token and emails the reset link.
// A missing account is not an error: the endpoint must answer identically
// whether or not the email exists.
func (s *AuthServiceImpl) RequestPasswordReset(emailAddr string) error {
	user, err := s.userRepo.FindByEmail(emailAddr)
	if err != nil {
		return nil
	}

	resetToken := auth.GenerateRandomToken()
	resetTokenExp := time.Now().Add(resetTokenTTL)

	user.ResetToken = resetToken
	user.ResetTokenExp = &resetTokenExp

	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}

	s.sendPasswordResetEmail(user, resetToken)
	return nil
}

// ResetPassword validates the "<uid>/<token>" pair from the reset link.
// Every token failure mode maps to the same generic error.
func (s *AuthServiceImpl) ResetPassword(combinedToken, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.ErrWeakPassword
	}

	parts := strings.Split(combinedToken, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return apperrors.ErrInvalidResetLink
	}
	userID, token := parts[0], parts[1]

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return apperrors.ErrInvalidResetLink
	}

	if user.ResetToken == "" || user.ResetToken != token ||
		user.ResetTokenExp == nil || time.Now().After(*user.ResetTokenExp) {
		return apperrors.ErrInvalidResetLink
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user.PasswordHash = hashedPassword
	user.ResetToken = ""
	user.ResetTokenExp = nil

	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}

	// Invalidate every session of the account.
	if err := s.refreshTokenRepo.DeleteByUserID(user.ID); err != nil {
		logger.Error("Failed to revoke refresh tokens after password reset", "error", err)
	}

	return nil
}

// --- Helpers ---

func (s *AuthServiceImpl) buildLoginResponse(user *models.User) (*dto.LoginResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken, err := s.createRefreshToken(user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		Token:   accessToken,
		Refresh: refreshToken,
		User:    buildUserResponse(user),
	}, nil
}

func (s *AuthServiceImpl) createRefreshToken(userID string) (string, error) {
	refreshToken := auth.GenerateRandomToken()

	model := &models.RefreshToken{
		UserID:    userID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.refreshTokenRepo.Create(model); err != nil {
		return "", err
	}

	return refreshToken, nil
}

func (s *AuthServiceImpl) sendPasswordResetEmail(user *models.User, token string) {
	if s.emailProvider == nil {
		return
	}

	resetLink := fmt.Sprintf("%s/reset-password.html?uid=%s&token=%s",
		config.GetConfig().Frontend.BaseURL, user.ID, token)
	to := user.Email

	go func() {
		data := map[string]interface{}{
			"Username": user.Username,
			"ResetURL": resetLink,
		}
		if err := s.emailProvider.SendTemplate([]string{to}, "Password reset", "password_reset", data); err != nil {
			logger.Error("Failed to send password reset email", "error", err)
		}
	}()
}

func buildUserResponse(user *models.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}
