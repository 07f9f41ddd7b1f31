// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/sheetlens/internal/database"
	"github.com/tomtom215/sheetlens/internal/logging"
	"github.com/tomtom215/sheetlens/internal/metrics"
	"github.com/tomtom215/sheetlens/internal/models"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned by Register for an existing email.
	ErrEmailTaken = database.ErrEmailTaken

	// ErrPasswordTooLong is returned when the password exceeds bcrypt's 72 bytes.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

	// ErrUnknownUser is returned when a token names a user that no longer exists.
	ErrUnknownUser = errors.New("user not found")
)

// UserStore is the persistence the identity service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Service implements register, login and principal lookup.
type Service struct {
	users      UserStore
	jwt        *JWTManager
	bcryptCost int

	// dummyHash is compared against when the email is unknown so a failed
	// login costs the same either way.
	dummyHash string
}

// NewService creates the identity service.
func NewService(users UserStore, jwtManager *JWTManager, bcryptCost int) (*Service, error) {
	dummy, err := HashPassword("sheetlens-timing-equalizer", bcryptCost)
	if err != nil {
		return nil, err
	}
	return &Service{users: users, jwt: jwtManager, bcryptCost: bcryptCost, dummyHash: dummy}, nil
}

// Register creates an account and returns a token for it. The request must
// already be validated.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest, ip string) (*models.AuthResponse, error) {
	req.Normalize()

	hash, err := HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		metrics.RecordAuthAttempt("register", false)
		if IsTooLong(err) {
			return nil, ErrPasswordTooLong
		}
		return nil, err
	}

	user := &models.User{Email: req.Email, Name: req.Name, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		metrics.RecordAuthAttempt("register", false)
		if errors.Is(err, database.ErrEmailTaken) {
			logging.LogAuth(ctx, logging.AuthRegister, req.Email, ip, "email taken")
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	metrics.RecordAuthAttempt("register", true)
	logging.LogAuth(ctx, logging.AuthRegister, user.Email, ip, "")
	return s.issue(user)
}

// Login verifies credentials and returns a fresh token.
func (s *Service) Login(ctx context.Context, req models.LoginRequest, ip string) (*models.AuthResponse, error) {
	email := models.NormalizeEmail(req.Email)

	user, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, database.ErrNotFound):
		CheckPassword(s.dummyHash, req.Password)
		metrics.RecordAuthAttempt("login", false)
		logging.LogAuth(ctx, logging.AuthLoginFailure, email, ip, "unknown email")
		return nil, ErrInvalidCredentials
	case err != nil:
		metrics.RecordAuthAttempt("login", false)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !CheckPassword(user.PasswordHash, req.Password) {
		metrics.RecordAuthAttempt("login", false)
		logging.LogAuth(ctx, logging.AuthLoginFailure, email, ip, "wrong password")
		return nil, ErrInvalidCredentials
	}

	metrics.RecordAuthAttempt("login", true)
	logging.LogAuth(ctx, logging.AuthLoginSuccess, email, ip, "")
	return s.issue(user)
}

// Principal resolves a validated token's user.
func (s *Service) Principal(ctx context.Context, userID string) (*models.Principal, error) {
	return lookupPrincipal(ctx, s.users, userID)
}

func (s *Service) issue(user *models.User) (*models.AuthResponse, error) {
	token, expiresAt, err := s.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, ExpiresAt: expiresAt, User: user.Principal()}, nil
}

func lookupPrincipal(ctx context.Context, users UserStore, userID string) (*models.Principal, error) {
	user, err := users.GetUserByID(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	p := user.Principal()
	return &p, nil
}
