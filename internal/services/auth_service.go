package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"preppulse/internal/caching"
	"preppulse/internal/config"
	"preppulse/internal/models"
	"preppulse/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	resetPurpose      = "password-reset"
)

// AuthService handles accounts, server-side sessions and password resets.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	Session(ctx context.Context, sessionID string) (*models.Session, error)

	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password, confirm string) error
	GenerateResetToken(email string) (string, error)
	ValidateResetToken(token string) (string, error)
}

type RegisterInput struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginResult is returned on a successful login. Redirect names the page the
// client should open next.
type LoginResult struct {
	SessionID string
	Session   *models.Session
	Redirect  string
}

// ResetClaims are the claims of a password-reset token.
type ResetClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo repositories.UserRepository
	cacheSvc caching.CacheService
	mailer   Mailer
	cfg      config.AuthConfig
	baseURL  string
	now      func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, cacheSvc caching.CacheService, mailer Mailer, cfg config.AuthConfig, baseURL string) AuthService {
	return &authService{
		userRepo: userRepo,
		cacheSvc: cacheSvc,
		mailer:   mailer,
		cfg:      cfg,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := normalizeEmail(in.Email)
	if fullName == "" || email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, invalid("Please fill in all fields.")
	}
	if len(in.Password) < minPasswordLength {
		return nil, invalid(fmt.Sprintf("Password must be at least %d characters.", minPasswordLength))
	}
	if in.Password != in.ConfirmPassword {
		return nil, invalid("Passwords do not match.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{FullName: fullName, Email: email, PasswordHash: string(hash)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, invalid("Please enter both email and password.")
	}

	if s.isAdmin(email, password) {
		session := &models.Session{Email: email, FullName: "Administrator", IsAdmin: true, CreatedAt: s.now()}
		return s.startSession(ctx, session, "/admin")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.EnsureFirstLogin(ctx, email); err != nil {
		return nil, fmt.Errorf("ensure first login: %w", err)
	}
	redirect := "/dashboard"
	fl, err := s.userRepo.GetFirstLogin(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("load first login: %w", err)
	}
	if !fl.Completed {
		redirect = "/onboarding"
	}

	session := &models.Session{Email: email, FullName: user.FullName, CreatedAt: s.now()}
	return s.startSession(ctx, session, redirect)
}

func (s *authService) isAdmin(email, password string) bool {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		return false
	}
	return email == normalizeEmail(s.cfg.AdminEmail) &&
		subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
}

func (s *authService) startSession(ctx context.Context, session *models.Session, redirect string) (*LoginResult, error) {
	id := uuid.NewString()
	if err := s.cacheSvc.SetSession(ctx, id, session, s.cfg.SessionTTL); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return &LoginResult{SessionID: id, Session: session, Redirect: redirect}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.cacheSvc.DeleteSession(ctx, sessionID)
}

// Session returns nil, nil for unknown or expired sessions.
func (s *authService) Session(ctx context.Context, sessionID string) (*models.Session, error) {
	if sessionID == "" {
		return nil, nil
	}
	return s.cacheSvc.GetSession(ctx, sessionID)
}

// ForgotPassword mails a reset link when the account exists. The caller
// always reports the same message so account existence is not revealed.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return invalid("Please enter your email address.")
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load user: %w", err)
	}

	token, err := s.GenerateResetToken(email)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	body := "We received a request to reset your PrepPulse password.\n\n" +
		"Reset your password here: " + link + "\n\n" +
		"If you did not request this, you can ignore this email."
	if err := s.mailer.Send(ctx, email, "PrepPulse Password Reset", body); err != nil {
		log.Printf("ERROR: failed to send reset email to %s: %v", email, err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	email, err := s.ValidateResetToken(token)
	if err != nil {
		return err
	}
	if password == "" || confirm == "" {
		return invalid("Please fill in all fields.")
	}
	if len(password) < minPasswordLength {
		return invalid(fmt.Sprintf("Password must be at least %d characters.", minPasswordLength))
	}
	if password != confirm {
		return invalid("Passwords do not match.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, email, string(hash)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *authService) GenerateResetToken(email string) (string, error) {
	now := s.now()
	claims := ResetClaims{
		Purpose: resetPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.ResetTokenMaxAge)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return token, nil
}

// ValidateResetToken returns the email the token was issued for.
func (s *authService) ValidateResetToken(token string) (string, error) {
	claims := &ResetClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.SecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredResetToken
		}
		return "", ErrInvalidResetToken
	}
	if claims.Purpose != resetPurpose || claims.Subject == "" {
		return "", ErrInvalidResetToken
	}
	return claims.Subject, nil
}
