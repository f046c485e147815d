package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"GuardianAngelAPI/internal/config"
	"GuardianAngelAPI/internal/logger"
	"GuardianAngelAPI/internal/models"
	"GuardianAngelAPI/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTOTPRequired       = errors.New("two-factor code required")
	ErrInvalidTOTP        = errors.New("invalid two-factor code")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService manages parent accounts and bearer sessions. Logging out
// clears the alert store, matching the account-scoped lifetime of alerts.
type AuthService struct {
	users  repository.UserRepository
	alerts IAlertService
	cfg    config.SecurityConfig
	log    *logger.Logger
}

func NewAuthService(users repository.UserRepository, alerts IAlertService, cfg config.SecurityConfig, log *logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		alerts: alerts,
		cfg:    cfg,
		log:    log,
	}
}

func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}
	if strings.TrimSpace(req.ChildName) == "" {
		return nil, fmt.Errorf("child name is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		ParentName:   strings.TrimSpace(req.ParentName),
		ChildName:    strings.TrimSpace(req.ChildName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("New account registered: %s", email)
	return s.issueToken(user)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if user.TOTPEnabled {
		if req.TOTPCode == "" {
			return nil, ErrTOTPRequired
		}
		if !totp.Validate(req.TOTPCode, user.TOTPSecret) {
			return nil, ErrInvalidTOTP
		}
	}

	s.log.Info("Login: %s", user.Email)
	return s.issueToken(user)
}

// Logout clears the alert store. Alerts are conceptually account-scoped and
// do not outlive the session.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.alerts.ClearAll(ctx)
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.ParentName != nil {
		user.ParentName = strings.TrimSpace(*req.ParentName)
	}
	if req.ChildName != nil {
		user.ChildName = strings.TrimSpace(*req.ChildName)
	}
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetupTOTP generates a new secret and returns the otpauth provisioning URL
// for the authenticator app. The secret only takes effect after VerifyTOTP.
func (s *AuthService) SetupTOTP(ctx context.Context, userID string) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.cfg.TOTPIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate TOTP secret: %w", err)
	}

	user.TOTPSecret = key.Secret()
	user.TOTPEnabled = false
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		return "", err
	}

	return key.URL(), nil
}

// VerifyTOTP confirms the pending secret with a live code and enables 2FA.
func (s *AuthService) VerifyTOTP(ctx context.Context, userID, code string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.TOTPSecret == "" {
		return fmt.Errorf("no pending TOTP enrollment")
	}

	if !totp.Validate(code, user.TOTPSecret) {
		return ErrInvalidTOTP
	}

	user.TOTPEnabled = true
	user.UpdatedAt = time.Now()
	return s.users.Update(ctx, user)
}

func (s *AuthService) issueToken(user *models.User) (*models.AuthResponse, error) {
	expiresAt := time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)

	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"exp":   expiresAt.Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	sanitized.TOTPSecret = ""

	return &models.AuthResponse{
		Token:     signed,
		ExpiresAt: expiresAt.Unix(),
		User:      sanitized,
	}, nil
}

// ParseToken validates a bearer token and returns the user ID it carries.
func (s *AuthService) ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidToken
	}

	return sub, nil
}
