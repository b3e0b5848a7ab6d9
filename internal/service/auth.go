package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/foodlog/foodlog/internal/model"
	"github.com/foodlog/foodlog/internal/repository"
	"github.com/foodlog/foodlog/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrUserNotFound       = errors.New("user not found")
)

const AuthCookieName = "auth_token"

// RegisterForm is the raw registration form. Avatar is optional.
type RegisterForm struct {
	Email    string
	Password string
	FullName string
	Gender   string
	Avatar   *Image
}

type AuthService struct {
	userRepository    repository.UserRepository
	profileRepository repository.ProfileRepository
	avatarFiles       *FileService
	emailService      *EmailService
	jwtSecret         string
	isProduction      bool
	jwtExpiry         time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	avatarFiles *FileService,
	emailService *EmailService,
	jwtSecret string,
	isProduction bool,
	jwtExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:    userRepository,
		profileRepository: profileRepository,
		avatarFiles:       avatarFiles,
		emailService:      emailService,
		jwtSecret:         jwtSecret,
		isProduction:      isProduction,
		jwtExpiry:         jwtExpiry,
	}
}

// Login checks the password and makes sure a profile row exists.
// The password is used exactly as typed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, invalid(errors.New("email and password are required"))
	}

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return nil, fmt.Errorf("this account signs in with Google: %w", ErrInvalidCredentials)
	}

	err = s.ComparePassword(password, *user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", ErrInvalidCredentials)
	}

	s.ensureProfile(ctx, user)
	return user, nil
}

func (s *AuthService) ensureProfile(ctx context.Context, user *model.User) {
	err := s.profileRepository.InsertIfAbsent(ctx, &model.Profile{UserID: user.ID, Email: user.Email})
	if err != nil {
		slog.Warn("failed to ensure profile", "error", err, "user_id", user.ID)
	}
}

// Register creates the account and its profile. When the email is taken and
// the password matches that account, the existing account is signed in instead.
func (s *AuthService) Register(ctx context.Context, form RegisterForm) (*model.User, error) {
	email := strings.TrimSpace(strings.ToLower(form.Email))
	if email == "" || form.Password == "" {
		return nil, invalid(errors.New("email and password are required"))
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, invalid(err)
	}
	if err := validation.ValidatePassword(form.Password); err != nil {
		return nil, invalid(err)
	}
	fullName := strings.TrimSpace(form.FullName)
	if err := validation.ValidateFullName(fullName); err != nil {
		return nil, invalid(err)
	}

	hash, err := s.HashPassword(form.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:              uuid.New().String(),
		Email:           email,
		PasswordHash:    &hash,
		EmailVerifiedAt: &now,
		CreatedAt:       now,
	}

	created := true
	err = s.userRepository.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		existing, loginErr := s.Login(ctx, email, form.Password)
		if loginErr != nil {
			return nil, invalid(ErrEmailAlreadyExists)
		}
		user = existing
		created = false
	} else if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.ensureProfile(ctx, user)

	err = s.profileRepository.UpdateDetails(ctx, user.ID, fullName, model.ParseGender(form.Gender))
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	if form.Avatar != nil {
		path := registerAvatarPath(user.ID, now, form.Avatar)
		err = s.avatarFiles.Upload(ctx, path, form.Avatar)
		if err != nil {
			return nil, err
		}
		err = s.profileRepository.UpdateAvatar(ctx, user.ID, path)
		if err != nil {
			s.avatarFiles.Discard(ctx, path)
			return nil, fmt.Errorf("failed to save avatar: %w", err)
		}
	}

	if created {
		name := (&model.Profile{FullName: fullName, Email: email}).DisplayName()
		err = s.emailService.SendWelcomeEmail(ctx, email, name)
		if err != nil {
			slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
		}
		slog.Info("user registered", "user_id", user.ID)
	}

	return user, nil
}

// ChangeEmail sets a new, already confirmed email on the identity and mirrors
// it into the profile.
func (s *AuthService) ChangeEmail(ctx context.Context, userID, newEmail string) (*model.User, error) {
	if userID == "" {
		return nil, invalid(errors.New("missing user id"))
	}
	newEmail = validation.NormalizeEmail(newEmail)
	if err := validation.ValidateEmailShape(newEmail); err != nil {
		return nil, invalid(err)
	}

	previous, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user, err := s.userRepository.ChangeEmail(ctx, userID, newEmail)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailAlreadyExists
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to change email: %w", err)
	}

	if previous.Email != user.Email {
		name := "User"
		if profile, err := s.profileRepository.ByUserID(ctx, userID); err == nil {
			name = profile.DisplayName()
		}
		err = s.emailService.SendEmailChangedNotice(ctx, previous.Email, user.Email, name)
		if err != nil {
			slog.Warn("failed to send email change notice", "error", err, "user_id", userID)
		}
	}

	slog.Info("email changed", "user_id", userID)
	return user, nil
}

// ChangePassword reports false when the new password equals the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, newPassword string) (bool, error) {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return false, invalid(err)
	}

	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to get user: %w", err)
	}

	if user.HasPassword() && s.ComparePassword(newPassword, *user.PasswordHash) == nil {
		slog.Warn("new password equals the current one, skipping", "user_id", userID)
		return false, nil
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.userRepository.UpdatePassword(ctx, userID, hash)
	if err != nil {
		return false, fmt.Errorf("failed to update password: %w", err)
	}

	name := "User"
	if profile, err := s.profileRepository.ByUserID(ctx, userID); err == nil {
		name = profile.DisplayName()
	}
	err = s.emailService.SendPasswordChangedNotice(ctx, user.Email, name)
	if err != nil {
		slog.Warn("failed to send password change notice", "error", err, "user_id", userID)
	}

	slog.Info("password changed", "user_id", userID)
	return true, nil
}

// AuthenticateOAuth signs in or creates the account behind a provider-verified email.
func (s *AuthService) AuthenticateOAuth(ctx context.Context, email, provider string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, ErrInvalidEmail
	}

	user, err := s.userRepository.ByEmail(ctx, email)
	if err == nil {
		s.ensureProfile(ctx, user)
		slog.Info("user authenticated via OAuth", "user_id", user.ID, "provider", provider)
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to lookup user: %w", err)
	}

	now := time.Now()
	user = &model.User{
		ID:              uuid.New().String(),
		Email:           email,
		EmailVerifiedAt: &now, // verified by the provider
		CreatedAt:       now,
	}

	err = s.userRepository.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.ensureProfile(ctx, user)

	err = s.emailService.SendWelcomeEmail(ctx, email, email)
	if err != nil {
		slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
	}

	slog.Info("new OAuth user created", "user_id", user.ID, "provider", provider)
	return user, nil
}

func (s *AuthService) UserByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// StartSession issues a JWT for the user and stores it in the auth cookie.
func (s *AuthService) StartSession(w http.ResponseWriter, user *model.User) error {
	token, err := s.GenerateJWT(user)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}
	s.SetJWTCookie(w, token, time.Now().Add(s.jwtExpiry))
	return nil
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}
