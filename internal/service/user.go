package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foodlog/foodlog/internal/model"
	"github.com/foodlog/foodlog/internal/repository"
	"github.com/foodlog/foodlog/internal/validation"
)

// AccountUpdater performs the privileged credential changes of a profile edit.
type AccountUpdater interface {
	ChangeEmail(ctx context.Context, userID, newEmail string) (*model.User, error)
	ChangePassword(ctx context.Context, userID, newPassword string) (bool, error)
}

// ProfileForm is the raw profile edit form. Empty Password leaves it unchanged.
type ProfileForm struct {
	FullName string
	Gender   string
	Email    string
	Password string
	Avatar   *Image
}

type ProfileUpdate struct {
	Profile         *model.Profile
	PasswordChanged bool
}

type UserService struct {
	userRepository    repository.UserRepository
	profileRepository repository.ProfileRepository
	account           AccountUpdater
	avatarFiles       *FileService
	avatars           *ImageResolver
}

func NewUserService(
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	account AccountUpdater,
	avatarFiles *FileService,
	avatars *ImageResolver,
) *UserService {
	return &UserService{
		userRepository:    userRepository,
		profileRepository: profileRepository,
		account:           account,
		avatarFiles:       avatarFiles,
		avatars:           avatars,
	}
}

// Profile loads the profile with a freshly resolved avatar URL. A missing
// row yields an empty profile so pages can still render.
func (s *UserService) Profile(ctx context.Context, user *model.User) (*model.Profile, error) {
	profile, err := s.profileRepository.ByUserID(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrProfileNotFound) {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		profile = &model.Profile{UserID: user.ID, Email: user.Email}
	}
	if profile.Email == "" {
		profile.Email = user.Email
	}

	profile.AvatarURL = s.avatars.Resolve(ctx, profile.AvatarRef)
	return profile, nil
}

// UpdateProfile applies a profile edit: optional avatar, optional password,
// email change through the account updater when it differs, then one upsert
// of the profile row carrying the confirmed email.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, form ProfileForm) (*ProfileUpdate, error) {
	fullName := strings.TrimSpace(form.FullName)
	if err := validation.ValidateFullName(fullName); err != nil {
		return nil, invalid(err)
	}
	email := validation.NormalizeEmail(form.Email)
	if email == "" {
		return nil, invalid(validation.ErrEmailRequired)
	}
	if form.Password != "" {
		if err := validation.ValidatePassword(form.Password); err != nil {
			return nil, invalid(err)
		}
	}

	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var avatarRef *string
	if form.Avatar != nil {
		path := profileAvatarPath(userID, time.Now(), form.Avatar)
		err = s.avatarFiles.Upload(ctx, path, form.Avatar)
		if err != nil {
			return nil, err
		}
		avatarRef = &path
	}
	discardAvatar := func() {
		if avatarRef != nil {
			s.avatarFiles.Discard(ctx, *avatarRef)
		}
	}

	// the email change can be refused, so it runs before the password change
	confirmedEmail := user.Email
	if email != user.Email {
		updated, err := s.account.ChangeEmail(ctx, userID, email)
		if err != nil {
			discardAvatar()
			return nil, err
		}
		confirmedEmail = updated.Email
	}

	result := &ProfileUpdate{}
	if form.Password != "" {
		result.PasswordChanged, err = s.account.ChangePassword(ctx, userID, form.Password)
		if err != nil {
			discardAvatar()
			return nil, err
		}
	}

	profile := &model.Profile{
		UserID:    userID,
		FullName:  fullName,
		Gender:    model.ParseGender(form.Gender),
		Email:     confirmedEmail,
		AvatarRef: avatarRef,
	}
	err = s.profileRepository.Upsert(ctx, profile)
	if err != nil {
		discardAvatar()
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	saved, err := s.Profile(ctx, &model.User{ID: userID, Email: confirmedEmail})
	if err != nil {
		return nil, err
	}
	result.Profile = saved
	return result, nil
}
