package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/foodlog/foodlog/internal/model"
	"github.com/jmoiron/sqlx"
)

type ProfileRepository interface {
	ByUserID(ctx context.Context, userID string) (*model.Profile, error)
	// InsertIfAbsent creates the profile row and leaves an existing one untouched.
	InsertIfAbsent(ctx context.Context, profile *model.Profile) error
	// Upsert writes all editable fields. A nil AvatarRef keeps the stored one.
	Upsert(ctx context.Context, profile *model.Profile) error
	UpdateDetails(ctx context.Context, userID, fullName string, gender *model.Gender) error
	UpdateAvatar(ctx context.Context, userID, avatarRef string) error
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) ByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, `
		SELECT user_id, full_name, gender, email, avatar_ref, created_at, updated_at
		FROM profiles WHERE user_id = $1
	`, userID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func stampProfile(profile *model.Profile) {
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
}

func (r *profileRepository) InsertIfAbsent(ctx context.Context, profile *model.Profile) error {
	stampProfile(profile)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, full_name, gender, email, avatar_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO NOTHING
	`, profile.UserID, profile.FullName, profile.Gender, profile.Email, profile.AvatarRef, profile.CreatedAt, profile.UpdatedAt)

	return err
}

func (r *profileRepository) Upsert(ctx context.Context, profile *model.Profile) error {
	stampProfile(profile)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, full_name, gender, email, avatar_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = excluded.full_name,
			gender = excluded.gender,
			email = excluded.email,
			avatar_ref = COALESCE(excluded.avatar_ref, profiles.avatar_ref),
			updated_at = excluded.updated_at
	`, profile.UserID, profile.FullName, profile.Gender, profile.Email, profile.AvatarRef, profile.CreatedAt, profile.UpdatedAt)

	return err
}

func (r *profileRepository) UpdateDetails(ctx context.Context, userID, fullName string, gender *model.Gender) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET full_name = $1, gender = $2, updated_at = $3
		WHERE user_id = $4
	`, fullName, gender, time.Now(), userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}

func (r *profileRepository) UpdateAvatar(ctx context.Context, userID, avatarRef string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET avatar_ref = $1, updated_at = $2
		WHERE user_id = $3
	`, avatarRef, time.Now(), userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}
