package model

import (
	"strings"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// ParseGender returns nil for empty or unknown values.
func ParseGender(s string) *Gender {
	g := Gender(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Genders {
		if g == known {
			return &g
		}
	}
	return nil
}

type Profile struct {
	UserID    string    `db:"user_id"`
	FullName  string    `db:"full_name"`
	Gender    *Gender   `db:"gender"`
	Email     string    `db:"email"`
	AvatarRef *string   `db:"avatar_ref"` // Absolute URL or path inside the avatar bucket
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// Computed fields (not in database)
	AvatarURL string `db:"-"`
}

// DisplayName falls back from full name to email to a generic label.
func (p *Profile) DisplayName() string {
	if p == nil {
		return "User"
	}
	if name := strings.TrimSpace(p.FullName); name != "" {
		return name
	}
	if p.Email != "" {
		return p.Email
	}
	return "User"
}

func (p *Profile) GenderValue() string {
	if p == nil || p.Gender == nil {
		return ""
	}
	return string(*p.Gender)
}
