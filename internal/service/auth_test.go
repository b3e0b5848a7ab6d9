package service

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foodlog/foodlog/internal/repository"
	"github.com/foodlog/foodlog/internal/testutil"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	conn     *sqlx.DB
	svc      *AuthService
	profiles repository.ProfileRepository
	avatars  *testutil.MemoryStorage
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	conn := testutil.NewDB(t)
	profiles := repository.NewProfileRepository(conn)
	avatars := testutil.NewMemoryStorage("avatars")
	email := NewEmailService("", "noreply@foodlog.test", "http://localhost:8080", "FoodLog", true)

	svc := NewAuthService(repository.NewUserRepository(conn), profiles, NewFileService(avatars, "avatars"), email, "test-secret", false, time.Hour)
	return &authFixture{conn: conn, svc: svc, profiles: profiles, avatars: avatars}
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	img := &Image{File: bytes.NewReader([]byte("gif")), ContentType: "image/gif"}
	user, err := f.svc.Register(ctx, RegisterForm{
		Email:    " Ana@Example.com",
		Password: "secret123",
		FullName: "Ana Lima",
		Gender:   "female",
		Avatar:   img,
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)

	profile, err := f.profiles.ByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", profile.FullName)
	require.NotNil(t, profile.AvatarRef)
	assert.Regexp(t, `^`+user.ID+`/avatar-\d+\.gif$`, *profile.AvatarRef)

	loggedIn, err := f.svc.Login(ctx, "ana@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	_, err = f.svc.Login(ctx, "ana@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RegisterExistingAccount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	first, err := f.svc.Register(ctx, RegisterForm{Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)

	again, err := f.svc.Register(ctx, RegisterForm{Email: "ana@example.com", Password: "secret123", FullName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	_, err = f.svc.Register(ctx, RegisterForm{Email: "ana@example.com", Password: "other-pass"})
	var inputErr *InputError
	require.True(t, errors.As(err, &inputErr))
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_LoginCreatesMissingProfile(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, RegisterForm{Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)
	_, err = f.conn.Exec(`DELETE FROM profiles WHERE user_id = $1`, user.ID)
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "ana@example.com", "secret123")
	require.NoError(t, err)

	profile, err := f.profiles.ByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", profile.Email)
}

func TestAuthService_ChangeEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	ana, err := f.svc.Register(ctx, RegisterForm{Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, RegisterForm{Email: "bo@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = f.svc.ChangeEmail(ctx, ana.ID, "not-an-email")
	var inputErr *InputError
	assert.True(t, errors.As(err, &inputErr))

	_, err = f.svc.ChangeEmail(ctx, ana.ID, "bo@example.com")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	// a case variant of a taken address is the same address
	_, err = f.svc.ChangeEmail(ctx, ana.ID, " BO@Example.com ")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	_, err = f.svc.ChangeEmail(ctx, "missing", "new@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	updated, err := f.svc.ChangeEmail(ctx, ana.ID, "New@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)

	signedIn, err := f.svc.Login(ctx, "New@Example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, signedIn.ID)
	assert.NotNil(t, updated.EmailVerifiedAt)

	profile, err := f.profiles.ByUserID(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", profile.Email)
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, RegisterForm{Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)

	changed, err := f.svc.ChangePassword(ctx, user.ID, "secret123")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = f.svc.ChangePassword(ctx, user.ID, "newsecret")
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = f.svc.Login(ctx, "ana@example.com", "newsecret")
	assert.NoError(t, err)

	_, err = f.svc.ChangePassword(ctx, user.ID, "123")
	var inputErr *InputError
	assert.True(t, errors.As(err, &inputErr))
}

func TestAuthService_OAuthSignsInOrCreates(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	created, err := f.svc.AuthenticateOAuth(ctx, "Ana@Example.com", "google")
	require.NoError(t, err)
	assert.False(t, created.HasPassword())

	again, err := f.svc.AuthenticateOAuth(ctx, "ana@example.com", "google")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	_, err = f.svc.Login(ctx, "ana@example.com", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_SessionCookieRoundTrip(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, RegisterForm{Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, f.svc.StartSession(rec, user))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AuthCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	claims, err := f.svc.VerifyJWT(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims["user_id"])

	other := NewAuthService(nil, nil, nil, nil, "other-secret", false, time.Hour)
	_, err = other.VerifyJWT(cookies[0].Value)
	assert.Error(t, err)
}
