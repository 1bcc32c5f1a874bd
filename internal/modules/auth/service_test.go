package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"glamup.com/app/internal/shared/apperr"
	"glamup.com/app/internal/shared/dbx/dbxtest"
)

func newTestService(t *testing.T) (*Service, *Repo) {
	t.Helper()
	repo := NewRepo(dbxtest.Open(t, Models()...))
	svc := NewService(repo, NewTokenIssuer("test-secret", "glamup"), time.Hour)
	svc.bcryptCost = bcrypt.MinCost
	return svc, repo
}

func kindOf(t *testing.T, err error) apperr.Kind {
	t.Helper()
	ae, ok := apperr.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return ae.Kind
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	in := validInput()
	in.Age = 9
	in.Interests = []string{"Shoes", "Shoes", "Unknown"}
	res, err := svc.Register(ctx, in, ClientMeta{UserAgent: "test", IP: "127.0.0.1"})
	require.NoError(t, err)

	assert.Equal(t, "ava@example.com", res.User.Email)
	assert.Equal(t, RoleUser, res.User.Role)
	assert.Equal(t, MinAge, res.User.Age)
	assert.Equal(t, []string{"Shoes"}, res.User.InterestList())
	assert.NotEqual(t, "secret1", res.User.PasswordHash)
	assert.NotEmpty(t, res.Token)

	p, err := svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, p.User.ID)
	assert.Equal(t, res.SessionID, p.SessionID)
}

func TestRegisterRejectsInvalidAndDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	bad := validInput()
	bad.ConfirmPassword = "nope"
	_, err := svc.Register(ctx, bad, ClientMeta{})
	require.Error(t, err)
	ae, _ := apperr.As(err)
	assert.Equal(t, apperr.Invalid, ae.Kind)
	assert.Equal(t, "Passwords do not match", ae.Fields["confirmPassword"])

	n, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "validation failures must not write")

	_, err = svc.Register(ctx, validInput(), ClientMeta{})
	require.NoError(t, err)

	dup := validInput()
	dup.Email = "AVA@example.com"
	_, err = svc.Register(ctx, dup, ClientMeta{})
	assert.Equal(t, apperr.Conflict, kindOf(t, err))
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, err := svc.Register(ctx, validInput(), ClientMeta{})
	require.NoError(t, err)

	res, err := svc.Login(ctx, " AVA@example.com", "secret1", ClientMeta{})
	require.NoError(t, err)
	assert.Equal(t, "Ava Stone", res.User.Name)

	_, err = svc.Login(ctx, "ava@example.com", "wrong-password", ClientMeta{})
	assert.Equal(t, apperr.Unauthorized, kindOf(t, err))

	_, err = svc.Login(ctx, "nobody@example.com", "secret1", ClientMeta{})
	assert.Equal(t, apperr.Unauthorized, kindOf(t, err))

	_, err = svc.Login(ctx, "", "", ClientMeta{})
	assert.Equal(t, apperr.Invalid, kindOf(t, err))
}

func TestLogoutRevokesAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	res, err := svc.Register(ctx, validInput(), ClientMeta{})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.SessionID))
	require.NoError(t, svc.Logout(ctx, res.SessionID))
	require.NoError(t, svc.Logout(ctx, ""))

	_, err = svc.Authenticate(ctx, res.Token)
	assert.Equal(t, apperr.Unauthorized, kindOf(t, err))
}

func TestAuthenticateExpiredSession(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	res, err := svc.Register(ctx, validInput(), ClientMeta{})
	require.NoError(t, err)

	require.NoError(t, repo.db.Model(&Session{}).Where("id = ?", res.SessionID).
		Update("expires_at", time.Now().UTC().Add(-time.Minute)).Error)

	_, err = svc.Authenticate(ctx, res.Token)
	assert.Equal(t, apperr.Unauthorized, kindOf(t, err))

	purged, err := svc.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	_, err = svc.Authenticate(ctx, "not-a-token")
	assert.Equal(t, apperr.Unauthorized, kindOf(t, err))
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	res, err := svc.Register(ctx, validInput(), ClientMeta{})
	require.NoError(t, err)

	city := "Dallas"
	budget := 10000
	interests := []string{"Wellness"}
	u, err := svc.UpdateProfile(ctx, res.User.ID, ProfilePatch{City: &city, Budget: &budget, Interests: &interests})
	require.NoError(t, err)
	assert.Equal(t, "Dallas", u.City)
	assert.Equal(t, MaxBudget, u.Budget)
	assert.Equal(t, []string{"Wellness"}, u.InterestList())
	assert.Equal(t, "Ava Stone", u.Name, "nil fields are left alone")
	assert.Equal(t, "female", u.Gender)

	blank := "  "
	_, err = svc.UpdateProfile(ctx, res.User.ID, ProfilePatch{Name: &blank})
	assert.Equal(t, apperr.Invalid, kindOf(t, err))

	gender := "robot"
	_, err = svc.UpdateProfile(ctx, res.User.ID, ProfilePatch{Gender: &gender})
	assert.Equal(t, apperr.Invalid, kindOf(t, err))

	_, err = svc.UpdateProfile(ctx, "missing", ProfilePatch{City: &city})
	assert.Equal(t, apperr.NotFound, kindOf(t, err))

	u, err = svc.SetAvatar(ctx, res.User.ID, "/uploads/avatars/a.png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/avatars/a.png", u.AvatarURL)
}

func TestCreateAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	admin, err := svc.CreateAdmin(ctx, "", "Root@Example.com", "changeme")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
	assert.Equal(t, "Admin", admin.Name)

	_, err = svc.Login(ctx, "root@example.com", "changeme", ClientMeta{})
	require.NoError(t, err)

	// promoting an existing user
	res, err := svc.Register(ctx, validInput(), ClientMeta{})
	require.NoError(t, err)
	promoted, err := svc.CreateAdmin(ctx, "ignored", "ava@example.com", "newpass1")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, promoted.ID)
	assert.True(t, promoted.IsAdmin())

	_, err = svc.CreateAdmin(ctx, "x", "bad", "changeme")
	assert.Equal(t, apperr.Invalid, kindOf(t, err))
	_, err = svc.CreateAdmin(ctx, "x", "ok@example.com", "123")
	assert.Equal(t, apperr.Invalid, kindOf(t, err))

	n, err := svc.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	recent, err := svc.RecentUsers(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	phone, err := svc.Register(ctx, validInput(), ClientMeta{UserAgent: "phone"})
	require.NoError(t, err)
	laptop, err := svc.Login(ctx, "ava@example.com", "secret1", ClientMeta{UserAgent: "laptop"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, phone.User.ID, phone.SessionID, PasswordChange{Current: "wrong", New: "secret2"})
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Invalid, ae.Kind)
	assert.Contains(t, ae.Fields, "currentPassword")

	err = svc.ChangePassword(ctx, phone.User.ID, phone.SessionID, PasswordChange{Current: "secret1", New: "abc"})
	ae, _ = apperr.As(err)
	assert.Contains(t, ae.Fields, "newPassword")

	err = svc.ChangePassword(ctx, phone.User.ID, phone.SessionID, PasswordChange{Current: "secret1", New: "secret1"})
	assert.Equal(t, apperr.Invalid, kindOf(t, err))

	require.NoError(t, svc.ChangePassword(ctx, phone.User.ID, phone.SessionID, PasswordChange{Current: "secret1", New: "secret2"}))

	_, err = svc.Authenticate(ctx, phone.Token)
	assert.NoError(t, err, "the calling session survives")
	_, err = svc.Authenticate(ctx, laptop.Token)
	assert.Equal(t, apperr.Unauthorized, kindOf(t, err))

	_, err = svc.Login(ctx, "ava@example.com", "secret1", ClientMeta{})
	assert.Equal(t, apperr.Unauthorized, kindOf(t, err))
	_, err = svc.Login(ctx, "ava@example.com", "secret2", ClientMeta{})
	assert.NoError(t, err)
}
