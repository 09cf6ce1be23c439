package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/matryer/is"
	"go.uber.org/zap"

	"tamilvalam_backend/internals/configs"
	"tamilvalam_backend/internals/databases/dbtest"
	"tamilvalam_backend/internals/features/users/auth/dto"
	authModel "tamilvalam_backend/internals/features/users/auth/model"
	userModel "tamilvalam_backend/internals/features/users/user/model"
)

func newAuth(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(dbtest.New(t), NewTokenService("secret", time.Hour), zap.NewNop())
}

var seed = configs.AdminSeedConfig{UserName: "root", Email: "Root@Example.com", Password: "pass-1234"}

func statusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return 0
}

func TestTokenRoundTrip(t *testing.T) {
	is := is.New(t)
	ts := NewTokenService("secret", time.Hour)
	u := &userModel.UserModel{ID: uuid.New(), UserName: "root", Role: userModel.RoleAdmin}

	raw, exp, err := ts.Issue(u)
	is.NoErr(err)
	is.True(exp.After(time.Now()))

	claims, err := ts.Parse(raw)
	is.NoErr(err)
	is.Equal(claims.UserID, u.ID)
	is.Equal(claims.Role, userModel.RoleAdmin)
	is.Equal(claims.UserName, "root")

	_, err = NewTokenService("other", time.Hour).Parse(raw)
	is.True(errors.Is(err, ErrTokenInvalid))

	_, err = ts.Parse(raw + "x")
	is.True(errors.Is(err, ErrTokenInvalid))
}

func TestTokenExpired(t *testing.T) {
	is := is.New(t)
	ts := NewTokenService("secret", time.Minute)
	ts.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }
	raw, _, err := ts.Issue(&userModel.UserModel{ID: uuid.New()})
	is.NoErr(err)

	ts.now = time.Now
	_, err = ts.Parse(raw)
	is.True(errors.Is(err, ErrTokenExpired))
	is.True(ts.BlacklistTTL(raw) > 0)
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	is := is.New(t)
	s := newAuth(t)
	ctx := context.Background()

	created, err := s.SeedAdmin(ctx, seed)
	is.NoErr(err)
	is.True(created)

	created, err = s.SeedAdmin(ctx, seed)
	is.NoErr(err)
	is.True(!created)

	created, err = s.SeedAdmin(ctx, configs.AdminSeedConfig{})
	is.NoErr(err)
	is.True(!created) // nothing configured

	var n int64
	is.NoErr(s.db.Model(&userModel.UserModel{}).Count(&n).Error)
	is.Equal(n, int64(1))
}

func TestLogin(t *testing.T) {
	is := is.New(t)
	s := newAuth(t)
	ctx := context.Background()
	_, err := s.SeedAdmin(ctx, seed)
	is.NoErr(err)

	res, err := s.Login(ctx, dto.LoginRequest{Identifier: "root@example.com", Password: "pass-1234"})
	is.NoErr(err)
	is.Equal(res.TokenType, "Bearer")
	is.Equal(res.User.Email, "root@example.com")
	is.Equal(res.User.Role, userModel.RoleAdmin)

	_, err = s.Login(ctx, dto.LoginRequest{Identifier: "root", Password: "nope-nope"})
	is.Equal(statusOf(err), fiber.StatusUnauthorized)

	_, err = s.Login(ctx, dto.LoginRequest{Identifier: "ghost", Password: "pass-1234"})
	is.Equal(statusOf(err), fiber.StatusUnauthorized)

	is.NoErr(s.db.Model(&userModel.UserModel{}).Where("user_name = ?", "root").Update("is_active", false).Error)
	_, err = s.Login(ctx, dto.LoginRequest{Identifier: "root", Password: "pass-1234"})
	is.Equal(statusOf(err), fiber.StatusForbidden)
}

func TestLogoutAndCleanup(t *testing.T) {
	is := is.New(t)
	s := newAuth(t)
	ctx := context.Background()
	_, err := s.SeedAdmin(ctx, seed)
	is.NoErr(err)
	res, err := s.Login(ctx, dto.LoginRequest{Identifier: "root", Password: "pass-1234"})
	is.NoErr(err)

	is.NoErr(s.Logout(ctx, res.AccessToken))
	is.NoErr(s.Logout(ctx, res.AccessToken)) // second logout is a no-op
	revoked, err := s.IsRevoked(ctx, res.AccessToken)
	is.NoErr(err)
	is.True(revoked)

	// an entry whose token already expired is purged
	is.NoErr(s.db.Create(&authModel.TokenBlacklist{Token: "old", ExpiredAt: time.Now().Add(-time.Hour)}).Error)
	n, err := s.CleanupBlacklist(ctx)
	is.NoErr(err)
	is.Equal(n, int64(1))

	revoked, err = s.IsRevoked(ctx, res.AccessToken)
	is.NoErr(err)
	is.True(revoked)
}

func TestMe(t *testing.T) {
	is := is.New(t)
	s := newAuth(t)
	ctx := context.Background()

	_, err := s.Me(ctx, uuid.New())
	is.Equal(statusOf(err), fiber.StatusNotFound)

	_, err = s.SeedAdmin(ctx, seed)
	is.NoErr(err)
	var u userModel.UserModel
	is.NoErr(s.db.First(&u).Error)
	me, err := s.Me(ctx, u.ID)
	is.NoErr(err)
	is.Equal(me.UserName, "root")
}
