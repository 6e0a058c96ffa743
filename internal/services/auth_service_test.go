package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	iauth "github.com/lensfolio/backoffice/internal/auth"
	"github.com/lensfolio/backoffice/internal/rbac"
	"github.com/lensfolio/backoffice/internal/services"
	apperrors "github.com/lensfolio/backoffice/pkg/errors"
)

func newAuthService(t *testing.T, db *gorm.DB) (*services.AuthService, *services.UserService) {
	t.Helper()

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         "auth-service-test-secret",
		Issuer:         "backoffice-test",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	resolver, err := rbac.NewResolver(db)
	require.NoError(t, err)

	users, err := services.NewUserService(db, nil)
	require.NoError(t, err)

	svc, err := services.NewAuthService(db, jwtSvc, resolver, users, nil, time.Hour)
	require.NoError(t, err)
	return svc, users
}

func TestLoginIssuesTokenAndRecordsLogin(t *testing.T) {
	db := openTestDB(t)
	svc, users := newAuthService(t, db)

	_, err := users.Create(context.Background(), services.CreateUserInput{
		Name: "Owner", Email: "owner@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), services.LoginInput{
		Email:     "Owner@Example.com",
		Password:  "correct-horse",
		IPAddress: "10.0.0.1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.EqualValues(t, 3600, result.ExpiresIn)

	fresh, err := users.GetByEmail(context.Background(), "owner@example.com")
	require.NoError(t, err)
	require.NotNil(t, fresh.LastLoginAt)
	require.Equal(t, "10.0.0.1", fresh.LastLoginIP)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	db := openTestDB(t)
	svc, users := newAuthService(t, db)

	_, err := users.Create(context.Background(), services.CreateUserInput{
		Name: "Owner", Email: "owner@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), services.LoginInput{
		Email: "owner@example.com", Password: "wrong",
	})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), services.LoginInput{
		Email: "nobody@example.com", Password: "correct-horse",
	})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	db := openTestDB(t)
	svc, users := newAuthService(t, db)

	inactive := false
	_, err := users.Create(context.Background(), services.CreateUserInput{
		Name: "Dormant", Email: "dormant@example.com", Password: "correct-horse", IsActive: &inactive,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), services.LoginInput{
		Email: "dormant@example.com", Password: "correct-horse",
	})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRegisterCreatesUserWithoutGrants(t *testing.T) {
	db := openTestDB(t)
	svc, _ := newAuthService(t, db)

	result, err := svc.Register(context.Background(), services.RegisterInput{
		Name: "New Joiner", Email: "new@example.com", Password: "first-password",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Empty(t, result.User.Roles)
	require.Empty(t, result.User.DirectPermissions)

	access, err := svc.CurrentUser(context.Background(), result.User.ID)
	require.NoError(t, err)
	require.Empty(t, access.EffectiveKeys)
}
