package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lensfolio/backoffice/internal/services"
	"github.com/lensfolio/backoffice/pkg/crypto"
)

func TestUserCreateHashesPasswordAndAssignsRoles(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewUserService(db, nil)
	require.NoError(t, err)

	role := createRole(t, db, "Editor")

	user, err := svc.Create(context.Background(), services.CreateUserInput{
		Name:     "Dina",
		Email:    "dina@example.com",
		Password: "s3cret-pass",
		RoleIDs:  []string{role.ID},
	})
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", user.Password)
	require.True(t, crypto.VerifyPassword(user.Password, "s3cret-pass"))
	require.Len(t, user.Roles, 1)
	require.Equal(t, "Editor", user.Roles[0].Name)
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewUserService(db, nil)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), services.CreateUserInput{
		Name: "First", Email: "same@example.com", Password: "password1",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), services.CreateUserInput{
		Name: "Second", Email: "same@example.com", Password: "password2",
	})
	require.ErrorIs(t, err, services.ErrDuplicateEmail)
}

func TestUserUpdateReplacesRoleSet(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewUserService(db, nil)
	require.NoError(t, err)

	editor := createRole(t, db, "Editor")
	viewer := createRole(t, db, "Viewer")

	user, err := svc.Create(context.Background(), services.CreateUserInput{
		Name: "Rami", Email: "rami@example.com", Password: "password1",
		RoleIDs: []string{editor.ID},
	})
	require.NoError(t, err)

	newRoles := []string{viewer.ID}
	user, err = svc.Update(context.Background(), user.ID, services.UpdateUserInput{RoleIDs: &newRoles})
	require.NoError(t, err)
	require.Len(t, user.Roles, 1)
	require.Equal(t, "Viewer", user.Roles[0].Name)
}

func TestUserListFiltersAndPaginates(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewUserService(db, nil)
	require.NoError(t, err)

	active := true
	inactive := false
	_, err = svc.Create(context.Background(), services.CreateUserInput{
		Name: "Active One", Email: "a1@example.com", Password: "password1", IsActive: &active,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), services.CreateUserInput{
		Name: "Sleeper", Email: "a2@example.com", Password: "password1", IsActive: &inactive,
	})
	require.NoError(t, err)

	users, total, err := svc.List(context.Background(), services.ListUsersOptions{
		Filters: services.UserFilters{IsActive: &active},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	require.Equal(t, "a1@example.com", users[0].Email)

	users, total, err = svc.List(context.Background(), services.ListUsersOptions{
		Filters: services.UserFilters{Query: "sleep"},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "Sleeper", users[0].Name)
}

func TestUserDeleteClearsGrantPivots(t *testing.T) {
	db := openTestDB(t)
	svc, err := services.NewUserService(db, nil)
	require.NoError(t, err)

	role := createRole(t, db, "Editor")
	perm := createPermission(t, db, "projects.view")

	user, err := svc.Create(context.Background(), services.CreateUserInput{
		Name: "Gone Soon", Email: "gone@example.com", Password: "password1",
		RoleIDs: []string{role.ID},
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(user).Association("DirectPermissions").Append(&perm))

	require.NoError(t, svc.Delete(context.Background(), user.ID))

	_, err = svc.Get(context.Background(), user.ID)
	require.ErrorIs(t, err, services.ErrUserNotFound)

	require.Zero(t, pivotCount(t, db, "user_roles", "user_id", user.ID))
	require.Zero(t, pivotCount(t, db, "user_permissions", "user_id", user.ID))
}
