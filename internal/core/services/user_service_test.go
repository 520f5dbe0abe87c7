package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"openshelf/internal/core/domain"
)

func TestUpdateUserRoles(t *testing.T) {
	setup := func(t *testing.T) (*UserService, *fakeUserRepo) {
		t.Helper()
		users := newFakeUserRepo()
		users.addUser("root", "root@example.com", "Admin")
		users.addUser("alice", "alice@example.com", "Member")
		return NewUserService(users), users
	}

	t.Run("admin promotes a member to librarian", func(t *testing.T) {
		service, _ := setup(t)

		user, err := service.UpdateUserRoles(context.Background(), 2, &UpdateRolesInput{Roles: []string{"Librarian"}}, adminCaller(1))

		assert.NoError(t, err)
		assert.Equal(t, []string{"Librarian"}, user.Roles)
	})

	t.Run("librarian cannot administer", func(t *testing.T) {
		service, _ := setup(t)

		_, err := service.UpdateUserRoles(context.Background(), 2, &UpdateRolesInput{Roles: []string{"Librarian"}}, staffCaller(1))
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("admin cannot change own roles", func(t *testing.T) {
		service, _ := setup(t)

		_, err := service.UpdateUserRoles(context.Background(), 1, &UpdateRolesInput{Roles: []string{"Member"}}, adminCaller(1))
		assert.ErrorIs(t, err, ErrCannotChangeOwnRoles)
	})

	t.Run("unknown role name is rejected", func(t *testing.T) {
		service, _ := setup(t)

		_, err := service.UpdateUserRoles(context.Background(), 2, &UpdateRolesInput{Roles: []string{"Superuser"}}, adminCaller(1))
		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("empty role set is rejected", func(t *testing.T) {
		service, _ := setup(t)

		_, err := service.UpdateUserRoles(context.Background(), 2, &UpdateRolesInput{Roles: nil}, adminCaller(1))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown user", func(t *testing.T) {
		service, _ := setup(t)

		_, err := service.UpdateUserRoles(context.Background(), 99, &UpdateRolesInput{Roles: []string{"Member"}}, adminCaller(1))
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestListUsers(t *testing.T) {
	users := newFakeUserRepo()
	users.addUser("root", "root@example.com", "Admin")
	users.addUser("alice", "alice@example.com", "Member")
	service := NewUserService(users)

	t.Run("admin lists users", func(t *testing.T) {
		result, err := service.ListUsers(context.Background(), &ListUsersInput{Limit: 10}, adminCaller(1))

		assert.NoError(t, err)
		assert.Equal(t, int64(2), result.Total)
		assert.Len(t, result.Users, 2)
	})

	t.Run("member is forbidden", func(t *testing.T) {
		_, err := service.ListUsers(context.Background(), &ListUsersInput{}, memberCaller(2))
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestSetActive(t *testing.T) {
	users := newFakeUserRepo()
	users.addUser("root", "root@example.com", "Admin")
	alice := users.addUser("alice", "alice@example.com", "Member")
	service := NewUserService(users)

	t.Run("admin deactivates an account", func(t *testing.T) {
		user, err := service.SetActive(context.Background(), alice.ID, false, adminCaller(1))

		assert.NoError(t, err)
		assert.False(t, user.IsActive)
	})

	t.Run("admin cannot deactivate self", func(t *testing.T) {
		_, err := service.SetActive(context.Background(), 1, false, adminCaller(1))
		assert.ErrorIs(t, err, ErrCannotEditSelf)
	})
}
