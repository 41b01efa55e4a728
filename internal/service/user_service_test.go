package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"perfumeadmin/internal/errs"
	"perfumeadmin/internal/models"
)

func TestUserService_SetRole(t *testing.T) {
	tests := []struct {
		name      string
		role      string
		mockSetup func(repo *MockUserRepository)
		wantErr   error
	}{
		{
			name: "admin",
			role: "admin",
			mockSetup: func(repo *MockUserRepository) {
				repo.On("UpdateRole", mock.Anything, "u1", models.RoleAdmin).Return(nil)
			},
		},
		{
			name:    "unknown role is rejected",
			role:    "superuser",
			wantErr: errs.ErrValidation,
		},
		{
			name: "missing user",
			role: "visitor",
			mockSetup: func(repo *MockUserRepository) {
				repo.On("UpdateRole", mock.Anything, "u1", models.RoleVisitor).Return(errs.NotFound("User not found"))
			},
			wantErr: errs.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			if tt.mockSetup != nil {
				tt.mockSetup(repo)
			}

			err := NewUserService(repo, zap.NewNop()).SetRole(context.Background(), "u1", tt.role)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			if tt.mockSetup == nil {
				repo.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestUserService_SetRoleThenList(t *testing.T) {
	repo := new(MockUserRepository)
	user := &models.User{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: models.RoleVisitor, PasswordHash: "hash"}

	repo.On("UpdateRole", mock.Anything, "u1", models.RoleAdmin).
		Run(func(args mock.Arguments) { user.Role = args.Get(2).(models.Role) }).
		Return(nil)

	service := NewUserService(repo, zap.NewNop())
	require.NoError(t, service.SetRole(context.Background(), "u1", "admin"))

	repo.On("List", mock.Anything).Return([]models.User{*user}, nil)

	users, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, models.RoleAdmin, users[0].Role)

	body, err := json.Marshal(users)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), "hash")
}
