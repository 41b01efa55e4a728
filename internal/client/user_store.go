package client

import (
	"context"
	"slices"

	"perfumeadmin/internal/models"
)

type UserState struct {
	Users   []models.User
	Loading bool
	Error   string
}

type UserStore struct {
	api      *API
	notifier Notifier
	st       store[UserState]
}

func NewUserStore(api *API, notifier Notifier) *UserStore {
	return &UserStore{
		api:      api,
		notifier: notifier,
		st: store[UserState]{clone: func(s UserState) UserState {
			s.Users = slices.Clone(s.Users)
			return s
		}},
	}
}

func (s *UserStore) State() UserState {
	return s.st.snapshot()
}

func (s *UserStore) OnChange(fn func(UserState)) {
	s.st.subscribe(fn)
}

func (s *UserStore) fail(err error, fallback string) error {
	message := FailureMessage(err, fallback)
	s.st.set(func(st *UserState) {
		st.Loading = false
		st.Error = message
	})
	s.notifier.Error(message)
	return err
}

func (s *UserStore) begin() {
	s.st.set(func(st *UserState) {
		st.Loading = true
		st.Error = ""
	})
}

func (s *UserStore) Fetch(ctx context.Context) error {
	s.begin()
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		return s.fail(err, "Failed to fetch users")
	}

	s.st.set(func(st *UserState) {
		st.Users = users
		st.Loading = false
	})
	return nil
}

// SetRole patches the role of the cached user once the server accepts it.
func (s *UserStore) SetRole(ctx context.Context, userID string, role models.Role) error {
	s.begin()
	if err := s.api.SetUserRole(ctx, userID, role); err != nil {
		return s.fail(err, "Failed to update user role")
	}

	s.st.set(func(st *UserState) {
		for i := range st.Users {
			if st.Users[i].ID == userID {
				st.Users[i].Role = role
			}
		}
		st.Loading = false
	})
	s.notifier.Success("User role updated successfully")
	return nil
}
