package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/atinyakov/taskboard/internal/identity"
	"github.com/atinyakov/taskboard/internal/media"
	"github.com/atinyakov/taskboard/internal/models"
	"github.com/atinyakov/taskboard/internal/policy"
	"github.com/atinyakov/taskboard/internal/repository/memstore"
	"github.com/atinyakov/taskboard/internal/validator"
	"github.com/stretchr/testify/require"
)

// fixture wires every service over one in-process store.
type fixture struct {
	store      *memstore.Store
	avatars    *fakeAvatars
	users      *UserService
	profiles   *ProfileService
	categories *CategoryService
	tasks      *TaskService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	avatars := &fakeAvatars{files: map[string]string{}}

	users := NewUserService(store.Users())
	users.hash = func(p string) (string, error) { return "hashed:" + p, nil }

	return &fixture{
		store:      store,
		avatars:    avatars,
		users:      users,
		profiles:   NewProfileService(store.Profiles(), avatars),
		categories: NewCategoryService(store.Categories()),
		tasks:      NewTaskService(store.Tasks(), store.Categories(), store.Users()),
	}
}

func (f *fixture) register(t *testing.T, name string) identity.Caller {
	t.Helper()
	u, err := f.users.Register(context.Background(), RegisterInput{Username: name, Password: "pw-" + name})
	require.NoError(t, err)
	return identity.Caller{ID: u.ID, Username: u.Username}
}

func (f *fixture) category(t *testing.T, caller identity.Caller, item string) *models.Category {
	t.Helper()
	c, err := f.categories.Create(context.Background(), caller, CategoryInput{Item: item})
	require.NoError(t, err)
	return c
}

type fakeAvatars struct {
	files   map[string]string
	saveErr error
}

func (f *fakeAvatars) Save(rel string, up media.Upload) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.files[rel] = up.Filename
	return nil
}

func (f *fakeAvatars) Rename(from, to string) error {
	name, ok := f.files[from]
	if !ok {
		return fmt.Errorf("no such avatar %q", from)
	}
	delete(f.files, from)
	f.files[to] = name
	return nil
}

func (f *fakeAvatars) Remove(rel string) error {
	delete(f.files, rel)
	return nil
}

func requireValidation(t *testing.T, err error, field string) validator.Errors {
	t.Helper()
	var verr validator.Errors
	require.True(t, errors.As(err, &verr), "want validation error, got %v", err)
	require.Contains(t, verr, field)
	return verr
}

func requireRejected(t *testing.T, err error, method string) {
	t.Helper()
	var mna *policy.MethodNotAllowedError
	require.True(t, errors.As(err, &mna), "want method rejection, got %v", err)
	require.Equal(t, method+" method is not allowed", mna.Error())
}

func int64p(v int64) *int64 { return &v }
func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }
