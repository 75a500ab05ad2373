package service

import (
	"context"
	"strings"
	"testing"

	"github.com/atinyakov/taskboard/internal/auth"
	"github.com/atinyakov/taskboard/internal/identity"
	"github.com/atinyakov/taskboard/internal/repository/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_HashesPassword(t *testing.T) {
	svc := NewUserService(memstore.New().Users())

	u, err := svc.Register(context.Background(), RegisterInput{Username: "alice", Password: "s3cret"})
	require.NoError(t, err)

	assert.NotZero(t, u.ID)
	assert.NotContains(t, u.PasswordHash, "s3cret")
	assert.True(t, auth.VerifyPassword("s3cret", u.PasswordHash))
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"missing username", RegisterInput{Password: "x"}, "username"},
		{"blank username", RegisterInput{Username: "  ", Password: "x"}, "username"},
		{"bad characters", RegisterInput{Username: "a b", Password: "x"}, "username"},
		{"too long", RegisterInput{Username: strings.Repeat("a", 151), Password: "x"}, "username"},
		{"missing password", RegisterInput{Username: "alice"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.Register(ctx, tt.in)
			requireValidation(t, err, tt.field)
		})
	}

	users, err := f.store.Users().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestRegister_UnicodeUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"José", "Ёжик", "user_1.x@y+z-w", "山田"} {
		u, err := f.users.Register(ctx, RegisterInput{Username: name, Password: "x"})
		require.NoError(t, err, name)
		assert.Equal(t, name, u.Username)
	}

	_, err := f.users.Register(ctx, RegisterInput{Username: "josé!", Password: "x"})
	requireValidation(t, err, "username")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	_, err := f.users.Register(ctx, RegisterInput{Username: "alice", Password: "other"})
	verr := requireValidation(t, err, "username")
	assert.Equal(t, "A user with that username already exists.", verr["username"])

	users, err := f.store.Users().List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, "hashed:pw-alice", users[0].PasswordHash, "existing record untouched")
}

func TestUsers_RequireCaller(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.List(ctx, identity.Anonymous)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = f.users.Self(ctx, identity.Anonymous)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = f.users.UpdateSelf(ctx, identity.Anonymous, UpdateUserInput{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUsers_ListAndSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	f.register(t, "bob")

	users, err := f.users.List(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	me, err := f.users.Self(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	_, err = f.users.Self(ctx, identity.Caller{ID: 99})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	f.register(t, "bob")

	_, err := f.users.UpdateSelf(ctx, alice, UpdateUserInput{Username: strp("alice2")})
	requireValidation(t, err, "password")

	_, err = f.users.UpdateSelf(ctx, alice, UpdateUserInput{Username: strp("bob"), Password: strp("x")})
	requireValidation(t, err, "username")

	u, err := f.users.UpdateSelf(ctx, alice, UpdateUserInput{Username: strp("alice2"), Password: strp("new")})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)
	assert.Equal(t, "alice2", u.Username)
	assert.Equal(t, "hashed:new", u.PasswordHash)
}

func TestPatchSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	u, err := f.users.PatchSelf(ctx, alice, UpdateUserInput{Username: strp("alicia")})
	require.NoError(t, err)
	assert.Equal(t, "alicia", u.Username)
	assert.Equal(t, "hashed:pw-alice", u.PasswordHash)

	u, err = f.users.PatchSelf(ctx, alice, UpdateUserInput{Password: strp("changed")})
	require.NoError(t, err)
	assert.Equal(t, "alicia", u.Username)
	assert.Equal(t, "hashed:changed", u.PasswordHash)

	_, err = f.users.PatchSelf(ctx, alice, UpdateUserInput{Password: strp("")})
	requireValidation(t, err, "password")
}
