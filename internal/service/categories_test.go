package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/atinyakov/taskboard/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	c, err := f.categories.Create(ctx, alice, CategoryInput{Item: " Work "})
	require.NoError(t, err)
	assert.Equal(t, "Work", c.Item)

	got, err := f.categories.Get(ctx, alice, c.ID)
	require.NoError(t, err)
	assert.Equal(t, *c, *got)

	_, err = f.categories.Create(ctx, alice, CategoryInput{})
	requireValidation(t, err, "item")

	_, err = f.categories.Create(ctx, alice, CategoryInput{Item: strings.Repeat("x", 101)})
	requireValidation(t, err, "item")

	_, err = f.categories.Create(ctx, identity.Anonymous, CategoryInput{Item: "x"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestCategory_DisabledVerbs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	c := f.category(t, alice, "Work")

	requireRejected(t, f.categories.Update(ctx, alice, c.ID), http.MethodPut)
	requireRejected(t, f.categories.PartialUpdate(ctx, alice, c.ID), http.MethodPatch)
	requireRejected(t, f.categories.Delete(ctx, alice, c.ID), http.MethodDelete)

	all, err := f.categories.List(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = f.categories.Get(ctx, alice, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}
