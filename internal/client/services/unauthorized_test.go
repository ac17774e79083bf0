package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/identity-client/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnauthorizedHandler_ClearsSessionAndRedirects(t *testing.T) {
	store, _ := setupSession(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "h.p.s", models.User{Username: "alice2024"}))

	redirects := 0
	hook := UnauthorizedHandler(store, func() { redirects++ }, nil)

	hook(ctx, "h.p.s")
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, 1, redirects)

	// anonymous request refused again
	hook(ctx, "")
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, 2, redirects)
}

func TestUnauthorizedHandler_IgnoresReplacedToken(t *testing.T) {
	store, _ := setupSession(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "new.p.s", models.User{Username: "alice2024"}))

	redirects := 0
	hook := UnauthorizedHandler(store, func() { redirects++ }, nil)

	hook(ctx, "old.p.s")
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "new.p.s", store.Token())
	assert.Equal(t, 0, redirects)
}
