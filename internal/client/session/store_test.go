package session

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dmitrijs2005/identity-client/internal/client/models"
	"github.com/dmitrijs2005/identity-client/internal/client/repositories/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupRepo(t *testing.T) *metadata.SQLiteRepository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)
	return metadata.NewSQLiteRepository(db)
}

// failingRepo отказывает в групповых операциях.
type failingRepo struct {
	metadata.Repository
	err error
}

func (f *failingRepo) SetMany(context.Context, map[string][]byte) error { return f.err }
func (f *failingRepo) DeleteMany(context.Context, ...string) error      { return f.err }

func TestStore_StartsAnonymous(t *testing.T) {
	s := NewStore(setupRepo(t), nil)

	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, Anonymous, s.State())
	assert.Equal(t, "anonymous", s.State().String())
	assert.Empty(t, s.Token())
	_, ok := s.User()
	assert.False(t, ok)
	assert.False(t, s.Claims().OK)
}

func TestStore_SetPersistsAndRestores(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	s := NewStore(repo, nil)
	require.NoError(t, s.Set(ctx, "h.p.s", *models.PlaceholderUser("alice2024")))
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, Authenticated, s.State())

	// a fresh store over the same repository picks the session up
	restored := NewStore(repo, nil)
	require.NoError(t, restored.Restore(ctx))
	assert.Equal(t, "h.p.s", restored.Token())
	u, ok := restored.User()
	require.True(t, ok)
	assert.Equal(t, "alice2024", u.Username)
	assert.True(t, u.IsVerified)
}

func TestStore_SetRejectsEmptyToken(t *testing.T) {
	s := NewStore(setupRepo(t), nil)

	require.Error(t, s.Set(context.Background(), "", models.User{Username: "alice2024"}))
	assert.False(t, s.IsAuthenticated())
}

func TestStore_SetFailureLeavesMemoryUntouched(t *testing.T) {
	s := NewStore(&failingRepo{err: errors.New("disk full")}, nil)

	err := s.Set(context.Background(), "h.p.s", models.User{Username: "alice2024"})
	require.ErrorContains(t, err, "disk full")
	assert.False(t, s.IsAuthenticated())
}

func TestStore_Clear(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	s := NewStore(repo, nil)
	require.NoError(t, s.Set(ctx, "h.p.s", models.User{Username: "alice2024"}))
	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))

	assert.False(t, s.IsAuthenticated())
	m, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestStore_ClearWipesMemoryEvenIfStorageFails(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	s := NewStore(repo, nil)
	require.NoError(t, s.Set(ctx, "h.p.s", models.User{Username: "alice2024"}))

	s.repo = &failingRepo{Repository: repo, err: errors.New("locked")}
	require.ErrorContains(t, s.Clear(ctx), "locked")
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
}

func TestStore_ReplaceToken(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	s := NewStore(repo, nil)

	require.ErrorIs(t, s.ReplaceToken(ctx, "new"), ErrNoSession)

	require.NoError(t, s.Set(ctx, "old", models.User{Username: "alice2024"}))
	require.NoError(t, s.ReplaceToken(ctx, "new"))
	assert.Equal(t, "new", s.Token())
	u, _ := s.User()
	assert.Equal(t, "alice2024", u.Username)

	v, err := repo.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestStore_RestoreDiscardsIncompleteSession(t *testing.T) {
	tests := []struct {
		name  string
		pairs map[string][]byte
	}{
		{name: "token only", pairs: map[string][]byte{KeyToken: []byte("h.p.s")}},
		{name: "user only", pairs: map[string][]byte{KeyUser: []byte(`{"username":"alice2024"}`)}},
		{name: "corrupt user", pairs: map[string][]byte{KeyToken: []byte("h.p.s"), KeyUser: []byte("{not json")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := setupRepo(t)
			ctx := context.Background()
			require.NoError(t, repo.SetMany(ctx, tt.pairs))

			s := NewStore(repo, nil)
			require.NoError(t, s.Restore(ctx))
			assert.False(t, s.IsAuthenticated())

			m, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, m, "leftovers are removed")
		})
	}
}

func TestStore_RestoreEmpty(t *testing.T) {
	s := NewStore(setupRepo(t), nil)
	require.NoError(t, s.Restore(context.Background()))
	assert.False(t, s.IsAuthenticated())
}
