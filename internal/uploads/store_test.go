package uploads

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Upload{}))
	return NewStore(db, t.TempDir(), 1024, "http://localhost:8080")
}

func TestSaveAndServe(t *testing.T) {
	store := testStore(t)
	owner := uuid.New()

	content := []byte("fake jpeg bytes")
	up, err := store.Save(context.Background(), owner, "image/jpeg", int64(len(content)), bytes.NewReader(content))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(up.Path, ".jpg"))
	assert.Equal(t, "http://localhost:8080/uploads/"+up.Path, store.URL(up))

	stored, err := os.ReadFile(filepath.Join(store.Dir(), up.Path))
	require.NoError(t, err)
	assert.Equal(t, content, stored)
}

func TestSaveRejectsOversizeBeforeWriting(t *testing.T) {
	store := testStore(t)

	_, err := store.Save(context.Background(), uuid.New(), "image/png", 2048, bytes.NewReader(make([]byte, 2048)))
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, readErr := os.ReadDir(store.Dir())
	require.NoError(t, readErr)
	assert.Empty(t, entries, "nothing may touch the disk on rejection")
}

func TestSaveRejectsLyingContentLength(t *testing.T) {
	store := testStore(t)

	// Declared size fits, actual stream does not.
	_, err := store.Save(context.Background(), uuid.New(), "image/png", 512, bytes.NewReader(make([]byte, 4096)))
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, readErr := os.ReadDir(store.Dir())
	require.NoError(t, readErr)
	assert.Empty(t, entries, "partial file must be cleaned up")
}

func TestSaveRejectsNonImage(t *testing.T) {
	store := testStore(t)

	_, err := store.Save(context.Background(), uuid.New(), "application/pdf", 100, bytes.NewReader(make([]byte, 100)))
	assert.ErrorIs(t, err, ErrBadType)

	_, err = store.Save(context.Background(), uuid.New(), "image/png", 0, bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrEmptyUpload)
}

func TestDeleteOwnerGated(t *testing.T) {
	store := testStore(t)
	owner := uuid.New()
	ctx := context.Background()

	content := []byte("png")
	up, err := store.Save(ctx, owner, "image/png", int64(len(content)), bytes.NewReader(content))
	require.NoError(t, err)

	assert.ErrorIs(t, store.Delete(ctx, uuid.New(), up.Path), ErrNotOwner)

	require.NoError(t, store.Delete(ctx, owner, up.Path))
	_, statErr := os.Stat(filepath.Join(store.Dir(), up.Path))
	assert.True(t, os.IsNotExist(statErr))

	assert.ErrorIs(t, store.Delete(ctx, owner, up.Path), ErrNotFound)
}
