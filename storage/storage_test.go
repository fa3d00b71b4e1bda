package storage_test

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stowage-dev/stowage/storage"
)

func TestStore_Path(t *testing.T) {
	s := storage.New(memfs.New(), ".json")
	assert.Equal(t, "alpha.json", s.Path("alpha"))
}

func TestStore_WriteRead_RoundTrip(t *testing.T) {
	s := storage.New(memfs.New(), ".json")
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "alpha", []byte(`{"n":1}`)))

	data, err := s.Read(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"n":1}`), data)
}

func TestStore_Write_Overwrites(t *testing.T) {
	s := storage.New(memfs.New(), ".json")
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "alpha", []byte("old")))
	require.NoError(t, s.Write(ctx, "alpha", []byte("new")))

	data, err := s.Read(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)
}

func TestStore_Write_LeavesNoTempFiles(t *testing.T) {
	fs := memfs.New()
	s := storage.New(fs, ".json")
	require.NoError(t, s.Write(context.Background(), "alpha", []byte("v")))

	infos, err := fs.ReadDir("/")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "alpha.json", infos[0].Name())
}

func TestStore_Read_Missing(t *testing.T) {
	s := storage.New(memfs.New(), ".json")

	_, err := s.Read(context.Background(), "ghost")
	assert.ErrorIs(t, err, storage.ErrNotExist)
}

func TestStore_Delete(t *testing.T) {
	s := storage.New(memfs.New(), ".json")
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "alpha", []byte("v")))
	require.NoError(t, s.Delete(ctx, "alpha"))

	_, err := s.Read(ctx, "alpha")
	assert.ErrorIs(t, err, storage.ErrNotExist)
}

func TestStore_Delete_MissingIsSuccess(t *testing.T) {
	s := storage.New(memfs.New(), ".json")
	assert.NoError(t, s.Delete(context.Background(), "ghost"))
	assert.NoError(t, s.Delete(context.Background(), "ghost"))
}

func TestStore_List(t *testing.T) {
	fs := memfs.New()
	s := storage.New(fs, ".json")
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "beta", []byte("b")))
	require.NoError(t, s.Write(ctx, "alpha", []byte("a")))
	require.NoError(t, util.WriteFile(fs, "notes.txt", []byte("other ext"), 0o644))
	require.NoError(t, util.WriteFile(fs, ".hidden.json", []byte("hidden"), 0o644))
	require.NoError(t, fs.MkdirAll("sub.json", 0o755))

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)
}

func TestStore_List_EmptyDir(t *testing.T) {
	s := storage.New(memfs.New(), ".json")

	names, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}
