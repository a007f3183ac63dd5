package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	v := &VolumeInfo{
		Name:   "vol0",
		ID:     uuid.New(),
		Status: StatusStarted,
		Type:   "Distribute",
		Bricks: []BrickInfo{
			{Host: "node0", Path: "/bricks/b0", UUID: uuid.New()},
			{Host: "node1", Path: "/bricks/b1", UUID: uuid.New()},
		},
		Options: map[string]string{"performance.readdir-ahead": "on"},
	}
	require.NoError(t, s.Save(v))
	require.Equal(t, 1, v.Version)

	s2 := New(dir)
	loaded, err := s2.Load("vol0")
	require.NoError(t, err)
	require.Equal(t, v.ID, loaded.ID)
	require.Equal(t, 1, loaded.Version)
	require.Equal(t, StatusStarted, loaded.Status)
	require.Equal(t, "on", loaded.Options["performance.readdir-ahead"])
	require.Len(t, loaded.Bricks, 2)
	b0, ok := loaded.BrickByAddress("node0", "/bricks/b0")
	require.True(t, ok)
	require.Equal(t, v.Bricks[0].UUID, b0.UUID)
}

func TestSaveBumpsVersionOnEachCall(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	v := &VolumeInfo{Name: "vol1", ID: uuid.New(), Options: map[string]string{}}

	require.NoError(t, s.Save(v))
	require.NoError(t, s.Save(v))
	require.Equal(t, 2, v.Version)
}

func TestSaveRemovesStaleBrickFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	v := &VolumeInfo{
		Name: "vol2",
		ID:   uuid.New(),
		Bricks: []BrickInfo{
			{Host: "a", Path: "/x", UUID: uuid.New()},
			{Host: "b", Path: "/y", UUID: uuid.New()},
		},
		Options: map[string]string{},
	}
	require.NoError(t, s.Save(v))

	v.Bricks = v.Bricks[:1]
	require.NoError(t, s.Save(v))

	reloaded, err := New(dir).Load("vol2")
	require.NoError(t, err)
	require.Len(t, reloaded.Bricks, 1)
	require.Equal(t, "a", reloaded.Bricks[0].Host)
}

func TestBootstrapLoadsEveryVolumeDirectory(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Save(&VolumeInfo{Name: "vA", ID: uuid.New(), Options: map[string]string{}}))
	require.NoError(t, s.Save(&VolumeInfo{Name: "vB", ID: uuid.New(), Options: map[string]string{}}))

	fresh := New(dir)
	require.NoError(t, fresh.Bootstrap())
	require.Equal(t, []string{"vA", "vB"}, fresh.List())
}

func TestSaveHandlesBrickPathsWithMultipleSegments(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	v := &VolumeInfo{
		Name: "vol4",
		ID:   uuid.New(),
		Bricks: []BrickInfo{
			{Host: "node0", Path: "/exports/bricks/vol4/b0", UUID: uuid.New()},
		},
		Options: map[string]string{},
	}
	require.NoError(t, s.Save(v))

	loaded, err := New(dir).Load("vol4")
	require.NoError(t, err)
	require.Len(t, loaded.Bricks, 1)
	require.Equal(t, "/exports/bricks/vol4/b0", loaded.Bricks[0].Path)
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	v := &VolumeInfo{
		Name:    "vol3",
		Options: map[string]string{"k": "v"},
		Bricks:  []BrickInfo{{Host: "h", Path: "/p"}},
	}
	c := v.Clone()
	c.Options["k"] = "changed"
	c.Bricks[0].Host = "other"

	require.Equal(t, "v", v.Options["k"])
	require.Equal(t, "h", v.Bricks[0].Host)
}
