package registry

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hkerrors "github.com/Elmersong/HealthKey/internal/errors"
	"github.com/Elmersong/HealthKey/internal/model"
	"github.com/Elmersong/HealthKey/internal/storage"
)

func newRegistry(t *testing.T) (*Registry, *storage.Memory) {
	t.Helper()
	kv := storage.NewMemory()
	r, err := Load(kv)
	require.NoError(t, err)
	return r, kv
}

// =============================================================================
// Seeding Tests
// =============================================================================

func TestLoadSeedsBuiltins(t *testing.T) {
	r, kv := newRegistry(t)

	assert.Len(t, r.Categories(), 4)
	assert.Len(t, r.EventTypes(), 15)

	water, ok := r.EventType("water")
	require.True(t, ok)
	assert.Equal(t, "喝水", water.Label)
	assert.Equal(t, "diet", water.CategoryID)
	assert.True(t, water.BuiltIn)

	sleep, ok := r.Category("sleep")
	require.True(t, ok)
	assert.Equal(t, "睡眠", sleep.Label)
	assert.Equal(t, "#54a0ff", sleep.Color)

	// Seeding persists immediately: a second load reads the snapshot.
	_, found, err := kv.Load(model.KeyRegistry)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestLoadExistingSnapshot(t *testing.T) {
	kv := storage.NewMemory()
	snap := snapshot{
		Categories: []model.Category{
			{ID: "diet", Label: "饮食", Color: "#ff9f43", BuiltIn: true},
		},
		EventTypes: []model.EventTypeDefinition{
			{ID: "tea", Label: "喝茶", CategoryID: "diet"},
		},
	}
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, kv.Save(model.KeyRegistry, data))

	r, err := Load(kv)
	require.NoError(t, err)

	// No re-seeding on top of an existing catalog.
	assert.Len(t, r.Categories(), 1)
	assert.Len(t, r.EventTypes(), 1)
	assert.True(t, r.HasEventType("tea"))
	assert.False(t, r.HasEventType("water"))
}

func TestLoadCorruptSnapshot(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Save(model.KeyRegistry, []byte("{not json")))

	_, err := Load(kv)
	assert.Error(t, err)
	assert.True(t, hkerrors.IsSystemError(err))
}

// =============================================================================
// Category Tests
// =============================================================================

func TestAddCategory(t *testing.T) {
	r, _ := newRegistry(t)

	cat, err := r.AddCategory("用药", "#c0392b")
	require.NoError(t, err)
	assert.NotEmpty(t, cat.ID)
	assert.False(t, cat.BuiltIn)

	got, ok := r.Category(cat.ID)
	require.True(t, ok)
	assert.Equal(t, "用药", got.Label)
}

func TestRenameAndRestyleCategory(t *testing.T) {
	r, _ := newRegistry(t)

	// Built-ins stay editable, only deletion is protected.
	require.NoError(t, r.RenameCategory("diet", "吃喝"))
	require.NoError(t, r.RestyleCategory("diet", "#123456"))

	cat, ok := r.Category("diet")
	require.True(t, ok)
	assert.Equal(t, "吃喝", cat.Label)
	assert.Equal(t, "#123456", cat.Color)
	assert.True(t, cat.BuiltIn)

	assert.ErrorIs(t, r.RenameCategory("missing", "x"), hkerrors.ErrUnknownCategory)
}

func TestDeleteCategoryProtectsBuiltins(t *testing.T) {
	r, _ := newRegistry(t)
	assert.ErrorIs(t, r.DeleteCategory("diet"), hkerrors.ErrProtectedEntity)
	assert.ErrorIs(t, r.DeleteCategory("missing"), hkerrors.ErrUnknownCategory)
}

func TestDeleteCategoryReassignsEventTypes(t *testing.T) {
	r, _ := newRegistry(t)

	cat, err := r.AddCategory("用药", "#c0392b")
	require.NoError(t, err)
	def, err := r.AddEventType("吃药", cat.ID)
	require.NoError(t, err)

	require.NoError(t, r.DeleteCategory(cat.ID))

	_, ok := r.Category(cat.ID)
	assert.False(t, ok)

	// The orphaned definition moves to the first remaining category
	// instead of dangling.
	moved, ok := r.EventType(def.ID)
	require.True(t, ok)
	assert.Equal(t, r.Categories()[0].ID, moved.CategoryID)
}

func TestDeleteLastCategoryRefused(t *testing.T) {
	kv := storage.NewMemory()
	snap := snapshot{
		Categories: []model.Category{{ID: "only", Label: "唯一", Color: "#000000"}},
	}
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, kv.Save(model.KeyRegistry, data))

	r, err := Load(kv)
	require.NoError(t, err)

	assert.ErrorIs(t, r.DeleteCategory("only"), hkerrors.ErrLastCategory)
	assert.Len(t, r.Categories(), 1)
}

// =============================================================================
// Event Type Tests
// =============================================================================

func TestAddEventType(t *testing.T) {
	r, _ := newRegistry(t)

	def, err := r.AddEventType("喝茶", "diet")
	require.NoError(t, err)
	assert.False(t, def.BuiltIn)
	assert.True(t, r.HasEventType(def.ID))

	_, err = r.AddEventType("nowhere", "missing")
	assert.ErrorIs(t, err, hkerrors.ErrUnknownCategory)
}

func TestRelabelAndRecategorizeEventType(t *testing.T) {
	r, _ := newRegistry(t)

	require.NoError(t, r.RelabelEventType("water", "饮水"))
	def, _ := r.EventType("water")
	assert.Equal(t, "饮水", def.Label)

	require.NoError(t, r.RecategorizeEventType("water", "activity"))
	def, _ = r.EventType("water")
	assert.Equal(t, "activity", def.CategoryID)

	assert.ErrorIs(t, r.RecategorizeEventType("water", "missing"), hkerrors.ErrUnknownCategory)
	assert.ErrorIs(t, r.RelabelEventType("missing", "x"), hkerrors.ErrUnknownEventType)
}

func TestDeleteEventType(t *testing.T) {
	r, _ := newRegistry(t)

	def, err := r.AddEventType("喝茶", "diet")
	require.NoError(t, err)
	require.NoError(t, r.DeleteEventType(def.ID))
	assert.False(t, r.HasEventType(def.ID))

	assert.ErrorIs(t, r.DeleteEventType("water"), hkerrors.ErrProtectedEntity)
	assert.ErrorIs(t, r.DeleteEventType("missing"), hkerrors.ErrUnknownEventType)
}

// =============================================================================
// Persistence Failure Tests
// =============================================================================

func TestMutationsRollBackOnFailedSave(t *testing.T) {
	r, kv := newRegistry(t)
	boom := errors.New("disk full")

	t.Run("add_category", func(t *testing.T) {
		kv.FailSaves = boom
		_, err := r.AddCategory("用药", "#c0392b")
		assert.Error(t, err)
		kv.FailSaves = nil
		assert.Len(t, r.Categories(), 4)
	})

	t.Run("rename_category", func(t *testing.T) {
		kv.FailSaves = boom
		assert.Error(t, r.RenameCategory("diet", "改名"))
		kv.FailSaves = nil
		cat, _ := r.Category("diet")
		assert.Equal(t, "饮食", cat.Label)
	})

	t.Run("delete_category", func(t *testing.T) {
		cat, err := r.AddCategory("用药", "#c0392b")
		require.NoError(t, err)
		def, err := r.AddEventType("吃药", cat.ID)
		require.NoError(t, err)

		kv.FailSaves = boom
		assert.Error(t, r.DeleteCategory(cat.ID))
		kv.FailSaves = nil

		_, ok := r.Category(cat.ID)
		assert.True(t, ok)
		kept, _ := r.EventType(def.ID)
		assert.Equal(t, cat.ID, kept.CategoryID)
	})

	t.Run("add_event_type", func(t *testing.T) {
		before := len(r.EventTypes())
		kv.FailSaves = boom
		_, err := r.AddEventType("喝茶", "diet")
		assert.Error(t, err)
		kv.FailSaves = nil
		assert.Len(t, r.EventTypes(), before)
	})
}

func TestReloadRoundTrip(t *testing.T) {
	r, kv := newRegistry(t)
	cat, err := r.AddCategory("用药", "#c0392b")
	require.NoError(t, err)
	_, err = r.AddEventType("吃药", cat.ID)
	require.NoError(t, err)

	again, err := Load(kv)
	require.NoError(t, err)
	assert.Equal(t, r.Categories(), again.Categories())
	assert.Equal(t, r.EventTypes(), again.EventTypes())
}
