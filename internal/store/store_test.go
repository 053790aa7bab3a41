package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	ID     string
	Status string
	Amount float64
}

func newTestStore() *Store[testRecord] {
	return New(func(r testRecord) string { return r.ID })
}

func TestInsert_PrependsNewestFirst(t *testing.T) {
	s := newTestStore()

	require.NoError(t, s.Insert(testRecord{ID: "a", Status: "pending"}))
	require.NoError(t, s.Insert(testRecord{ID: "b", Status: "pending"}))
	require.NoError(t, s.Insert(testRecord{ID: "c", Status: "pending"}))

	got := s.List()
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "a", got[2].ID)
}

func TestInsert_DuplicateIDLeavesStoreUnchanged(t *testing.T) {
	s := newTestStore()

	require.NoError(t, s.Insert(testRecord{ID: "a", Amount: 10}))
	err := s.Insert(testRecord{ID: "a", Amount: 999})

	assert.ErrorIs(t, err, ErrDuplicateID)

	got := s.List()
	require.Len(t, got, 1)
	assert.Equal(t, 10.0, got[0].Amount, "original record must be untouched")
}

func TestUpdate_PreservesPositionAndOtherFields(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Insert(testRecord{ID: "a", Status: "pending", Amount: 1}))
	require.NoError(t, s.Insert(testRecord{ID: "b", Status: "pending", Amount: 2}))
	require.NoError(t, s.Insert(testRecord{ID: "c", Status: "pending", Amount: 3}))

	updated, err := s.Update("b", func(r *testRecord) error {
		r.Status = "approved"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "approved", updated.Status)

	got := s.List()
	require.Len(t, got, 3)
	assert.Equal(t, "b", got[1].ID, "position must be preserved")
	assert.Equal(t, "approved", got[1].Status)
	assert.Equal(t, 2.0, got[1].Amount, "other fields must be unchanged")
}

func TestUpdate_NotFound(t *testing.T) {
	s := newTestStore()

	_, err := s.Update("missing", func(r *testRecord) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_MutationErrorLeavesRecordUntouched(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Insert(testRecord{ID: "a", Status: "pending"}))

	_, err := s.Update("a", func(r *testRecord) error {
		r.Status = "approved"
		return assert.AnError
	})
	require.Error(t, err)

	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "pending", got.Status)
}

func TestDelete(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Insert(testRecord{ID: "a"}))

	require.NoError(t, s.Delete("a"))
	assert.Equal(t, 0, s.Len())

	assert.ErrorIs(t, s.Delete("a"), ErrNotFound)

	// id is reusable after deletion
	assert.NoError(t, s.Insert(testRecord{ID: "a"}))
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore()

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
