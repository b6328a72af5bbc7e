package database

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID     uuid.UUID
	TeamID *uuid.UUID
}

func TestUUIDFieldIndex(t *testing.T) {
	idx := &UUIDFieldIndex{Field: "TeamID"}
	teamID := uuid.New()

	ok, val, err := idx.FromObject(&row{ID: uuid.New(), TeamID: &teamID})
	require.NoError(t, err)
	assert.True(t, ok)

	fromArgs, err := idx.FromArgs(teamID)
	require.NoError(t, err)
	assert.Equal(t, val, fromArgs)

	fromString, err := idx.FromArgs(teamID.String())
	require.NoError(t, err)
	assert.Equal(t, val, fromString)

	ok, _, err = idx.FromObject(&row{ID: uuid.New()})
	require.NoError(t, err)
	assert.False(t, ok, "nil pointer is a missing value")

	_, _, err = (&UUIDFieldIndex{Field: "Nope"}).FromObject(&row{})
	assert.Error(t, err)

	_, err = idx.FromArgs(42)
	assert.Error(t, err)
	_, err = idx.FromArgs(teamID, teamID)
	assert.Error(t, err)
}

type member struct {
	ID     uuid.UUID
	TeamID *uuid.UUID
}

func TestMemoryDBWithTx(t *testing.T) {
	db, err := NewMemoryDB()
	require.NoError(t, err)
	ctx := context.Background()

	teamID := uuid.New()
	kept := &member{ID: uuid.New(), TeamID: &teamID}
	require.NoError(t, db.WithTx(ctx, func(txn *MemTxn) error {
		return txn.Insert(TableUsers, kept)
	}))

	boom := stderrors.New("boom")
	dropped := &member{ID: uuid.New(), TeamID: &teamID}
	err = db.WithTx(ctx, func(txn *MemTxn) error {
		if err := txn.Insert(TableUsers, dropped); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = db.WithTx(cancelled, func(txn *MemTxn) error {
		return txn.Insert(TableUsers, &member{ID: uuid.New()})
	})
	assert.ErrorIs(t, err, context.Canceled)

	it, err := db.Txn(false).Get(TableUsers, IndexTeamID, teamID)
	require.NoError(t, err)
	var ids []uuid.UUID
	for raw := it.Next(); raw != nil; raw = it.Next() {
		ids = append(ids, raw.(*member).ID)
	}
	assert.Equal(t, []uuid.UUID{kept.ID}, ids)
}

func TestStore(t *testing.T) {
	db, err := NewMemoryDB()
	require.NoError(t, err)

	store := Store{Memory: db}
	assert.True(t, store.IsMemory())
	assert.NoError(t, store.Close())
	assert.False(t, Store{}.IsMemory())
}
