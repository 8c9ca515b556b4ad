package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emer5om/horaly-pro-sub000/pkg/dbmetrics"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx    *fakeTx
	opts  *sql.TxOptions
	calls int
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.calls++
	b.opts = opts
	return b.tx, nil
}

func TestDoSerializable_CommitsAndExposesTx(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(beginner)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, beginner.tx.committed)
	assert.False(t, beginner.tx.rolledBack)
	assert.Equal(t, sql.LevelSerializable, beginner.opts.Isolation)
}

func TestDo_RollsBackOnError(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(beginner)
	boom := errors.New("boom")

	err := m.Do(context.Background(), func(context.Context) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.True(t, beginner.tx.rolledBack)
	assert.False(t, beginner.tx.committed)
}

func TestDo_NestedCallReusesTransaction(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(beginner)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return m.Do(ctx, func(context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Equal(t, 1, beginner.calls)
}

func TestSerializationFailureIsClassified(t *testing.T) {
	pqErr := &pq.Error{Code: "40001", Message: "could not serialize access"}

	t.Run("returned from fn", func(t *testing.T) {
		m := NewTransactionManager(&fakeBeginner{tx: &fakeTx{}})
		err := m.DoSerializable(context.Background(), func(context.Context) error {
			return fmt.Errorf("insert appointment: %w", pqErr)
		})
		assert.ErrorIs(t, err, ErrSerializationFailure)
	})

	t.Run("returned from commit", func(t *testing.T) {
		m := NewTransactionManager(&fakeBeginner{tx: &fakeTx{commitErr: pqErr}})
		err := m.DoSerializable(context.Background(), func(context.Context) error { return nil })
		assert.ErrorIs(t, err, ErrSerializationFailure)
		assert.ErrorIs(t, err, ErrCommitTx)
	})

	t.Run("deadlock", func(t *testing.T) {
		assert.True(t, IsSerializationFailure(&pq.Error{Code: "40P01"}))
		assert.False(t, IsSerializationFailure(&pq.Error{Code: "23505"}))
	})
}

func TestDo_ReadCommittedAllowsRowLocks(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(beginner)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.CanLockRows(ctx))
		assert.False(t, dbmetrics.IsReadOnly(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, sql.LevelReadCommitted, beginner.opts.Isolation)
	assert.False(t, beginner.opts.ReadOnly)
	assert.True(t, beginner.tx.committed)
}

func TestDoReadOnly_MarksContext(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(beginner)

	err := m.DoReadOnly(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		assert.True(t, dbmetrics.IsReadOnly(ctx))
		assert.False(t, dbmetrics.CanLockRows(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, beginner.opts.ReadOnly)
	assert.Equal(t, sql.LevelRepeatableRead, beginner.opts.Isolation)
}

func TestDoReadOnly_InsideWritableTransactionKeepsLocks(t *testing.T) {
	beginner := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(beginner)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoReadOnly(ctx, func(inner context.Context) error {
			assert.True(t, dbmetrics.CanLockRows(inner))
			return nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, 1, beginner.calls)
}
