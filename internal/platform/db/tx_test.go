package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTx struct {
	pgx.Tx
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *stubTx) Commit(context.Context) error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}

func (t *stubTx) Rollback(context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

type stubBeginner struct {
	tx       *stubTx
	beginErr error
}

func (b *stubBeginner) BeginTx(context.Context, pgx.TxOptions) (pgx.Tx, error) {
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return b.tx, nil
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	tx := &stubTx{}
	err := WithTx(context.Background(), &stubBeginner{tx: tx}, func(pgx.Tx) error {
		return nil
	})
	require.NoError(t, err)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	tx := &stubTx{}
	boom := errors.New("insert failed")
	err := WithTx(context.Background(), &stubBeginner{tx: tx}, func(pgx.Tx) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestWithTxWrapsBeginError(t *testing.T) {
	boom := errors.New("pool exhausted")
	err := WithTx(context.Background(), &stubBeginner{beginErr: boom}, func(pgx.Tx) error {
		t.Fatal("fn must not run when begin fails")
		return nil
	})
	require.ErrorIs(t, err, boom)
}

func TestWithTxWrapsCommitError(t *testing.T) {
	tx := &stubTx{commitErr: errors.New("connection lost")}
	err := WithTx(context.Background(), &stubBeginner{tx: tx}, func(pgx.Tx) error {
		return nil
	})
	require.Error(t, err)
	assert.True(t, tx.rolledBack)
}
