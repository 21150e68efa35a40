package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

func TestPoolConfigAppliesOptions(t *testing.T) {
	cfg, err := PoolConfig(Options{
		ConnString:      "postgres://app:pw@localhost:5432/coursewish?sslmode=disable",
		MaxConns:        12,
		MinConns:        3,
		ConnMaxLifetime: 45 * time.Minute,
		Echo:            true,
		Logger:          zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("PoolConfig() error = %v", err)
	}

	if cfg.MaxConns != 12 || cfg.MinConns != 3 {
		t.Errorf("pool sizes = %d/%d, want 12/3", cfg.MaxConns, cfg.MinConns)
	}
	if cfg.MaxConnLifetime != 45*time.Minute {
		t.Errorf("MaxConnLifetime = %v", cfg.MaxConnLifetime)
	}
	if cfg.ConnConfig.Tracer == nil {
		t.Error("Echo should install a query tracer")
	}
	if cfg.BeforeAcquire == nil {
		t.Error("BeforeAcquire health check not installed")
	}
	if cfg.ConnConfig.Database != "coursewish" {
		t.Errorf("Database = %q", cfg.ConnConfig.Database)
	}
}

func TestPoolConfigIgnoresMinAboveMax(t *testing.T) {
	cfg, err := PoolConfig(Options{
		ConnString: "postgres://app:pw@localhost:5432/coursewish",
		MaxConns:   2,
		MinConns:   5,
	})
	if err != nil {
		t.Fatalf("PoolConfig() error = %v", err)
	}
	if cfg.MinConns > cfg.MaxConns {
		t.Errorf("MinConns %d exceeds MaxConns %d", cfg.MinConns, cfg.MaxConns)
	}
	if cfg.ConnConfig.Tracer != nil {
		t.Error("tracer installed without Echo")
	}
}

func TestPoolConfigRejectsBadConnString(t *testing.T) {
	if _, err := PoolConfig(Options{ConnString: "postgres://%zz"}); err == nil {
		t.Error("PoolConfig() expected a parse error")
	}
}

// fakeTx records how a unit of work ended; unimplemented pgx.Tx methods panic.
type fakeTx struct {
	pgx.Tx
	committed   bool
	rolledBack  bool
	commitErr   error
	rollbackErr error
}

func (f *fakeTx) Commit(ctx context.Context) error {
	f.committed = true
	return f.commitErr
}

func (f *fakeTx) Rollback(ctx context.Context) error {
	f.rolledBack = true
	return f.rollbackErr
}

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
	deadline bool
}

func (b *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	_, b.deadline = ctx.Deadline()
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return b.tx, nil
}

func TestRunInTxCommits(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}

	err := RunInTx(context.Background(), b, zerolog.Nop(), func(ctx context.Context, tx pgx.Tx) error {
		return nil
	})
	if err != nil {
		t.Fatalf("RunInTx() error = %v", err)
	}
	if !b.tx.committed || b.tx.rolledBack {
		t.Errorf("committed=%v rolledBack=%v, want commit only", b.tx.committed, b.tx.rolledBack)
	}
	if !b.deadline {
		t.Error("a default deadline should be applied")
	}
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	sentinel := errors.New("constraint violated")

	err := RunInTx(context.Background(), b, zerolog.Nop(), func(ctx context.Context, tx pgx.Tx) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("RunInTx() error = %v, want %v", err, sentinel)
	}
	if b.tx.committed || !b.tx.rolledBack {
		t.Errorf("committed=%v rolledBack=%v, want rollback only", b.tx.committed, b.tx.rolledBack)
	}
}

func TestRunInTxReportsRollbackFailure(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{rollbackErr: errors.New("conn closed")}}
	sentinel := errors.New("boom")

	err := RunInTx(context.Background(), b, zerolog.Nop(), func(ctx context.Context, tx pgx.Tx) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("error %v should still wrap the original failure", err)
	}
}

func TestRunInTxRollsBackOnPanic(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("panic was swallowed")
		}
		if !b.tx.rolledBack || b.tx.committed {
			t.Errorf("committed=%v rolledBack=%v, want rollback only", b.tx.committed, b.tx.rolledBack)
		}
	}()

	_ = RunInTx(context.Background(), b, zerolog.Nop(), func(ctx context.Context, tx pgx.Tx) error {
		panic("unexpected")
	})
}

func TestRunInTxBeginFailure(t *testing.T) {
	b := &fakeBeginner{beginErr: errors.New("pool closed")}
	called := false

	err := RunInTx(context.Background(), b, zerolog.Nop(), func(ctx context.Context, tx pgx.Tx) error {
		called = true
		return nil
	})
	if err == nil || called {
		t.Errorf("err=%v called=%v, want error without running fn", err, called)
	}
}

func TestRunInTxKeepsCallerDeadline(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	want, _ := ctx.Deadline()

	err := RunInTx(ctx, b, zerolog.Nop(), func(ctx context.Context, tx pgx.Tx) error {
		if got, _ := ctx.Deadline(); !got.Equal(want) {
			t.Errorf("deadline = %v, want caller deadline %v", got, want)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunInTx() error = %v", err)
	}
}

func TestRunInTxCommitFailure(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{commitErr: errors.New("serialization failure")}}

	err := RunInTx(context.Background(), b, zerolog.Nop(), func(ctx context.Context, tx pgx.Tx) error {
		return nil
	})
	if err == nil {
		t.Fatal("RunInTx() expected commit error")
	}
}
