package db

import (
	"context"
	"errors"
	"fmt"

	"todoapp/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var errUnitOfWorkClosed = errors.New("unit of work already closed")

// TxBeginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RepoFactory builds data sources bound to the transaction's querier.
type RepoFactory func(q Querier) ports.Repositories

var _ ports.UnitOfWorkManager = (*UnitOfWorkManager)(nil)

type UnitOfWorkManager struct {
	db      TxBeginner
	log     *zap.Logger
	factory RepoFactory
}

func NewUnitOfWorkManager(db TxBeginner, log *zap.Logger, factory RepoFactory) *UnitOfWorkManager {
	if log == nil {
		panic("logger is nil")
	}
	if db == nil {
		log.Fatal("database is nil")
	}
	if factory == nil {
		log.Fatal("repository factory is nil")
	}
	return &UnitOfWorkManager{
		db:      db,
		log:     log,
		factory: factory,
	}
}

func (m *UnitOfWorkManager) Begin(ctx context.Context) (ports.UnitOfWork, error) {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &unitOfWork{
		tx:    tx,
		repos: m.factory(tx),
	}, nil
}

// Do runs fn inside a transaction, committing on success and rolling back on
// error or panic.
func (m *UnitOfWorkManager) Do(ctx context.Context, fn func(uow ports.UnitOfWork) error) (err error) {
	uow, err := m.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = uow.Rollback(ctx)
			panic(r)
		}
		if err == nil {
			return
		}
		if rbErr := uow.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, errUnitOfWorkClosed) {
			m.log.Error("postgres: rollback failed", zap.Error(rbErr))
			err = fmt.Errorf("%w; rollback failed: %v", err, rbErr)
		}
	}()

	if err = fn(uow); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

type unitOfWork struct {
	tx     pgx.Tx
	repos  ports.Repositories
	closed bool
}

func (u *unitOfWork) Repositories() ports.Repositories {
	return u.repos
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.closed {
		return errUnitOfWorkClosed
	}
	u.closed = true
	if err := u.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.closed {
		return errUnitOfWorkClosed
	}
	u.closed = true
	if err := u.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}
