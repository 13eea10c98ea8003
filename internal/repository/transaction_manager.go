package repository

import (
	"context"
	"fmt"

	"flash-me/internal/domain"
	"flash-me/internal/util"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// txKey carries the active transaction. It is unexported so only this
// package can put a transaction into a context.
type txKey struct{}

// activeTx is what a transactional context holds: the sqlx transaction and
// the id used to correlate its log lines.
type activeTx struct {
	tx *sqlx.Tx
	id string
}

func txFromContext(ctx context.Context) (*activeTx, bool) {
	at, ok := ctx.Value(txKey{}).(*activeTx)
	return at, ok && at != nil && at.tx != nil
}

// TxIDFromContext returns the id of the transaction carried by ctx, if any.
func TxIDFromContext(ctx context.Context) (string, bool) {
	at, ok := txFromContext(ctx)
	if !ok {
		return "", false
	}
	return at.id, true
}

// GetExecutor returns the transaction stored in ctx, or db when there is none.
func GetExecutor(ctx context.Context, db DBTX) DBTX {
	if at, ok := txFromContext(ctx); ok {
		return at.tx
	}
	return db
}

// TransactionManagerAdapter implements domain.TransactionManager on top of
// sqlx.DB. Task graph writes (task row plus questions and answers) go through
// it so a half-written graph is never visible.
type TransactionManagerAdapter struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewTransactionManagerAdapter creates a new transaction manager.
func NewTransactionManagerAdapter(db *sqlx.DB, logger *zap.Logger) domain.TransactionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionManagerAdapter{db: db, logger: logger}
}

// WithTransaction runs fn inside a transaction. A nested call joins the
// transaction already carried by ctx and leaves commit to the outer call.
func (tma *TransactionManagerAdapter) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if at, ok := txFromContext(ctx); ok {
		tma.logger.Debug("Joining active transaction", zap.String("tx_id", at.id))
		return fn(ctx)
	}

	at := &activeTx{id: util.NewULID()}
	log := tma.logger.With(zap.String("tx_id", at.id))

	tx, err := tma.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	at.tx = tx
	log.Debug("Transaction started")

	defer func() {
		if p := recover(); p != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				log.Error("Failed to rollback transaction after panic", zap.Error(rollbackErr))
			} else {
				log.Warn("Transaction rolled back after panic", zap.Any("panic", p))
			}
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, at)); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			log.Error("Failed to rollback transaction", zap.Error(rollbackErr), zap.NamedError("cause", err))
			return fmt.Errorf("failed to rollback transaction: %v (original error: %w)", rollbackErr, err)
		}
		log.Warn("Transaction rolled back", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Debug("Transaction committed")
	return nil
}
