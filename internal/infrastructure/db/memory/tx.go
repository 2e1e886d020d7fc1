package memory

import (
	"context"

	"pubhub/internal/domain"
)

// TxManager runs fn directly. The memory repositories guard each call with
// their own lock; there is no rollback.
type TxManager struct{}

func NewTxManager() domain.UnitOfWork { return TxManager{} }

func (TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
