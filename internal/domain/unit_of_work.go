package domain

import "context"

// UnitOfWork runs fn inside a transaction carried by ctx. Repositories called
// with that ctx join the transaction.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
