package leave

import "context"

// Transactor runs a function inside a storage transaction. Repository calls
// made with the context it passes to fn join that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
