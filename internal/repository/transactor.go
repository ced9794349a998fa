package repository

import "context"

// Transactor runs fn inside one store transaction. Repositories called with
// the context passed to fn join that transaction. A non-nil error from fn
// rolls everything back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
