package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// UnitOfWork manages MongoDB transactions
type UnitOfWork struct {
	client *mongo.Client
}

// NewUnitOfWork creates a new Unit of Work instance
func NewUnitOfWork(client *mongo.Client) *UnitOfWork {
	return &UnitOfWork{
		client: client,
	}
}

// WithTransaction runs fn inside a MongoDB transaction. fn receives the
// session context; every repository call that must take part in the
// transaction has to use it. A returned error aborts the transaction.
// The driver retries fn on transient transaction errors, so fn must be
// safe to run more than once.
func (uow *UnitOfWork) WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	session, err := uow.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
