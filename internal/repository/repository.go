package repository

import (
	"coachsync/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// SheetLinkRepository manages the one-per-client spreadsheet associations.
// Upsert is keyed by clientId: re-linking a client overwrites the existing
// association instead of duplicating it.
type SheetLinkRepository interface {
	Upsert(ctx context.Context, link *domain.SheetLink) error
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.SheetLink, error)
	TouchSynced(ctx context.Context, clientID primitive.ObjectID) error
}

// CachedPlanRepository manages the parsed record set cached per client.
// Upsert is keyed by clientId; the whole record set is replaced in one write.
type CachedPlanRepository interface {
	Upsert(ctx context.Context, plan *domain.CachedPlan) error
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.CachedPlan, error)
}

// TxManager runs a function inside one storage transaction. Writes issued
// through the ctx the function receives commit together or not at all.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
