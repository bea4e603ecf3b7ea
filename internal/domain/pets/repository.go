package pets

import (
	"context"
	"errors"
)

// ErrNotFound lo devuelven todos los adapters cuando la fila no existe.
var ErrNotFound = errors.New("pet not found")

type Repository interface {
	Create(ctx context.Context, p Pet) (Pet, error)
	GetByID(ctx context.Context, id int64) (Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Pet, error)
	Update(ctx context.Context, id int64, patch Patch) (Pet, error)
	Delete(ctx context.Context, id int64) error
}
