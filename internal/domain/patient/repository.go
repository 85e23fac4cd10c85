package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// IsActive reports false for unknown ids.
	IsActive(ctx context.Context, id uuid.UUID) (bool, error)
}
