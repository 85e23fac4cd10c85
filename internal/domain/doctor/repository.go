package doctor

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// IsActive reports false for unknown ids.
	IsActive(ctx context.Context, id uuid.UUID) (bool, error)

	// PickRandomAvailable returns an active doctor of the given specialty with no
	// non-cancelled consultation at when. ok is false when nobody qualifies.
	PickRandomAvailable(ctx context.Context, specialty Specialty, when time.Time) (id uuid.UUID, ok bool, err error)
}
