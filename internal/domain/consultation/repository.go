package consultation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Active means not cancelled.
	ExistsByDoctorAndWhenActive(ctx context.Context, doctorID uuid.UUID, when time.Time) (bool, error)
	ExistsByPatientOnDayActive(ctx context.Context, patientID uuid.UUID, day time.Time) (bool, error)

	// Insert assigns an ID when c.ID is nil. It returns ErrSlotTaken or ErrPatientDayTaken
	// when a uniqueness invariant would be broken.
	Insert(ctx context.Context, c *Consultation) (uuid.UUID, error)

	// FindByID returns ErrConsultationNotFound for unknown ids.
	FindByID(ctx context.Context, id uuid.UUID) (*Consultation, error)

	// MarkCancelled only touches rows that are still scheduled and returns
	// ErrAlreadyCancelled when none was.
	MarkCancelled(ctx context.Context, id uuid.UUID, reason CancellationReason, at time.Time) error
}
