package consultation

import (
	"time"

	"github.com/google/uuid"
)

type CancellationReason string

const (
	ReasonPatientGaveUp   CancellationReason = "PACIENTE_DESISTIU"
	ReasonDoctorCancelled CancellationReason = "MEDICO_CANCELOU"
	ReasonOther           CancellationReason = "OUTROS"
)

func (r CancellationReason) IsValid() bool {
	switch r {
	case ReasonPatientGaveUp, ReasonDoctorCancelled, ReasonOther:
		return true
	}
	return false
}

// State transitions:
//
//	scheduled → cancelled (terminal)
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
)

// CancellationNotice is the minimum time between cancelling and the consultation itself.
const CancellationNotice = 24 * time.Hour

// Consultation is never hard-deleted. At most one non-cancelled row may exist per
// (DoctorID, ScheduledAt) and per (PatientID, ScheduledDay); the storage layer enforces both.
type Consultation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	DoctorID  uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index"`
	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`

	ScheduledAt time.Time `gorm:"column:scheduled_at;not null;index"`
	// Calendar day of ScheduledAt in clinic time, stored as midnight UTC.
	ScheduledDay time.Time `gorm:"column:scheduled_day;type:date;not null"`

	Cancelled          bool                `gorm:"column:cancelled;not null"`
	CancellationReason *CancellationReason `gorm:"column:cancellation_reason;type:varchar(30)"`
	CancelledAt        *time.Time          `gorm:"column:cancelled_at"`
}

func (Consultation) TableName() string {
	return "clinic.consultations"
}

func (c *Consultation) Status() Status {
	if c.Cancelled {
		return StatusCancelled
	}
	return StatusScheduled
}

func (c *Consultation) CanTransitionTo(newStatus Status) bool {
	return c.Status() == StatusScheduled && newStatus == StatusCancelled
}

// Cancel applies the cancellation rules against now and mutates c on success.
func (c *Consultation) Cancel(reason CancellationReason, now time.Time) error {
	if !c.CanTransitionTo(StatusCancelled) {
		return ErrAlreadyCancelled
	}
	if !reason.IsValid() {
		return ErrInvalidReason
	}
	if c.ScheduledAt.Sub(now) < CancellationNotice {
		return ErrCancellationTooLate
	}
	c.Cancelled = true
	c.CancellationReason = &reason
	c.CancelledAt = &now
	return nil
}

// DayOf returns the calendar day of t as observed in loc, normalised to midnight UTC.
func DayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
