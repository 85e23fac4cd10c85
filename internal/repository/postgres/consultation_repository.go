package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/consultation"
)

type ConsultationRepository struct {
	db *gorm.DB
}

func NewConsultationRepository(db *gorm.DB) *ConsultationRepository {
	return &ConsultationRepository{db: db}
}

func (r *ConsultationRepository) ExistsByDoctorAndWhenActive(ctx context.Context, doctorID uuid.UUID, when time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&consultation.Consultation{}).
		Where("doctor_id = ? AND scheduled_at = ? AND cancelled = false", doctorID, when).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("checking doctor slot: %w", err)
	}
	return n > 0, nil
}

func (r *ConsultationRepository) ExistsByPatientOnDayActive(ctx context.Context, patientID uuid.UUID, day time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&consultation.Consultation{}).
		Where("patient_id = ? AND scheduled_day = ? AND cancelled = false", patientID, day).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("checking patient day: %w", err)
	}
	return n > 0, nil
}

func (r *ConsultationRepository) Insert(ctx context.Context, c *consultation.Consultation) (uuid.UUID, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if index, ok := violatedIndex(err); ok {
			switch index {
			case DoctorSlotIndex:
				return uuid.Nil, consultation.ErrSlotTaken
			case PatientDayIndex:
				return uuid.Nil, consultation.ErrPatientDayTaken
			}
		}
		return uuid.Nil, fmt.Errorf("inserting consultation: %w", err)
	}
	return c.ID, nil
}

func (r *ConsultationRepository) FindByID(ctx context.Context, id uuid.UUID) (*consultation.Consultation, error) {
	var c consultation.Consultation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, consultation.ErrConsultationNotFound
		}
		return nil, fmt.Errorf("loading consultation: %w", err)
	}
	return &c, nil
}

// MarkCancelled only updates a row that is still scheduled, so two concurrent
// cancellations cannot both succeed.
func (r *ConsultationRepository) MarkCancelled(ctx context.Context, id uuid.UUID, reason consultation.CancellationReason, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&consultation.Consultation{}).
		Where("id = ? AND cancelled = false", id).
		Updates(map[string]any{
			"cancelled":           true,
			"cancellation_reason": reason,
			"cancelled_at":        at,
		})
	if result.Error != nil {
		return fmt.Errorf("cancelling consultation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return consultation.ErrAlreadyCancelled
	}
	return nil
}
