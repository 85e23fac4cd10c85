package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/consultation"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/doctor"
)

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func (r *DoctorRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&doctor.Doctor{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("counting doctors: %w", err)
	}
	return n > 0, nil
}

func (r *DoctorRepository) IsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&doctor.Doctor{}).
		Where("id = ? AND active = true", id).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("checking doctor status: %w", err)
	}
	return n > 0, nil
}

func (r *DoctorRepository) PickRandomAvailable(ctx context.Context, specialty doctor.Specialty, when time.Time) (uuid.UUID, bool, error) {
	busy := r.db.Model(&consultation.Consultation{}).
		Select("doctor_id").
		Where("scheduled_at = ? AND cancelled = false", when)

	var row struct{ ID uuid.UUID }
	result := r.db.WithContext(ctx).Model(&doctor.Doctor{}).
		Select("id").
		Where("active = true AND specialty = ?", specialty).
		Where("id NOT IN (?)", busy).
		Order("random()").
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return uuid.Nil, false, fmt.Errorf("selecting available doctor: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return uuid.Nil, false, nil
	}
	return row.ID, true, nil
}
