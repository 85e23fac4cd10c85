package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/patient"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&patient.Patient{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("counting patients: %w", err)
	}
	return n > 0, nil
}

func (r *PatientRepository) IsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&patient.Patient{}).
		Where("id = ? AND active = true", id).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("checking patient status: %w", err)
	}
	return n > 0, nil
}
