package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/consultation"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/doctor"
)

// DoctorSelector picks a doctor for requests that only name a specialty. The choice is
// random so load spreads across the specialty and callers cannot rely on an ordering.
type DoctorSelector struct {
	doctors doctor.Repository
}

func NewDoctorSelector(doctors doctor.Repository) *DoctorSelector {
	return &DoctorSelector{doctors: doctors}
}

func (s *DoctorSelector) Select(ctx context.Context, specialty doctor.Specialty, when time.Time) (uuid.UUID, error) {
	id, ok, err := s.doctors.PickRandomAvailable(ctx, specialty, when)
	if err != nil {
		return uuid.Nil, fmt.Errorf("picking available doctor: %w", err)
	}
	if !ok {
		return uuid.Nil, consultation.ErrNoDoctorAvailable
	}
	return id, nil
}
