package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/consultation"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/patient"
)

// Rule is one admission check. It returns nil to accept, a *consultation.ValidationError
// to reject, or any other error when it could not decide.
type Rule interface {
	Validate(ctx context.Context, req consultation.Request) error
}

const (
	MinimumLeadTime = 30 * time.Minute
	OpeningHour     = 7
	// Last hour in which a consultation may start.
	ClosingHour = 18
)

type FutureInstantRule struct {
	Clock domain.Clock
}

func (r FutureInstantRule) Validate(_ context.Context, req consultation.Request) error {
	if !req.When.After(r.Clock.Now()) {
		return consultation.ErrNotInFuture
	}
	return nil
}

type MinimumLeadTimeRule struct {
	Clock domain.Clock
}

func (r MinimumLeadTimeRule) Validate(_ context.Context, req consultation.Request) error {
	if req.When.Sub(r.Clock.Now()) < MinimumLeadTime {
		return consultation.ErrLeadTimeTooShort
	}
	return nil
}

type BusinessHoursRule struct {
	Location *time.Location
}

func (r BusinessHoursRule) Validate(_ context.Context, req consultation.Request) error {
	local := req.When.In(r.Location)
	if local.Weekday() == time.Sunday || local.Hour() < OpeningHour || local.Hour() > ClosingHour {
		return consultation.ErrOutsideBusinessHours
	}
	return nil
}

type PatientActiveRule struct {
	Patients patient.Repository
}

func (r PatientActiveRule) Validate(ctx context.Context, req consultation.Request) error {
	active, err := r.Patients.IsActive(ctx, req.PatientID)
	if err != nil {
		return fmt.Errorf("checking patient status: %w", err)
	}
	if !active {
		return consultation.ErrPatientInactive
	}
	return nil
}

// DoctorActiveRule skips open requests; the selector only returns active doctors.
type DoctorActiveRule struct {
	Doctors doctor.Repository
}

func (r DoctorActiveRule) Validate(ctx context.Context, req consultation.Request) error {
	doctorID, pinned := req.DoctorID()
	if !pinned {
		return nil
	}
	active, err := r.Doctors.IsActive(ctx, doctorID)
	if err != nil {
		return fmt.Errorf("checking doctor status: %w", err)
	}
	if !active {
		return consultation.ErrDoctorInactive
	}
	return nil
}

type PatientNoConflictSameDayRule struct {
	Consultations consultation.Repository
	Location      *time.Location
}

func (r PatientNoConflictSameDayRule) Validate(ctx context.Context, req consultation.Request) error {
	busy, err := r.Consultations.ExistsByPatientOnDayActive(ctx, req.PatientID, consultation.DayOf(req.When, r.Location))
	if err != nil {
		return fmt.Errorf("checking patient agenda: %w", err)
	}
	if busy {
		return consultation.ErrPatientBusySameDay
	}
	return nil
}

// DoctorNoConflictSameInstantRule compares instants only; consultations have no duration.
type DoctorNoConflictSameInstantRule struct {
	Consultations consultation.Repository
}

func (r DoctorNoConflictSameInstantRule) Validate(ctx context.Context, req consultation.Request) error {
	doctorID, pinned := req.DoctorID()
	if !pinned {
		return nil
	}
	busy, err := r.Consultations.ExistsByDoctorAndWhenActive(ctx, doctorID, req.When)
	if err != nil {
		return fmt.Errorf("checking doctor agenda: %w", err)
	}
	if busy {
		return consultation.ErrDoctorBusySameTime
	}
	return nil
}

// DefaultRules is the clinic's rule set, in the order rejections are reported.
func DefaultRules(
	clock domain.Clock,
	loc *time.Location,
	patients patient.Repository,
	doctors doctor.Repository,
	consultations consultation.Repository,
) []Rule {
	return []Rule{
		FutureInstantRule{Clock: clock},
		MinimumLeadTimeRule{Clock: clock},
		BusinessHoursRule{Location: loc},
		PatientActiveRule{Patients: patients},
		DoctorActiveRule{Doctors: doctors},
		PatientNoConflictSameDayRule{Consultations: consultations, Location: loc},
		DoctorNoConflictSameInstantRule{Consultations: consultations},
	}
}
