package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/consultation"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/repository/memory"
)

func clinicLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return loc
}

func pinnedAt(when time.Time) consultation.Request {
	return consultation.NewPinnedRequest(uuid.New(), uuid.New(), when)
}

func TestFutureInstantRule(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	rule := FutureInstantRule{Clock: domain.FixedClock(now)}

	assert.ErrorIs(t, rule.Validate(context.Background(), pinnedAt(now)), consultation.ErrNotInFuture)
	assert.ErrorIs(t, rule.Validate(context.Background(), pinnedAt(now.Add(-time.Hour))), consultation.ErrNotInFuture)
	assert.NoError(t, rule.Validate(context.Background(), pinnedAt(now.Add(time.Minute))))
}

func TestMinimumLeadTimeRule(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	rule := MinimumLeadTimeRule{Clock: domain.FixedClock(now)}

	assert.ErrorIs(t, rule.Validate(context.Background(), pinnedAt(now.Add(29*time.Minute))), consultation.ErrLeadTimeTooShort)
	assert.NoError(t, rule.Validate(context.Background(), pinnedAt(now.Add(30*time.Minute))))
}

func TestBusinessHoursRule(t *testing.T) {
	loc := clinicLocation(t)
	rule := BusinessHoursRule{Location: loc}

	tests := []struct {
		name   string
		when   time.Time
		reject bool
	}{
		{"monday opening", time.Date(2025, 6, 2, 7, 0, 0, 0, loc), false},
		{"before opening", time.Date(2025, 6, 2, 6, 59, 0, 0, loc), true},
		{"last start hour", time.Date(2025, 6, 2, 18, 59, 0, 0, loc), false},
		{"after closing", time.Date(2025, 6, 2, 19, 0, 0, 0, loc), true},
		{"saturday", time.Date(2025, 6, 7, 9, 0, 0, 0, loc), false},
		{"sunday", time.Date(2025, 6, 1, 15, 0, 0, 0, loc), true},
		// 12:00 UTC is 09:00 in the clinic.
		{"evaluated in clinic time", time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC), false},
		// 23:00 UTC on Saturday is 20:00 Saturday in the clinic.
		{"late utc instant", time.Date(2025, 6, 7, 23, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rule.Validate(context.Background(), pinnedAt(tt.when))
			if tt.reject {
				assert.ErrorIs(t, err, consultation.ErrOutsideBusinessHours)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestActiveRules(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	activePatient := store.PutPatient(patient.Patient{Name: "p", Active: true})
	deletedPatient := store.PutPatient(patient.Patient{Name: "q", Active: false})
	activeDoctor := store.PutDoctor(doctor.Doctor{Name: "d", Specialty: doctor.SpecialtyDermatology, Active: true})
	inactiveDoctor := store.PutDoctor(doctor.Doctor{Name: "e", Specialty: doctor.SpecialtyDermatology, Active: false})
	when := time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)

	patients := PatientActiveRule{Patients: store.Patients()}
	assert.NoError(t, patients.Validate(ctx, consultation.NewPinnedRequest(activePatient, activeDoctor, when)))
	assert.ErrorIs(t, patients.Validate(ctx, consultation.NewPinnedRequest(deletedPatient, activeDoctor, when)), consultation.ErrPatientInactive)
	assert.ErrorIs(t, patients.Validate(ctx, consultation.NewPinnedRequest(uuid.New(), activeDoctor, when)), consultation.ErrPatientInactive)

	doctors := DoctorActiveRule{Doctors: store.Doctors()}
	assert.NoError(t, doctors.Validate(ctx, consultation.NewPinnedRequest(activePatient, activeDoctor, when)))
	assert.ErrorIs(t, doctors.Validate(ctx, consultation.NewPinnedRequest(activePatient, inactiveDoctor, when)), consultation.ErrDoctorInactive)

	open, err := consultation.NewOpenRequest(activePatient, doctor.SpecialtyDermatology, when)
	require.NoError(t, err)
	assert.NoError(t, doctors.Validate(ctx, open))
}

func TestConflictRules(t *testing.T) {
	ctx := context.Background()
	loc := clinicLocation(t)
	store := memory.NewStore()
	doctorID, patientID := uuid.New(), uuid.New()
	booked := time.Date(2025, 6, 3, 9, 0, 0, 0, loc)

	_, err := store.Consultations().Insert(ctx, &consultation.Consultation{
		DoctorID:     doctorID,
		PatientID:    patientID,
		ScheduledAt:  booked,
		ScheduledDay: consultation.DayOf(booked, loc),
	})
	require.NoError(t, err)

	sameDay := PatientNoConflictSameDayRule{Consultations: store.Consultations(), Location: loc}
	assert.ErrorIs(t, sameDay.Validate(ctx, consultation.NewPinnedRequest(patientID, uuid.New(), booked.Add(5*time.Hour))), consultation.ErrPatientBusySameDay)
	assert.NoError(t, sameDay.Validate(ctx, consultation.NewPinnedRequest(patientID, uuid.New(), booked.Add(24*time.Hour))))
	assert.NoError(t, sameDay.Validate(ctx, consultation.NewPinnedRequest(uuid.New(), doctorID, booked.Add(time.Hour))))

	sameInstant := DoctorNoConflictSameInstantRule{Consultations: store.Consultations()}
	assert.ErrorIs(t, sameInstant.Validate(ctx, consultation.NewPinnedRequest(uuid.New(), doctorID, booked)), consultation.ErrDoctorBusySameTime)
	// Consultations are instants: one minute later is free.
	assert.NoError(t, sameInstant.Validate(ctx, consultation.NewPinnedRequest(uuid.New(), doctorID, booked.Add(time.Minute))))

	open, err := consultation.NewOpenRequest(uuid.New(), doctor.SpecialtyCardiology, booked)
	require.NoError(t, err)
	assert.NoError(t, sameInstant.Validate(ctx, open))
}
