// Package memory keeps clinic data in process memory. It honours the same uniqueness
// rules as the Postgres schema and is used for local runs and tests.
package memory

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/consultation"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/patient"
)

type Store struct {
	mu            sync.RWMutex
	doctors       map[uuid.UUID]doctor.Doctor
	patients      map[uuid.UUID]patient.Patient
	consultations map[uuid.UUID]consultation.Consultation
}

func NewStore() *Store {
	return &Store{
		doctors:       make(map[uuid.UUID]doctor.Doctor),
		patients:      make(map[uuid.UUID]patient.Patient),
		consultations: make(map[uuid.UUID]consultation.Consultation),
	}
}

// PutDoctor inserts or replaces d, assigning an ID when it has none.
func (s *Store) PutDoctor(d doctor.Doctor) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	s.doctors[d.ID] = d
	return d.ID
}

// PutPatient inserts or replaces p, assigning an ID when it has none.
func (s *Store) PutPatient(p patient.Patient) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.patients[p.ID] = p
	return p.ID
}

func (s *Store) Doctors() *DoctorRepository { return &DoctorRepository{s: s} }

func (s *Store) Patients() *PatientRepository { return &PatientRepository{s: s} }

func (s *Store) Consultations() *ConsultationRepository { return &ConsultationRepository{s: s} }

type DoctorRepository struct{ s *Store }

func (r *DoctorRepository) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.doctors[id]
	return ok, nil
}

func (r *DoctorRepository) IsActive(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.doctors[id]
	return ok && d.Active, nil
}

func (r *DoctorRepository) PickRandomAvailable(_ context.Context, specialty doctor.Specialty, when time.Time) (uuid.UUID, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	busy := make(map[uuid.UUID]bool)
	for _, c := range r.s.consultations {
		if !c.Cancelled && c.ScheduledAt.Equal(when) {
			busy[c.DoctorID] = true
		}
	}

	var candidates []uuid.UUID
	for id, d := range r.s.doctors {
		if d.Active && d.Specialty == specialty && !busy[id] {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return uuid.Nil, false, nil
	}
	return candidates[rand.IntN(len(candidates))], true, nil
}

type PatientRepository struct{ s *Store }

func (r *PatientRepository) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.patients[id]
	return ok, nil
}

func (r *PatientRepository) IsActive(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.patients[id]
	return ok && p.Active, nil
}

type ConsultationRepository struct{ s *Store }

func (r *ConsultationRepository) ExistsByDoctorAndWhenActive(_ context.Context, doctorID uuid.UUID, when time.Time) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.consultations {
		if !c.Cancelled && c.DoctorID == doctorID && c.ScheduledAt.Equal(when) {
			return true, nil
		}
	}
	return false, nil
}

func (r *ConsultationRepository) ExistsByPatientOnDayActive(_ context.Context, patientID uuid.UUID, day time.Time) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.consultations {
		if !c.Cancelled && c.PatientID == patientID && c.ScheduledDay.Equal(day) {
			return true, nil
		}
	}
	return false, nil
}

func (r *ConsultationRepository) Insert(_ context.Context, c *consultation.Consultation) (uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.consultations {
		if existing.Cancelled {
			continue
		}
		if existing.DoctorID == c.DoctorID && existing.ScheduledAt.Equal(c.ScheduledAt) {
			return uuid.Nil, consultation.ErrSlotTaken
		}
		if existing.PatientID == c.PatientID && existing.ScheduledDay.Equal(c.ScheduledDay) {
			return uuid.Nil, consultation.ErrPatientDayTaken
		}
	}

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	r.s.consultations[c.ID] = *c
	return c.ID, nil
}

func (r *ConsultationRepository) FindByID(_ context.Context, id uuid.UUID) (*consultation.Consultation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.consultations[id]
	if !ok {
		return nil, consultation.ErrConsultationNotFound
	}
	return &c, nil
}

func (r *ConsultationRepository) MarkCancelled(_ context.Context, id uuid.UUID, reason consultation.CancellationReason, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.consultations[id]
	if !ok {
		return consultation.ErrConsultationNotFound
	}
	if c.Cancelled {
		return consultation.ErrAlreadyCancelled
	}
	c.Cancelled = true
	c.CancellationReason = &reason
	c.CancelledAt = &at
	c.UpdatedAt = time.Now()
	r.s.consultations[id] = c
	return nil
}
