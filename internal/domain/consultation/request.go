package consultation

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/doctor"
)

// Target says who the consultation is with: a pinned doctor or any doctor of a specialty.
// The interface is sealed so a request without either cannot be built.
type Target interface {
	isTarget()
}

type PinnedDoctor struct {
	DoctorID uuid.UUID
}

type OpenSpecialty struct {
	Specialty doctor.Specialty
}

func (PinnedDoctor) isTarget()  {}
func (OpenSpecialty) isTarget() {}

// Request is an immutable scheduling request. Build it with NewPinnedRequest or NewOpenRequest.
type Request struct {
	PatientID uuid.UUID
	When      time.Time
	Target    Target
}

func NewPinnedRequest(patientID, doctorID uuid.UUID, when time.Time) Request {
	return Request{
		PatientID: patientID,
		When:      when.Truncate(time.Minute),
		Target:    PinnedDoctor{DoctorID: doctorID},
	}
}

func NewOpenRequest(patientID uuid.UUID, specialty doctor.Specialty, when time.Time) (Request, error) {
	if !specialty.IsValid() {
		return Request{}, doctor.ErrInvalidSpecialty
	}
	return Request{
		PatientID: patientID,
		When:      when.Truncate(time.Minute),
		Target:    OpenSpecialty{Specialty: specialty},
	}, nil
}

// DoctorID returns the pinned doctor, if any.
func (r Request) DoctorID() (uuid.UUID, bool) {
	if p, ok := r.Target.(PinnedDoctor); ok {
		return p.DoctorID, true
	}
	return uuid.Nil, false
}

// Specialty returns the requested specialty for open requests.
func (r Request) Specialty() (doctor.Specialty, bool) {
	if o, ok := r.Target.(OpenSpecialty); ok {
		return o.Specialty, true
	}
	return "", false
}
