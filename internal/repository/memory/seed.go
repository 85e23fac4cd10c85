package memory

import (
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/patient"
)

// SeedDemo loads one active doctor per specialty, an inactive cardiologist and two patients
// (one soft-deleted) so a fresh in-memory server can be exercised right away.
func SeedDemo(s *Store) {
	s.PutDoctor(doctor.Doctor{Name: "Ana Souza", Specialty: doctor.SpecialtyCardiology, Active: true})
	s.PutDoctor(doctor.Doctor{Name: "Bruno Lima", Specialty: doctor.SpecialtyOrthopedics, Active: true})
	s.PutDoctor(doctor.Doctor{Name: "Carla Dias", Specialty: doctor.SpecialtyGynecology, Active: true})
	s.PutDoctor(doctor.Doctor{Name: "Davi Rocha", Specialty: doctor.SpecialtyDermatology, Active: true})
	s.PutDoctor(doctor.Doctor{Name: "Eva Martins", Specialty: doctor.SpecialtyCardiology, Active: false})

	s.PutPatient(patient.Patient{Name: "Fernanda Alves", Active: true})
	s.PutPatient(patient.Patient{Name: "Gustavo Reis", Active: false})
}

// Snapshot lists every doctor and patient currently held.
func (s *Store) Snapshot() ([]doctor.Doctor, []patient.Patient) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doctors := make([]doctor.Doctor, 0, len(s.doctors))
	for _, d := range s.doctors {
		doctors = append(doctors, d)
	}
	patients := make([]patient.Patient, 0, len(s.patients))
	for _, p := range s.patients {
		patients = append(patients, p)
	}
	return doctors, patients
}
