package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Specialty is closed: adding one is a source change.
type Specialty string

const (
	SpecialtyCardiology  Specialty = "CARDIOLOGY"
	SpecialtyOrthopedics Specialty = "ORTHOPEDICS"
	SpecialtyGynecology  Specialty = "GYNECOLOGY"
	SpecialtyDermatology Specialty = "DERMATOLOGY"
)

func (s Specialty) IsValid() bool {
	switch s {
	case SpecialtyCardiology, SpecialtyOrthopedics, SpecialtyGynecology, SpecialtyDermatology:
		return true
	}
	return false
}

// Doctor is owned by the staff registry; this service only reads it.
// Active=false is a soft deletion: the doctor is hidden from selection and cannot be booked.
type Doctor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Name      string    `gorm:"column:name;type:varchar(200);not null"`
	Specialty Specialty `gorm:"column:specialty;type:varchar(30);not null;index"`
	Active    bool      `gorm:"column:active;not null;index"`
}

func (Doctor) TableName() string {
	return "clinic.doctors"
}
