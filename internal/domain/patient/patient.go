package patient

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Name   string `gorm:"column:name;type:varchar(200);not null"`
	Active bool   `gorm:"column:active;not null;index"` // false means soft-deleted
}

func (Patient) TableName() string {
	return "clinic.patients"
}
