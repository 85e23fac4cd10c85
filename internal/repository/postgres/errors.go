package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Names of the partial unique indexes created by database.Migrate.
const (
	DoctorSlotIndex = "uq_consultations_doctor_slot"
	PatientDayIndex = "uq_consultations_patient_day"
)

const uniqueViolation = "23505"

// violatedIndex returns the constraint name when err is a unique violation.
func violatedIndex(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}
