package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/consultation"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/doctor"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

var when = time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)

func sampleConsultation() *consultation.Consultation {
	return &consultation.Consultation{
		DoctorID:     uuid.New(),
		PatientID:    uuid.New(),
		ScheduledAt:  when,
		ScheduledDay: consultation.DayOf(when, time.UTC),
	}
}

func TestConsultationRepository_Insert(t *testing.T) {
	const insert = `INSERT INTO "clinic"\."consultations"`

	t.Run("assigns an id and stores the row", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewConsultationRepository(db)
		mock.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(0, 1))

		c := sampleConsultation()
		id, err := repo.Insert(context.Background(), c)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)
		assert.Equal(t, c.ID, id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps the doctor slot index to ErrSlotTaken", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewConsultationRepository(db)
		mock.ExpectExec(insert).WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: DoctorSlotIndex})

		_, err := repo.Insert(context.Background(), sampleConsultation())

		assert.ErrorIs(t, err, consultation.ErrSlotTaken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps the patient day index to ErrPatientDayTaken", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewConsultationRepository(db)
		mock.ExpectExec(insert).WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: PatientDayIndex})

		_, err := repo.Insert(context.Background(), sampleConsultation())

		assert.ErrorIs(t, err, consultation.ErrPatientDayTaken)
	})

	t.Run("wraps other failures", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewConsultationRepository(db)
		boom := errors.New("connection reset")
		mock.ExpectExec(insert).WillReturnError(boom)

		_, err := repo.Insert(context.Background(), sampleConsultation())

		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, consultation.ErrSlotTaken)
	})
}

func TestConsultationRepository_ExistsByDoctorAndWhenActive(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewConsultationRepository(db)
	doctorID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "clinic"\."consultations" WHERE doctor_id = \$1 AND scheduled_at = \$2 AND cancelled = false`).
		WithArgs(doctorID, when).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	busy, err := repo.ExistsByDoctorAndWhenActive(context.Background(), doctorID, when)

	require.NoError(t, err)
	assert.True(t, busy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsultationRepository_ExistsByPatientOnDayActive(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewConsultationRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "clinic"\."consultations" WHERE patient_id = \$1 AND scheduled_day = \$2 AND cancelled = false`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	busy, err := repo.ExistsByPatientOnDayActive(context.Background(), uuid.New(), consultation.DayOf(when, time.UTC))

	require.NoError(t, err)
	assert.False(t, busy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsultationRepository_FindByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewConsultationRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "clinic"\."consultations" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, consultation.ErrConsultationNotFound)
}

func TestConsultationRepository_MarkCancelled(t *testing.T) {
	const update = `UPDATE "clinic"\."consultations" SET .* WHERE id = \$\d+ AND cancelled = false`

	t.Run("updates a scheduled row", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewConsultationRepository(db)
		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkCancelled(context.Background(), uuid.New(), consultation.ReasonOther, when)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports a lost race as already cancelled", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewConsultationRepository(db)
		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkCancelled(context.Background(), uuid.New(), consultation.ReasonOther, when)

		assert.ErrorIs(t, err, consultation.ErrAlreadyCancelled)
	})
}

func TestDoctorRepository_PickRandomAvailable(t *testing.T) {
	const pick = `SELECT "?id"? FROM "clinic"\."doctors" WHERE .*specialty = \$1.* NOT IN \(SELECT "?doctor_id"? FROM "clinic"\."consultations" WHERE scheduled_at = \$2 AND cancelled = false\) ORDER BY random\(\)`

	t.Run("returns the chosen doctor", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewDoctorRepository(db)
		chosen := uuid.New()
		mock.ExpectQuery(pick).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(chosen.String()))

		id, ok, err := repo.PickRandomAvailable(context.Background(), doctor.SpecialtyCardiology, when)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, chosen, id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports when nobody is free", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewDoctorRepository(db)
		mock.ExpectQuery(pick).WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, ok, err := repo.PickRandomAvailable(context.Background(), doctor.SpecialtyCardiology, when)

		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestPatientRepository_IsActive(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPatientRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "clinic"\."patients" WHERE id = \$1 AND active = true`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	active, err := repo.IsActive(context.Background(), id)

	require.NoError(t, err)
	assert.True(t, active)
}
