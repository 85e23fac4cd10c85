package consultation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/doctor"
)

func TestConsultation_Cancel(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	t.Run("cancels with enough notice", func(t *testing.T) {
		c := &Consultation{ScheduledAt: now.Add(CancellationNotice)}

		require.NoError(t, c.Cancel(ReasonPatientGaveUp, now))

		assert.True(t, c.Cancelled)
		assert.Equal(t, StatusCancelled, c.Status())
		require.NotNil(t, c.CancellationReason)
		assert.Equal(t, ReasonPatientGaveUp, *c.CancellationReason)
		require.NotNil(t, c.CancelledAt)
		assert.Equal(t, now, *c.CancelledAt)
	})

	t.Run("rejects inside the notice window", func(t *testing.T) {
		c := &Consultation{ScheduledAt: time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC)}

		err := c.Cancel(ReasonOther, now)

		assert.ErrorIs(t, err, ErrCancellationTooLate)
		assert.False(t, c.Cancelled)
		assert.Nil(t, c.CancellationReason)
	})

	t.Run("rejects a second cancellation", func(t *testing.T) {
		c := &Consultation{ScheduledAt: now.Add(72 * time.Hour)}
		require.NoError(t, c.Cancel(ReasonDoctorCancelled, now))

		assert.ErrorIs(t, c.Cancel(ReasonOther, now), ErrAlreadyCancelled)
		assert.Equal(t, ReasonDoctorCancelled, *c.CancellationReason)
	})

	t.Run("rejects unknown reasons", func(t *testing.T) {
		c := &Consultation{ScheduledAt: now.Add(72 * time.Hour)}

		assert.ErrorIs(t, c.Cancel(CancellationReason("BORED"), now), ErrInvalidReason)
	})
}

func TestValidationErrorMessages(t *testing.T) {
	var ve *ValidationError
	require.ErrorAs(t, error(ErrOutsideBusinessHours), &ve)
	assert.Equal(t, "Consulta fora do horario de funcionamento!", ve.Message)
	assert.Equal(t, "Medico ja possui outra consulta agendada nesse mesmo horario!", ErrDoctorBusySameTime.Error())
	assert.Equal(t, "Nao existe medico disponivel nessa data!", ErrNoDoctorAvailable.Error())
}

func TestDayOf(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// 01:30 UTC on the 3rd is still the evening of the 2nd in São Paulo.
	instant := time.Date(2025, 6, 3, 1, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), DayOf(instant, loc))
	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), DayOf(instant, time.UTC))
}

func TestRequestConstructors(t *testing.T) {
	patientID, doctorID := uuid.New(), uuid.New()
	when := time.Date(2025, 6, 3, 9, 0, 42, 0, time.UTC)

	pinned := NewPinnedRequest(patientID, doctorID, when)
	id, ok := pinned.DoctorID()
	assert.True(t, ok)
	assert.Equal(t, doctorID, id)
	assert.Equal(t, time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC), pinned.When)
	_, ok = pinned.Specialty()
	assert.False(t, ok)

	open, err := NewOpenRequest(patientID, doctor.SpecialtyCardiology, when)
	require.NoError(t, err)
	_, ok = open.DoctorID()
	assert.False(t, ok)
	specialty, ok := open.Specialty()
	assert.True(t, ok)
	assert.Equal(t, doctor.SpecialtyCardiology, specialty)

	_, err = NewOpenRequest(patientID, doctor.Specialty("NEUROLOGY"), when)
	assert.ErrorIs(t, err, doctor.ErrInvalidSpecialty)
}
