package consultation

import "errors"

// ValidationError is a business-rule rejection. Message is shown to clients verbatim
// and must not change; Code is a stable identifier for logs and metrics.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func reject(code, msg string) *ValidationError {
	return &ValidationError{Code: code, Message: msg}
}

var (
	ErrNotInFuture          = reject("not_in_future", "Consulta com data anterior ou igual a data atual!")
	ErrLeadTimeTooShort     = reject("lead_time", "Consulta com antecedencia menor que 30 minutos do horario atual!")
	ErrOutsideBusinessHours = reject("business_hours", "Consulta fora do horario de funcionamento!")
	ErrPatientInactive      = reject("patient_inactive", "Consulta nao pode ser agendada com paciente excluido!")
	ErrDoctorInactive       = reject("doctor_inactive", "Consulta nao pode ser agendada com medico inativo!")
	ErrPatientBusySameDay   = reject("patient_same_day", "Paciente já possui uma consulta agendada nesse dia!")
	ErrDoctorBusySameTime   = reject("doctor_same_time", "Medico ja possui outra consulta agendada nesse mesmo horario!")
	ErrNoDoctorAvailable    = reject("no_doctor_available", "Nao existe medico disponivel nessa data!")
	ErrCancellationTooLate  = reject("cancellation_notice", "Consulta somente pode ser cancelada com antecedencia minima de 24 horas.")

	ErrPatientNotFound  = reject("patient_not_found", "Patient id not found")
	ErrDoctorNotFound   = reject("doctor_not_found", "Doctor id not found")
	ErrAlreadyCancelled = reject("already_cancelled", "Consulta ja cancelada!")
	ErrInvalidReason    = reject("invalid_reason", "Motivo de cancelamento invalido!")
)

var (
	ErrConsultationNotFound = errors.New("consultation not found")

	// Returned by repositories when an insert hits a partial unique index.
	ErrSlotTaken       = errors.New("doctor slot already taken")
	ErrPatientDayTaken = errors.New("patient already booked that day")
)
