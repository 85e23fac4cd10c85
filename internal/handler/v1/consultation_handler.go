package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/consultation"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/service"
)

// Layouts accepted for "when". Values without an offset are read in clinic time.
var whenLayouts = []string{
	"2006-01-02T15:04",
	"02/01/2006 15:04",
}

type ScheduleConsultationRequest struct {
	DoctorID  *uuid.UUID        `json:"doctor_id"`
	PatientID uuid.UUID         `json:"patient_id" binding:"required"`
	When      string            `json:"when" binding:"required"`
	Specialty *doctor.Specialty `json:"specialty" binding:"omitempty,specialty"`
}

type CancelConsultationRequest struct {
	Reason consultation.CancellationReason `json:"reason" binding:"required,cancel_reason"`
}

type ConsultationResponse struct {
	ID                 uuid.UUID  `json:"id"`
	DoctorID           uuid.UUID  `json:"doctor_id"`
	PatientID          uuid.UUID  `json:"patient_id"`
	When               string     `json:"when"`
	Status             string     `json:"status"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type ConsultationHandler struct {
	svc *service.ConsultationService
	loc *time.Location
	log *zap.Logger
}

func NewConsultationHandler(svc *service.ConsultationService, loc *time.Location, log *zap.Logger) *ConsultationHandler {
	return &ConsultationHandler{svc: svc, loc: loc, log: log}
}

func (h *ConsultationHandler) Schedule(c *gin.Context) {
	var body ScheduleConsultationRequest
	if !bindJSON(c, &body) {
		return
	}

	when, err := parseWhen(body.When, h.loc)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if claims := claimsFrom(c); claims != nil && claims.Role == domain.RolePatient {
		if claims.PatientID == nil || *claims.PatientID != body.PatientID {
			respondServiceError(c, h.log, errForbidden)
			return
		}
	}

	var req consultation.Request
	switch {
	case body.DoctorID != nil:
		req = consultation.NewPinnedRequest(body.PatientID, *body.DoctorID, when)
	case body.Specialty != nil:
		req, err = consultation.NewOpenRequest(body.PatientID, *body.Specialty, when)
		if err != nil {
			respondServiceError(c, h.log, err)
			return
		}
	default:
		respondError(c, http.StatusBadRequest, "invalid request: doctor_id or specialty is required")
		return
	}

	created, err := h.svc.ScheduleConsultation(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	respondCreated(c, h.toResponse(created))
}

func (h *ConsultationHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	found, err := h.svc.GetConsultation(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	if !canAccess(claimsFrom(c), found) {
		respondServiceError(c, h.log, errForbidden)
		return
	}

	respondOK(c, h.toResponse(found))
}

func (h *ConsultationHandler) Cancel(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var body CancelConsultationRequest
	if !bindJSON(c, &body) {
		return
	}

	found, err := h.svc.GetConsultation(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	if !canAccess(claimsFrom(c), found) {
		respondServiceError(c, h.log, errForbidden)
		return
	}

	cancelled, err := h.svc.CancelConsultation(c.Request.Context(), id, body.Reason)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	respondOK(c, h.toResponse(cancelled))
}

// canAccess limits patients to their own consultations. Staff roles see everything.
func canAccess(claims *domain.Claims, c *consultation.Consultation) bool {
	if claims == nil || claims.Role != domain.RolePatient {
		return true
	}
	return claims.PatientID != nil && *claims.PatientID == c.PatientID
}

func parseWhen(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid when %q: expected RFC3339, 2006-01-02T15:04 or 02/01/2006 15:04", raw)
}

func (h *ConsultationHandler) toResponse(c *consultation.Consultation) ConsultationResponse {
	resp := ConsultationResponse{
		ID:          c.ID,
		DoctorID:    c.DoctorID,
		PatientID:   c.PatientID,
		When:        c.ScheduledAt.In(h.loc).Format(time.RFC3339),
		Status:      string(c.Status()),
		CancelledAt: c.CancelledAt,
		CreatedAt:   c.CreatedAt,
	}
	if c.CancellationReason != nil {
		reason := string(*c.CancellationReason)
		resp.CancellationReason = &reason
	}
	return resp
}
