package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/consultation"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/pkg/metrics"
)

const tracerName = "github.com/dmehra2102/prod-golang-projects/clinicbook/internal/service"

var errMissingTarget = errors.New("scheduling request names neither a doctor nor a specialty")

type ConsultationService struct {
	repo     consultation.Repository
	patients patient.Repository
	doctors  doctor.Repository
	selector *DoctorSelector
	rules    []Rule
	clock    domain.Clock
	loc      *time.Location
	metrics  *metrics.Collector
	tracer   trace.Tracer
	log      *zap.Logger
}

func NewConsultationService(
	repo consultation.Repository,
	patients patient.Repository,
	doctors doctor.Repository,
	selector *DoctorSelector,
	rules []Rule,
	clock domain.Clock,
	loc *time.Location,
	collector *metrics.Collector,
	log *zap.Logger,
) *ConsultationService {
	return &ConsultationService{
		repo:     repo,
		patients: patients,
		doctors:  doctors,
		selector: selector,
		rules:    rules,
		clock:    clock,
		loc:      loc,
		metrics:  collector,
		tracer:   otel.Tracer(tracerName),
		log:      log,
	}
}

func (s *ConsultationService) ScheduleConsultation(ctx context.Context, req consultation.Request) (*consultation.Consultation, error) {
	ctx, span := s.tracer.Start(ctx, "ConsultationService.ScheduleConsultation")
	defer span.End()

	if req.Target == nil {
		return nil, s.fail(span, "validating request", errMissingTarget)
	}
	span.SetAttributes(
		attribute.String("patient.id", req.PatientID.String()),
		attribute.String("consultation.when", req.When.Format(time.RFC3339)),
	)

	// ── Referenced entities must exist ─────────────────────────────────────
	exists, err := s.patients.Exists(ctx, req.PatientID)
	if err != nil {
		return nil, s.fail(span, "checking patient", err)
	}
	if !exists {
		return nil, s.reject(span, consultation.ErrPatientNotFound)
	}

	doctorID, pinned := req.DoctorID()
	if pinned {
		exists, err := s.doctors.Exists(ctx, doctorID)
		if err != nil {
			return nil, s.fail(span, "checking doctor", err)
		}
		if !exists {
			return nil, s.reject(span, consultation.ErrDoctorNotFound)
		}
	}

	if err := s.validate(ctx, req); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			s.recordRejection(span, verr)
			return nil, verr
		}
		return nil, s.fail(span, "running validation rules", err)
	}

	mode := "pinned"
	if !pinned {
		mode = "selected"
		specialty, _ := req.Specialty()
		doctorID, err = s.selector.Select(ctx, specialty, req.When)
		if err != nil {
			var rejection *consultation.ValidationError
			if errors.As(err, &rejection) {
				return nil, s.reject(span, rejection)
			}
			return nil, s.fail(span, "selecting doctor", err)
		}
	}

	c := &consultation.Consultation{
		ID:           uuid.New(),
		DoctorID:     doctorID,
		PatientID:    req.PatientID,
		ScheduledAt:  req.When,
		ScheduledDay: consultation.DayOf(req.When, s.loc),
	}

	// The unique indexes are the real serialization point; the rules above only give
	// early, readable rejections.
	if _, err := s.repo.Insert(ctx, c); err != nil {
		switch {
		case errors.Is(err, consultation.ErrSlotTaken):
			return nil, s.reject(span, consultation.ErrDoctorBusySameTime)
		case errors.Is(err, consultation.ErrPatientDayTaken):
			return nil, s.reject(span, consultation.ErrPatientBusySameDay)
		}
		return nil, s.fail(span, "creating consultation", err)
	}

	s.metrics.ConsultationsScheduled.WithLabelValues(mode).Inc()
	span.SetAttributes(
		attribute.String("consultation.id", c.ID.String()),
		attribute.String("doctor.id", c.DoctorID.String()),
	)
	s.log.Info("consultation scheduled",
		zap.String("consultation_id", c.ID.String()),
		zap.String("doctor_id", c.DoctorID.String()),
		zap.String("patient_id", c.PatientID.String()),
		zap.Time("scheduled_at", c.ScheduledAt),
		zap.String("mode", mode),
	)

	return c, nil
}

func (s *ConsultationService) GetConsultation(ctx context.Context, id uuid.UUID) (*consultation.Consultation, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, consultation.ErrConsultationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("loading consultation: %w", err)
	}
	return c, nil
}

func (s *ConsultationService) CancelConsultation(ctx context.Context, id uuid.UUID, reason consultation.CancellationReason) (*consultation.Consultation, error) {
	ctx, span := s.tracer.Start(ctx, "ConsultationService.CancelConsultation",
		trace.WithAttributes(
			attribute.String("consultation.id", id.String()),
			attribute.String("cancellation.reason", string(reason)),
		),
	)
	defer span.End()

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, consultation.ErrConsultationNotFound) {
			return nil, err
		}
		return nil, s.fail(span, "loading consultation", err)
	}

	now := s.clock.Now()
	if err := c.Cancel(reason, now); err != nil {
		var rejection *consultation.ValidationError
		if errors.As(err, &rejection) {
			return nil, s.reject(span, rejection)
		}
		return nil, s.fail(span, "cancelling consultation", err)
	}

	if err := s.repo.MarkCancelled(ctx, id, reason, now); err != nil {
		if errors.Is(err, consultation.ErrAlreadyCancelled) {
			return nil, s.reject(span, consultation.ErrAlreadyCancelled)
		}
		return nil, s.fail(span, "updating consultation", err)
	}

	s.metrics.CancellationsTotal.WithLabelValues(string(reason)).Inc()
	s.log.Info("consultation cancelled",
		zap.String("consultation_id", id.String()),
		zap.String("reason", string(reason)),
	)

	return c, nil
}

// validate runs every rule concurrently and reports all rejections in rule order.
// An infrastructure error from any rule cancels the rest and wins.
func (s *ConsultationService) validate(ctx context.Context, req consultation.Request) error {
	start := time.Now()
	defer func() { s.metrics.RuleDuration.Observe(time.Since(start).Seconds()) }()

	results := make([]*consultation.ValidationError, len(s.rules))
	g, gctx := errgroup.WithContext(ctx)
	for i, rule := range s.rules {
		g.Go(func() error {
			err := rule.Validate(gctx, req)
			if err == nil {
				return nil
			}
			var rejection *consultation.ValidationError
			if errors.As(err, &rejection) {
				results[i] = rejection
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var violations []*consultation.ValidationError
	for _, v := range results {
		if v != nil {
			violations = append(violations, v)
		}
	}
	if len(violations) > 0 {
		return newValidationError(violations...)
	}
	return nil
}

func (s *ConsultationService) reject(span trace.Span, violations ...*consultation.ValidationError) error {
	verr := newValidationError(violations...)
	s.recordRejection(span, verr)
	return verr
}

func (s *ConsultationService) recordRejection(span trace.Span, verr *ValidationError) {
	for _, code := range verr.Codes() {
		s.metrics.RejectionsTotal.WithLabelValues(code).Inc()
	}
	span.SetAttributes(attribute.StringSlice("rejection.codes", verr.Codes()))
	s.log.Debug("request rejected", zap.Strings("reasons", verr.Messages))
}

func (s *ConsultationService) fail(span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, op)
	s.log.Error("scheduling infrastructure failure", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}
