package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/service"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/pkg/metrics"
)

type RouterDeps struct {
	Consultations *service.ConsultationService
	JWT           *auth.JWTManager
	Metrics       *metrics.Collector
	Gatherer      prometheus.Gatherer
	Location      *time.Location
	Logger        *zap.Logger
}

func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	if err := registerValidations(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(
		RequestID(),
		Recovery(deps.Logger),
		AccessLog(deps.Logger),
		Metrics(deps.Metrics),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler(deps.Gatherer)))

	consultations := NewConsultationHandler(deps.Consultations, deps.Location, deps.Logger)

	api := r.Group("/api/v1", Authenticate(deps.JWT))
	{
		api.POST("/consultations", consultations.Schedule)
		api.GET("/consultations/:id", consultations.Get)
		api.POST("/consultations/:id/cancel", consultations.Cancel)
	}

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "route not found")
	})

	return r, nil
}
