package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Skufu/HealthConnect/internal/diagnosis"
)

const ServiceName = "HealthConnect Bot"

const (
	errMissingSymptoms = "Please provide symptoms"
	errInvalidPayload  = "invalid payload"
	errTooLarge        = "payload too large"
	errInternal        = "An error occurred while processing your request"
)

type Analyzer interface {
	Analyze(ctx context.Context, req diagnosis.Request) diagnosis.Result
	AIEnabled() bool
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	engine Analyzer
	db     HealthChecker
	log    logrus.FieldLogger
}

func NewHandler(engine Analyzer, db HealthChecker, log logrus.FieldLogger) *Handler {
	return &Handler{engine: engine, db: db, log: log}
}

func (h *Handler) Diagnose(c *gin.Context) {
	var payload diagnoseRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			c.JSON(http.StatusBadRequest, gin.H{"error": errMissingSymptoms})
		case errors.As(err, &tooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": errTooLarge})
		default:
			h.log.WithError(err).Debug("diagnose payload rejected")
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidPayload})
		}
		return
	}

	symptoms := strings.TrimSpace(payload.Symptoms)
	if symptoms == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMissingSymptoms})
		return
	}

	result := h.engine.Analyze(c.Request.Context(), diagnosis.Request{
		Symptoms: symptoms,
		Age:      string(payload.Age),
		Gender:   string(payload.Gender),
	})
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": ServiceName})
}

func (h *Handler) Ready(c *gin.Context) {
	ai := "disabled"
	if h.engine.AIEnabled() {
		ai = "enabled"
	}

	if h.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled", "ai": ai})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"db":     fmt.Sprintf("unhealthy: %v", err),
			"ai":     ai,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok", "ai": ai})
}
