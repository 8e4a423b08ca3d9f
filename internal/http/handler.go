package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aibek/estate-leases/internal/http/middleware"
	"github.com/aibek/estate-leases/internal/model"
	"github.com/aibek/estate-leases/internal/schedule"
	"github.com/aibek/estate-leases/internal/service"
)

type Handler struct {
	schedules *service.ScheduleService
	log       zerolog.Logger
}

func NewHandler(schedules *service.ScheduleService, log zerolog.Logger) *Handler {
	return &Handler{schedules: schedules, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/schedule/preview", h.previewSchedule)

	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.POST("/contracts/:id/schedule", h.generateSchedule)
	protected.POST("/contracts/:id/reschedule", h.rescheduleContract)
	protected.GET("/contracts/:id/payments", h.listPayments)
	protected.GET("/contracts/:id/schedule/summary", h.scheduleSummary)
	protected.POST("/payments/:id/confirm", h.confirmSettlement)
	protected.POST("/payments/:id/postpone", h.postponePayment)
}

// previewSchedule backs the live contract form: how many installments a
// duration/frequency pair yields, before anything is saved.
func (h *Handler) previewSchedule(c *gin.Context) {
	duration, err := strconv.Atoi(c.Query("duration_months"))
	if err != nil || duration <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration_months"})
		return
	}
	frequency, err := parseFrequency(c.Query("frequency"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid frequency"})
		return
	}

	count, err := schedule.PeriodCount(duration, frequency)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"valid": false,
			"error": "duration is not divisible by the billing period",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":          true,
		"payments_count": count,
	})
}

func (h *Handler) generateSchedule(c *gin.Context) {
	contractID, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.schedules.Generate(c.Request.Context(), contractID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"created_count": result.CreatedCount})
}

type rescheduleRequest struct {
	NewRate                decimal.Decimal `json:"new_rate" binding:"required"`
	AdditionalPeriodMonths int             `json:"additional_period_months" binding:"required"`
	NewFrequency           string          `json:"new_frequency" binding:"required"`
}

func (h *Handler) rescheduleContract(c *gin.Context) {
	contractID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	frequency, err := parseFrequency(req.NewFrequency)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid new_frequency"})
		return
	}

	result, err := h.schedules.Reschedule(c.Request.Context(), contractID, service.RescheduleInput{
		NewRate:                req.NewRate,
		AdditionalPeriodMonths: req.AdditionalPeriodMonths,
		NewFrequency:           frequency,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted_count": result.DeletedCount,
		"created_count": len(result.NewItems),
	})
}

type paymentResponse struct {
	ID                   uuid.UUID       `json:"id"`
	Kind                 string          `json:"kind"`
	DuePeriodStart       string          `json:"due_period_start"`
	DuePeriodEnd         string          `json:"due_period_end"`
	Amount               decimal.Decimal `json:"amount"`
	Gross                decimal.Decimal `json:"gross"`
	Commission           decimal.Decimal `json:"commission"`
	MaintenanceDeduction decimal.Decimal `json:"maintenance_deduction"`
	OtherDeduction       decimal.Decimal `json:"other_deduction"`
	Net                  decimal.Decimal `json:"net"`
	SettlementDate       *string         `json:"settlement_date"`
	DelayDuration        *int            `json:"delay_duration"`
	DelayReason          *string         `json:"delay_reason"`
	Status               schedule.Status `json:"status"`
}

func (h *Handler) listPayments(c *gin.Context) {
	contractID, ok := parseIDParam(c)
	if !ok {
		return
	}

	asOf := time.Time{}
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid as_of"})
			return
		}
		asOf = parsed
	}

	items, statuses, err := h.schedules.ListPayments(c.Request.Context(), contractID, asOf)
	if err != nil {
		h.handleError(c, err)
		return
	}

	payments := make([]paymentResponse, len(items))
	for i, item := range items {
		payments[i] = paymentResponse{
			ID:                   item.ID,
			Kind:                 string(item.Kind),
			DuePeriodStart:       item.DuePeriodStart.Format("2006-01-02"),
			DuePeriodEnd:         item.DuePeriodEnd.Format("2006-01-02"),
			Amount:               item.Amount,
			Gross:                item.Gross,
			Commission:           item.Commission,
			MaintenanceDeduction: item.MaintenanceDeduction,
			OtherDeduction:       item.OtherDeduction,
			Net:                  item.Net,
			DelayDuration:        item.DelayDuration,
			DelayReason:          item.DelayReason,
			Status:               statuses[i],
		}
		if item.SettlementDate != nil {
			formatted := item.SettlementDate.Format("2006-01-02")
			payments[i].SettlementDate = &formatted
		}
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

func (h *Handler) scheduleSummary(c *gin.Context) {
	contractID, ok := parseIDParam(c)
	if !ok {
		return
	}

	summary, err := h.schedules.Summary(c.Request.Context(), contractID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"paid_periods":      summary.PaidPeriods,
		"unsettled_count":   summary.UnsettledCount,
		"remaining_periods": summary.RemainingPeriods,
	})
}

type confirmRequest struct {
	SettlementDate string `json:"settlement_date"`
}

func (h *Handler) confirmSettlement(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	itemID, ok := parseIDParam(c)
	if !ok {
		return
	}

	// Body is optional; settlement defaults to today.
	var req confirmRequest
	_ = c.ShouldBindJSON(&req)

	settledAt := time.Time{}
	if req.SettlementDate != "" {
		parsed, err := parseDate(req.SettlementDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settlement_date"})
			return
		}
		settledAt = parsed
	}

	if err := h.schedules.ConfirmSettlement(c.Request.Context(), itemID, settledAt, principal.UserID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type postponeRequest struct {
	DelayDays int    `json:"delay_days" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

func (h *Handler) postponePayment(c *gin.Context) {
	itemID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req postponeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.schedules.Postpone(c.Request.Context(), itemID, req.DelayDays, req.Reason); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidDivision):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyGenerated):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "already_generated"})
	case errors.Is(err, service.ErrCannotReschedule):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "cannot_reschedule"})
	case errors.Is(err, service.ErrOverlappingPeriod):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "overlapping_period"})
	case errors.Is(err, service.ErrConcurrentModification):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "concurrent_modification"})
	default:
		h.log.Error().Err(err).Msg("schedule operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func parseFrequency(raw string) (model.PaymentFrequency, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "MONTHLY":
		return model.FrequencyMonthly, nil
	case "QUARTERLY":
		return model.FrequencyQuarterly, nil
	case "SEMI_ANNUALLY":
		return model.FrequencySemiAnnually, nil
	case "ANNUALLY":
		return model.FrequencyAnnually, nil
	default:
		return "", service.ErrInvalidInput
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
