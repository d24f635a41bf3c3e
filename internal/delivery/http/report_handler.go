package http

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"

	"copiersync/internal/domain"
	"copiersync/internal/infra"
	"copiersync/internal/middleware"
	"copiersync/internal/usecase"
)

// ReportHandler serves report history and recurring report schedules.
type ReportHandler struct {
	syncService *usecase.SyncService
	scheduler   *infra.Scheduler
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(syncService *usecase.SyncService, scheduler *infra.Scheduler) *ReportHandler {
	return &ReportHandler{
		syncService: syncService,
		scheduler:   scheduler,
	}
}

// GenerateRequest selects the reporting window for an on-demand generation.
type GenerateRequest struct {
	Month      *int     `json:"month"`
	Year       *int     `json:"year"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	ReportType string   `json:"report_type"`
	AccountIDs []string `json:"account_ids"`
}

// Generate fetches reporting rows for the window and stores each as a new
// immutable report. Non-admins may only target accounts they own.
// POST /api/v1/reports/generate
func (h *ReportHandler) Generate(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	var req GenerateRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if len(req.AccountIDs) == 0 {
		return BadRequestResponse(c, "At least one account_id is required")
	}

	ctx := c.Request().Context()
	if !identity.IsAdmin() {
		for _, accountID := range req.AccountIDs {
			owns, err := h.syncService.OwnsAccount(ctx, identity.UserID, accountID)
			if err != nil {
				return HandleError(c, err)
			}
			if !owns {
				return HandleError(c, domain.ErrForbidden)
			}
		}
	}

	reports, err := h.syncService.GenerateReport(ctx, identity.UserID.String(), domain.ReportFilter{
		Month:      req.Month,
		Year:       req.Year,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		ReportType: req.ReportType,
		AccountIDs: req.AccountIDs,
	})
	if err != nil {
		return HandleError(c, err)
	}

	return CreatedResponse(c, reports)
}

// ListByAccount returns the stored report history for one account.
// GET /api/v1/reports/:accountID
func (h *ReportHandler) ListByAccount(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	reports, err := h.syncService.ListReports(c.Request().Context(), identity, c.Param("accountID"))
	if err != nil {
		return HandleError(c, err)
	}

	return SuccessResponse(c, reports)
}

// ScheduleRequest registers a recurring report job for one owned account.
type ScheduleRequest struct {
	AccountID string `json:"account_id" validate:"required"`
	Spec      string `json:"spec" validate:"required"`
}

// CreateSchedule registers a recurring report job.
// POST /api/v1/reports/schedules
func (h *ReportHandler) CreateSchedule(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	var req ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.AccountID == "" || req.Spec == "" {
		return BadRequestResponse(c, "account_id and spec are required")
	}

	// Ownership is checked at registration and again on every firing.
	owns, err := h.syncService.OwnsAccount(c.Request().Context(), identity.UserID, req.AccountID)
	if err != nil {
		return HandleError(c, err)
	}
	if !owns && !identity.IsAdmin() {
		return HandleError(c, domain.ErrForbidden)
	}

	schedule, err := h.scheduler.ScheduleAccountReport(identity.UserID, req.AccountID, req.Spec)
	if err != nil {
		return HandleError(c, err)
	}

	return CreatedResponse(c, schedule)
}

// ListSchedules returns the caller's recurring report jobs.
// GET /api/v1/reports/schedules
func (h *ReportHandler) ListSchedules(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	return SuccessResponse(c, h.scheduler.ListSchedules(identity))
}

// RemoveSchedule cancels one recurring report job.
// DELETE /api/v1/reports/schedules/:id
func (h *ReportHandler) RemoveSchedule(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return UnauthorizedResponse(c, err.Error())
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "Invalid schedule id")
	}

	if err := h.scheduler.RemoveSchedule(identity, cron.EntryID(id)); err != nil {
		return HandleError(c, err)
	}

	return SuccessMessageResponse(c, "Schedule removed", nil)
}
