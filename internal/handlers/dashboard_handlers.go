package handlers

import (
	"net/http"

	"preppulse/internal/services"

	"github.com/labstack/echo/v4"
)

type DashboardHandlers struct {
	dashboardService services.DashboardService
	checklistService services.ChecklistService
}

func NewDashboardHandlers(dashboardService services.DashboardService, checklistService services.ChecklistService) *DashboardHandlers {
	return &DashboardHandlers{
		dashboardService: dashboardService,
		checklistService: checklistService,
	}
}

type ChecklistUpdateRequest struct {
	ItemID string `json:"item_id"`
	Status string `json:"status"`
}

// GetDashboard
//
//	@Summary	Dashboard: checklist, progress, onboarding and latest analysis
//	@Tags		dashboard
//	@Produce	json
//	@Success	200	{object}	services.Dashboard
//	@Router		/api/dashboard [get]
func (h *DashboardHandlers) GetDashboard(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}
	dash, err := h.dashboardService.Get(c.Request().Context(), rc.Email, rc.FullName)
	if err != nil {
		return toHTTPError(err, "Dashboard not found")
	}
	return c.JSON(http.StatusOK, dash)
}

// UpdateChecklistItem marks one checklist item learned or pending.
//
//	@Summary	Update a checklist item
//	@Tags		dashboard
//	@Accept		json
//	@Produce	json
//	@Param		body	body		ChecklistUpdateRequest	true	"Item and status"
//	@Success	200		{object}	services.ChecklistProgress
//	@Failure	400		{object}	common.ErrorResponse
//	@Failure	404		{object}	common.ErrorResponse
//	@Router		/api/skill-checklist/update [post]
func (h *DashboardHandlers) UpdateChecklistItem(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}

	var req ChecklistUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid payload")
	}

	progress, err := h.checklistService.UpdateItem(c.Request().Context(), rc.Email, req.ItemID, req.Status)
	if err != nil {
		return toHTTPError(err, "Checklist not found")
	}
	return c.JSON(http.StatusOK, progress)
}
