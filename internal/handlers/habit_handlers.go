package handlers

import (
	"net/http"
	"strconv"

	"preppulse/internal/leaderboard"
	"preppulse/internal/models"
	"preppulse/internal/services"

	"github.com/labstack/echo/v4"
)

type HabitHandlers struct {
	habitService       services.HabitService
	leaderboardService services.LeaderboardService
}

func NewHabitHandlers(habitService services.HabitService, leaderboardService services.LeaderboardService) *HabitHandlers {
	return &HabitHandlers{
		habitService:       habitService,
		leaderboardService: leaderboardService,
	}
}

// LeaderboardResponse carries the ranking and the caller's email so the
// client can highlight its own row.
type LeaderboardResponse struct {
	Items       []leaderboard.Entry `json:"items"`
	CurrentUser string              `json:"current_user"`
}

// ListHabits
//
//	@Summary	List the caller's habits
//	@Tags		habits
//	@Produce	json
//	@Success	200	{object}	itemsResponse[models.Habit]
//	@Router		/api/habits [get]
func (h *HabitHandlers) ListHabits(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}
	habits, err := h.habitService.List(c.Request().Context(), rc.Email)
	if err != nil {
		return toHTTPError(err, "Not found")
	}
	if habits == nil {
		habits = []*models.Habit{}
	}
	return c.JSON(http.StatusOK, itemsResponse[*models.Habit]{Items: habits})
}

// CreateHabit
//
//	@Summary	Create a habit
//	@Tags		habits
//	@Accept		json
//	@Produce	json
//	@Param		body	body		services.HabitInput	true	"Habit"
//	@Success	201		{object}	idResponse
//	@Failure	400		{object}	common.ErrorResponse
//	@Router		/api/habits [post]
func (h *HabitHandlers) CreateHabit(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}

	var req services.HabitInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	id, err := h.habitService.Create(c.Request().Context(), rc.Email, req)
	if err != nil {
		return toHTTPError(err, "Not found")
	}
	return c.JSON(http.StatusCreated, idResponse{ID: id})
}

// UpdateHabit
//
//	@Summary	Rename or recolor a habit
//	@Tags		habits
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int					true	"Habit ID"
//	@Param		body	body		services.HabitInput	true	"Habit"
//	@Success	200		{object}	statusResponse
//	@Failure	404		{object}	common.ErrorResponse
//	@Router		/api/habits/{id} [put]
func (h *HabitHandlers) UpdateHabit(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req services.HabitInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.habitService.Update(c.Request().Context(), rc.Email, id, req); err != nil {
		return toHTTPError(err, "Not found")
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "updated"})
}

// DeleteHabit
//
//	@Summary	Delete a habit and its logs
//	@Tags		habits
//	@Param		id	path		int	true	"Habit ID"
//	@Success	200	{object}	statusResponse
//	@Failure	404	{object}	common.ErrorResponse
//	@Router		/api/habits/{id} [delete]
func (h *HabitHandlers) DeleteHabit(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.habitService.Delete(c.Request().Context(), rc.Email, id); err != nil {
		return toHTTPError(err, "Not found")
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "deleted"})
}

// ToggleHabit
//
//	@Summary	Mark a habit done or not done for a day
//	@Tags		habits
//	@Accept		json
//	@Produce	json
//	@Param		body	body		services.ToggleInput	true	"Habit, date and done flag"
//	@Success	200		{object}	statusResponse
//	@Failure	400		{object}	common.ErrorResponse
//	@Failure	404		{object}	common.ErrorResponse
//	@Router		/api/habits/toggle [post]
func (h *HabitHandlers) ToggleHabit(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}

	var req services.ToggleInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "habit_id and date required.")
	}

	if err := h.habitService.Toggle(c.Request().Context(), rc.Email, req); err != nil {
		return toHTTPError(err, "Not found")
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}

// HabitLogs
//
//	@Summary	Habit logs for one month
//	@Tags		habits
//	@Produce	json
//	@Param		year	query		int	false	"Year, defaults to the current year"
//	@Param		month	query		int	false	"Month 1-12, defaults to the current month"
//	@Success	200		{object}	services.MonthLogs
//	@Failure	400		{object}	common.ErrorResponse
//	@Router		/api/habits/logs [get]
func (h *HabitHandlers) HabitLogs(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}

	year, yerr := queryInt(c, "year")
	month, merr := queryInt(c, "month")
	if yerr != nil || merr != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid year/month.")
	}

	logs, err := h.habitService.MonthLogs(c.Request().Context(), rc.Email, year, month)
	if err != nil {
		return toHTTPError(err, "Not found")
	}
	return c.JSON(http.StatusOK, logs)
}

// Leaderboard
//
//	@Summary	Streak leaderboard
//	@Tags		habits
//	@Produce	json
//	@Success	200	{object}	LeaderboardResponse
//	@Router		/api/leaderboard [get]
func (h *HabitHandlers) Leaderboard(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}
	entries, err := h.leaderboardService.Get(c.Request().Context())
	if err != nil {
		return toHTTPError(err, "Not found")
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	return c.JSON(http.StatusOK, LeaderboardResponse{Items: entries, CurrentUser: rc.Email})
}

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
