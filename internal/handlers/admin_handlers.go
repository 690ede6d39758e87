package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"preppulse/internal/leaderboard"
	"preppulse/internal/models"
	"preppulse/internal/services"

	"github.com/labstack/echo/v4"
)

// AdminHandlers serves the admin console. Every route runs behind
// RequireSession and RequireAdmin.
type AdminHandlers struct {
	adminService services.AdminService
}

func NewAdminHandlers(adminService services.AdminService) *AdminHandlers {
	return &AdminHandlers{adminService: adminService}
}

type TableDataResponse struct {
	Table   string           `json:"table"`
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

type AffectedResponse struct {
	OK       bool  `json:"ok"`
	Affected int64 `json:"affected"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

// QueryRequest accepts the statement as "sql" or, for older clients, "query".
type QueryRequest struct {
	SQL   string `json:"sql"`
	Query string `json:"query"`
}

// emailParam unescapes the :email path parameter.
func emailParam(c echo.Context) (string, error) {
	email, err := url.PathUnescape(c.Param("email"))
	if err != nil || email == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid email")
	}
	return email, nil
}

// Stats
//
//	@Summary	Site-wide totals and averages
//	@Tags		admin
//	@Produce	json
//	@Success	200	{object}	models.AdminStats
//	@Router		/api/admin/stats [get]
func (h *AdminHandlers) Stats(c echo.Context) error {
	stats, err := h.adminService.Stats(c.Request().Context())
	if err != nil {
		return toHTTPError(err, "Not found")
	}
	return c.JSON(http.StatusOK, stats)
}

// ListUsers
//
//	@Summary	All users with onboarding progress, newest first
//	@Tags		admin
//	@Produce	json
//	@Success	200	{array}	models.AdminUser
//	@Router		/api/admin/users [get]
func (h *AdminHandlers) ListUsers(c echo.Context) error {
	users, err := h.adminService.Users(c.Request().Context())
	if err != nil {
		return toHTTPError(err, "Not found")
	}
	if users == nil {
		users = []*models.AdminUser{}
	}
	return c.JSON(http.StatusOK, users)
}

// UserDetails
//
//	@Summary	Everything stored for one user
//	@Tags		admin
//	@Produce	json
//	@Param		email	path		string	true	"User email"
//	@Success	200		{object}	models.AdminUserDetails
//	@Failure	404		{object}	common.ErrorResponse
//	@Router		/api/admin/users/{email} [get]
func (h *AdminHandlers) UserDetails(c echo.Context) error {
	email, err := emailParam(c)
	if err != nil {
		return err
	}
	details, err := h.adminService.UserDetails(c.Request().Context(), email)
	if err != nil {
		return toHTTPError(err, "User not found")
	}
	return c.JSON(http.StatusOK, details)
}

// UpdateUser renames a user and/or moves all their data to a new email.
//
//	@Summary	Update a user
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		email	path		string					true	"User email"
//	@Param		body	body		services.AdminUserUpdate	true	"New name and/or email"
//	@Success	200		{object}	okResponse
//	@Failure	400		{object}	common.ErrorResponse
//	@Failure	409		{object}	common.ErrorResponse
//	@Router		/api/admin/users/{email} [put]
func (h *AdminHandlers) UpdateUser(c echo.Context) error {
	email, err := emailParam(c)
	if err != nil {
		return err
	}

	var req services.AdminUserUpdate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.adminService.UpdateUser(c.Request().Context(), email, req); err != nil {
		return toHTTPError(err, "User not found")
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// DeleteUser
//
//	@Summary	Delete a user and all their data
//	@Tags		admin
//	@Param		email	path		string	true	"User email"
//	@Success	200		{object}	okResponse
//	@Failure	404		{object}	common.ErrorResponse
//	@Router		/api/admin/users/{email} [delete]
func (h *AdminHandlers) DeleteUser(c echo.Context) error {
	email, err := emailParam(c)
	if err != nil {
		return err
	}
	if err := h.adminService.DeleteUser(c.Request().Context(), email); err != nil {
		return toHTTPError(err, "User not found")
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// ListTables
//
//	@Summary	Database tables
//	@Tags		admin
//	@Produce	json
//	@Success	200	{array}	string
//	@Router		/api/admin/tables [get]
func (h *AdminHandlers) ListTables(c echo.Context) error {
	tables, err := h.adminService.Tables(c.Request().Context())
	if err != nil {
		return toHTTPError(err, "Not found")
	}
	if tables == nil {
		tables = []string{}
	}
	return c.JSON(http.StatusOK, tables)
}

// TableRows
//
//	@Summary	First 500 rows of a table
//	@Tags		admin
//	@Produce	json
//	@Param		table	path		string	true	"Table name"
//	@Success	200		{object}	TableDataResponse
//	@Failure	404		{object}	common.ErrorResponse
//	@Router		/api/admin/tables/{table} [get]
func (h *AdminHandlers) TableRows(c echo.Context) error {
	table := c.Param("table")
	result, err := h.adminService.TableRows(c.Request().Context(), table)
	if err != nil {
		return toHTTPError(err, "Table not found")
	}
	return c.JSON(http.StatusOK, TableDataResponse{Table: table, Columns: result.Columns, Rows: result.Rows})
}

// DeleteRow
//
//	@Summary	Delete one row by id
//	@Tags		admin
//	@Produce	json
//	@Param		table	path		string	true	"Table name"
//	@Param		id		path		int		true	"Row id"
//	@Success	200		{object}	AffectedResponse
//	@Failure	404		{object}	common.ErrorResponse
//	@Router		/api/admin/tables/{table}/rows/{id} [delete]
func (h *AdminHandlers) DeleteRow(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	affected, err := h.adminService.DeleteRow(c.Request().Context(), c.Param("table"), id)
	if err != nil {
		return toHTTPError(err, "Row not found")
	}
	return c.JSON(http.StatusOK, AffectedResponse{OK: true, Affected: affected})
}

// RunQuery executes raw SQL. Driver errors are shown verbatim.
//
//	@Summary	Run a SQL statement
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		body	body		QueryRequest	true	"SQL"
//	@Success	200		{object}	models.QueryResult
//	@Failure	400		{object}	common.ErrorResponse
//	@Router		/api/admin/query [post]
func (h *AdminHandlers) RunQuery(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	sql := req.SQL
	if sql == "" {
		sql = req.Query
	}

	result, err := h.adminService.RunQuery(c.Request().Context(), sql)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return echo.NewHTTPError(http.StatusBadRequest, ve.Message)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// Leaderboard
//
//	@Summary	Streak leaderboard
//	@Tags		admin
//	@Produce	json
//	@Success	200	{array}	leaderboard.Entry
//	@Router		/api/admin/leaderboard [get]
func (h *AdminHandlers) Leaderboard(c echo.Context) error {
	entries, err := h.adminService.Leaderboard(c.Request().Context())
	if err != nil {
		return toHTTPError(err, "Not found")
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	return c.JSON(http.StatusOK, entries)
}
