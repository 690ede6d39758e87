package handlers

import (
	"net/http"

	"preppulse/internal/models"
	"preppulse/internal/services"

	"github.com/labstack/echo/v4"
)

type MockTestHandlers struct {
	mockTestService services.MockTestService
}

func NewMockTestHandlers(mockTestService services.MockTestService) *MockTestHandlers {
	return &MockTestHandlers{mockTestService: mockTestService}
}

// ListMockTests
//
//	@Summary	List the caller's mock tests, newest first
//	@Tags		mock-tests
//	@Produce	json
//	@Success	200	{object}	itemsResponse[models.MockTest]
//	@Router		/api/mock-tests [get]
func (h *MockTestHandlers) ListMockTests(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}
	tests, err := h.mockTestService.List(c.Request().Context(), rc.Email)
	if err != nil {
		return toHTTPError(err, "Not found")
	}
	if tests == nil {
		tests = []*models.MockTest{}
	}
	return c.JSON(http.StatusOK, itemsResponse[*models.MockTest]{Items: tests})
}

// CreateMockTest
//
//	@Summary	Record a mock test score
//	@Tags		mock-tests
//	@Accept		json
//	@Produce	json
//	@Param		body	body		services.MockTestInput	true	"Mock test"
//	@Success	201		{object}	idResponse
//	@Failure	400		{object}	common.ErrorResponse
//	@Router		/api/mock-tests [post]
func (h *MockTestHandlers) CreateMockTest(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}

	var req services.MockTestInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	id, err := h.mockTestService.Create(c.Request().Context(), rc.Email, req)
	if err != nil {
		return toHTTPError(err, "Not found")
	}
	return c.JSON(http.StatusCreated, idResponse{ID: id})
}

// UpdateMockTest
//
//	@Summary	Update one of the caller's mock tests
//	@Tags		mock-tests
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int						true	"Mock test ID"
//	@Param		body	body		services.MockTestInput	true	"Mock test"
//	@Success	200		{object}	statusResponse
//	@Failure	404		{object}	common.ErrorResponse
//	@Router		/api/mock-tests/{id} [put]
func (h *MockTestHandlers) UpdateMockTest(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req services.MockTestInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.mockTestService.Update(c.Request().Context(), rc.Email, id, req); err != nil {
		return toHTTPError(err, "Not found")
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "updated"})
}

// DeleteMockTest
//
//	@Summary	Delete one of the caller's mock tests
//	@Tags		mock-tests
//	@Param		id	path		int	true	"Mock test ID"
//	@Success	200	{object}	statusResponse
//	@Failure	404	{object}	common.ErrorResponse
//	@Router		/api/mock-tests/{id} [delete]
func (h *MockTestHandlers) DeleteMockTest(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.mockTestService.Delete(c.Request().Context(), rc.Email, id); err != nil {
		return toHTTPError(err, "Not found")
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "deleted"})
}
