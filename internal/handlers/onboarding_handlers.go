package handlers

import (
	"net/http"

	"preppulse/internal/services"

	"github.com/labstack/echo/v4"
)

type OnboardingHandlers struct {
	onboardingService services.OnboardingService
}

func NewOnboardingHandlers(onboardingService services.OnboardingService) *OnboardingHandlers {
	return &OnboardingHandlers{onboardingService: onboardingService}
}

// GetOnboarding returns the caller's onboarding answers, or null.
//
//	@Summary	Get onboarding answers
//	@Tags		onboarding
//	@Produce	json
//	@Success	200	{object}	models.OnboardingResponse
//	@Router		/api/onboarding [get]
func (h *OnboardingHandlers) GetOnboarding(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}
	resp, err := h.onboardingService.Get(c.Request().Context(), rc.Email)
	if err != nil {
		return toHTTPError(err, "Onboarding not found")
	}
	return c.JSON(http.StatusOK, resp)
}

// SubmitOnboarding stores the questionnaire and marks first login complete.
//
//	@Summary	Submit onboarding answers
//	@Tags		onboarding
//	@Accept		json
//	@Produce	json
//	@Param		body	body		services.OnboardingInput	true	"Answers"
//	@Success	200		{object}	models.OnboardingResponse
//	@Failure	400		{object}	common.ErrorResponse
//	@Router		/api/onboarding [post]
func (h *OnboardingHandlers) SubmitOnboarding(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}

	var req services.OnboardingInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	resp, err := h.onboardingService.Submit(c.Request().Context(), rc.Email, req)
	if err != nil {
		return toHTTPError(err, "Onboarding not found")
	}
	return c.JSON(http.StatusOK, resp)
}
