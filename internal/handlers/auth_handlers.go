package handlers

import (
	"net/http"
	"time"

	"preppulse/internal/middleware"
	"preppulse/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
	sessionTTL  time.Duration
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, sessionTTL time.Duration) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		sessionTTL:  sessionTTL,
	}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse tells the client where to go next.
type LoginResponse struct {
	Redirect string `json:"redirect"`
	IsAdmin  bool   `json:"is_admin"`
}

type MeResponse struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	IsAdmin  bool   `json:"is_admin"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Register creates an account.
//
//	@Summary	Register a new account
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		services.RegisterInput	true	"Account details"
//	@Success	201		{object}	models.User
//	@Failure	400		{object}	common.ErrorResponse
//	@Failure	409		{object}	common.ErrorResponse
//	@Router		/api/auth/register [post]
func (h *AuthHandlers) Register(c echo.Context) error {
	var req services.RegisterInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	user, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err, "User not found")
	}
	return c.JSON(http.StatusCreated, user)
}

// Login handles user login with email and password
//
//	@Summary	Log in and start a session
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		LoginRequest	true	"Credentials"
//	@Success	200		{object}	LoginResponse
//	@Failure	401		{object}	common.ErrorResponse
//	@Router		/api/auth/login [post]
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return toHTTPError(err, "User not found")
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    result.SessionID,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   c.IsTLS(),
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, LoginResponse{
		Redirect: result.Redirect,
		IsAdmin:  result.Session.IsAdmin,
	})
}

// Logout ends the current session.
//
//	@Summary	Log out
//	@Tags		auth
//	@Success	200	{object}	messageResponse
//	@Router		/api/auth/logout [post]
func (h *AuthHandlers) Logout(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), rc.SessionID); err != nil {
		return toHTTPError(err, "Session not found")
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out."})
}

// Me returns the current user's identity
//
//	@Summary	Current user
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	MeResponse
//	@Failure	401	{object}	common.ErrorResponse
//	@Router		/api/auth/me [get]
func (h *AuthHandlers) Me(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MeResponse{Email: rc.Email, FullName: rc.FullName, IsAdmin: rc.IsAdmin})
}

// ForgotPassword always answers with the same message so it cannot be used
// to probe which addresses have accounts.
//
//	@Summary	Request a password reset link
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		ForgotPasswordRequest	true	"Email"
//	@Success	200		{object}	messageResponse
//	@Router		/api/auth/forgot-password [post]
func (h *AuthHandlers) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return toHTTPError(err, "User not found")
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "If an account exists, a reset link has been sent."})
}

// ResetPassword sets a new password using a reset token.
//
//	@Summary	Reset password
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		ResetPasswordRequest	true	"Token and new password"
//	@Success	200		{object}	messageResponse
//	@Failure	400		{object}	common.ErrorResponse
//	@Router		/api/auth/reset-password [post]
func (h *AuthHandlers) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.Password, req.ConfirmPassword)
	if err != nil {
		return toHTTPError(err, "User not found")
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password updated. Please log in."})
}
