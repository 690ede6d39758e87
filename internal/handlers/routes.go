package handlers

import (
	"preppulse/internal/middleware"
	"preppulse/internal/services"

	"github.com/labstack/echo/v4"
)

// Router bundles every handler group for route registration.
type Router struct {
	Auth       *AuthHandlers
	Onboarding *OnboardingHandlers
	Dashboard  *DashboardHandlers
	MockTests  *MockTestHandlers
	Habits     *HabitHandlers
	Resumes    *ResumeHandlers
	Chat       *ChatHandlers
	Admin      *AdminHandlers
	Health     *HealthHandlers
}

// Register mounts all routes on e. Everything under /api except the public
// auth endpoints requires a session; /api/admin also requires an admin one.
func (r *Router) Register(e *echo.Echo, authSvc services.AuthService, version *middleware.VersionMiddleware) {
	if r.Health != nil {
		e.GET("/health", r.Health.HealthCheck)
		e.GET("/health/ready", r.Health.ReadinessCheck)
		e.GET("/health/live", r.Health.LivenessCheck)
	}

	api := e.Group("/api")
	if version != nil {
		api.Use(version.VersionHeader())
	}

	auth := api.Group("/auth")
	auth.POST("/register", r.Auth.Register)
	auth.POST("/login", r.Auth.Login)
	auth.POST("/forgot-password", r.Auth.ForgotPassword)
	auth.POST("/reset-password", r.Auth.ResetPassword)

	session := middleware.RequireSession(authSvc)
	auth.POST("/logout", r.Auth.Logout, session)
	auth.GET("/me", r.Auth.Me, session)

	protected := api.Group("", session)

	protected.GET("/onboarding", r.Onboarding.GetOnboarding)
	protected.POST("/onboarding", r.Onboarding.SubmitOnboarding)

	protected.GET("/dashboard", r.Dashboard.GetDashboard)
	protected.POST("/skill-checklist/update", r.Dashboard.UpdateChecklistItem)

	protected.GET("/mock-tests", r.MockTests.ListMockTests)
	protected.POST("/mock-tests", r.MockTests.CreateMockTest)
	protected.PUT("/mock-tests/:id", r.MockTests.UpdateMockTest)
	protected.DELETE("/mock-tests/:id", r.MockTests.DeleteMockTest)

	protected.GET("/habits", r.Habits.ListHabits)
	protected.POST("/habits", r.Habits.CreateHabit)
	protected.POST("/habits/toggle", r.Habits.ToggleHabit)
	protected.GET("/habits/logs", r.Habits.HabitLogs)
	protected.PUT("/habits/:id", r.Habits.UpdateHabit)
	protected.DELETE("/habits/:id", r.Habits.DeleteHabit)
	protected.GET("/leaderboard", r.Habits.Leaderboard)

	protected.POST("/resume/upload", r.Resumes.UploadResume)
	protected.GET("/resume/latest", r.Resumes.LatestResume)
	protected.GET("/resumes", r.Resumes.ListResumes)
	protected.POST("/resume/analyze", r.Resumes.AnalyzeResume)
	protected.GET("/resume/file", r.Resumes.ServeResumeFile)
	protected.GET("/resume/file/:id", r.Resumes.ServeResumeFile)

	protected.POST("/chat", r.Chat.Chat)

	admin := protected.Group("/admin", middleware.RequireAdmin(), middleware.AuditAdmin())
	admin.GET("/stats", r.Admin.Stats)
	admin.GET("/users", r.Admin.ListUsers)
	admin.GET("/users/:email", r.Admin.UserDetails)
	admin.PUT("/users/:email", r.Admin.UpdateUser)
	admin.DELETE("/users/:email", r.Admin.DeleteUser)
	admin.GET("/tables", r.Admin.ListTables)
	admin.GET("/tables/:table", r.Admin.TableRows)
	admin.DELETE("/tables/:table/rows/:id", r.Admin.DeleteRow)
	admin.POST("/query", r.Admin.RunQuery)
	admin.GET("/leaderboard", r.Admin.Leaderboard)
}
