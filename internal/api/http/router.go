package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/infinitetechnologys/crm/internal/api/http/handlers"
	"github.com/infinitetechnologys/crm/internal/auth"
)

// RouteConfig bundles everything RegisterRoutes needs to mount the API.
type RouteConfig struct {
	Auth       *auth.Middleware
	Health     *handlers.HealthHandler
	AuthN      *handlers.AuthHandler
	Clients    *handlers.ClientsHandler
	Properties *handlers.PropertiesHandler
	Deals      *handlers.DealsHandler
	Tasks      *handlers.TasksHandler
	Staff      *handlers.StaffHandler
	Activity   *handlers.ActivityHandler
	Reports    *handlers.ReportsHandler
	Dashboard  *handlers.DashboardHandler
}

// RegisterRoutes mounts all HTTP routes on the app. Health and login are
// public; everything else sits behind the bearer-token middleware, with the
// staff roster and activity log restricted to administrators.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")
	api.Post("/auth/login", cfg.AuthN.Login)

	protected := api.Group("", cfg.Auth.Handle)

	protected.Post("/auth/logout", cfg.AuthN.Logout)
	protected.Get("/auth/me", cfg.AuthN.Me)
	protected.Put("/auth/me", cfg.AuthN.UpdateProfile)
	protected.Post("/auth/password/change", cfg.AuthN.ChangePassword)

	protected.Get("/clients", cfg.Clients.List)
	protected.Post("/clients", cfg.Clients.Create)
	protected.Get("/clients/:id", cfg.Clients.Get)
	protected.Put("/clients/:id", cfg.Clients.Update)
	protected.Delete("/clients/:id", cfg.Clients.Delete)
	protected.Post("/clients/:id/interactions", cfg.Clients.AddInteraction)

	protected.Get("/properties", cfg.Properties.List)
	protected.Post("/properties", cfg.Properties.Create)
	protected.Get("/properties/:id", cfg.Properties.Get)
	protected.Put("/properties/:id", cfg.Properties.Update)
	protected.Delete("/properties/:id", cfg.Properties.Delete)
	protected.Post("/properties/:id/showings", cfg.Properties.ScheduleShowing)
	protected.Put("/showings/:id", cfg.Properties.UpdateShowing)

	protected.Get("/deals", cfg.Deals.List)
	protected.Post("/deals", cfg.Deals.Create)
	protected.Get("/deals/:id", cfg.Deals.Get)
	protected.Put("/deals/:id", cfg.Deals.Update)
	protected.Delete("/deals/:id", cfg.Deals.Delete)

	protected.Get("/tasks", cfg.Tasks.List)
	protected.Post("/tasks", cfg.Tasks.Create)
	protected.Put("/tasks/:id", cfg.Tasks.Update)
	protected.Post("/tasks/:id/toggle", cfg.Tasks.Toggle)
	protected.Delete("/tasks/:id", cfg.Tasks.Delete)

	protected.Get("/dashboard", cfg.Dashboard.Stats)
	protected.Get("/reports/overview", cfg.Reports.Overview)

	admin := protected.Group("", auth.RequireAdmin())

	admin.Get("/staff", cfg.Staff.List)
	admin.Post("/staff", cfg.Staff.Create)
	admin.Get("/staff/:id", cfg.Staff.Get)
	admin.Put("/staff/:id", cfg.Staff.Update)
	admin.Post("/staff/:id/toggle", cfg.Staff.ToggleActive)
	admin.Delete("/staff/:id", cfg.Staff.Delete)
	admin.Post("/staff/:id/password/reset", cfg.Staff.ResetPassword)

	admin.Get("/activity", cfg.Activity.List)
	admin.Get("/activity/summary", cfg.Activity.Summary)
	admin.Get("/activity/users/:id", cfg.Activity.ListForUser)
}
