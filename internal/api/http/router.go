package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chamado-hub/helpdesk/internal/api/http/handlers"
	"github.com/chamado-hub/helpdesk/internal/auth"
	"github.com/chamado-hub/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Accounts       *handlers.AccountsHandler
	Companies      *handlers.CompaniesHandler
	Tickets        *handlers.TicketsHandler
	SLA            *handlers.SLAHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	users := app.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdministrator))
	users.Post("", cfg.Accounts.Create)
	users.Get("/agents", cfg.Accounts.ListAgents)
	users.Get("/:id", cfg.Accounts.Get)
	users.Patch("/:id", cfg.Accounts.Update)

	companies := app.Group("/companies", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	companies.Post("", auth.RequireRole(domain.RoleAdministrator), cfg.Companies.Create)
	companies.Get("", auth.RequireStaff(), cfg.Companies.List)
	companies.Get("/:id", auth.RequireStaff(), cfg.Companies.Get)
	companies.Patch("/:id", auth.RequireRole(domain.RoleAdministrator), cfg.Companies.Update)
	companies.Get("/:id/users", auth.RequireStaff(), cfg.Companies.ListUsers)
	// Clients browse their company's catalog when opening a ticket.
	companies.Get("/:id/ticket-types", cfg.Companies.ListTicketTypes)
	companies.Post("/:id/ticket-types", auth.RequireRole(domain.RoleAdministrator), cfg.Companies.CreateTicketType)

	ticketTypes := app.Group("/ticket-types", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdministrator))
	ticketTypes.Patch("/:id", cfg.Companies.UpdateTicketType)
	ticketTypes.Delete("/:id", cfg.Companies.DeleteTicketType)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/code/:code", cfg.Tickets.GetByCode)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Post("/:id/updates", cfg.Tickets.AddUpdate)
	tickets.Post("/:id/rating", cfg.Tickets.Rate)
	tickets.Patch("/:id/status", auth.RequireStaff(), cfg.Tickets.ChangeStatus)
	tickets.Patch("/:id/assignee", auth.RequireStaff(), cfg.Tickets.ChangeAssignee)
	tickets.Get("/:id/history", auth.RequireStaff(), cfg.Tickets.History)

	slaGroup := app.Group("/sla")
	slaGroup.Post("/check-all", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdministrator), cfg.SLA.CheckAll)
	slaGroup.Get("/alerts", cfg.AuthMiddleware.Handle, auth.RequireStaff(), cfg.SLA.Alerts)
	// The cron pair authenticates with a static token, not a user session.
	slaGroup.Post("/cron", cfg.SLA.Cron)
	slaGroup.Get("/cron", cfg.SLA.CronInfo)

	app.Get("/dashboard/metrics", cfg.AuthMiddleware.Handle, auth.RequireStaff(), cfg.Dashboard.Metrics)
}
