package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"userhub/frontend/admin"
	"userhub/frontend/dashboard"
	"userhub/frontend/login"
	"userhub/frontend/register"
	"userhub/infrastructure/rbac"
	"userhub/models"
)

// RegisterLoginRoutes registers the public login, registration and logout routes.
func (s *Server) RegisterLoginRoutes() {
	limit := s.Config.LoginRateLimit
	if limit <= 0 {
		limit = 10
	}
	limiter := httprate.Limit(limit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Too many attempts. Please wait a minute and try again.", http.StatusTooManyRequests)
		}),
	)

	s.router.Get("/login", s.coordinate(login.GetLoginScreenHandler))
	s.router.With(limiter).Post("/login", s.coordinate(login.CreateLoginHandler(s.API, s.Sessions, s.Audit)))
	s.router.Post("/logout", login.LogoutHandler(s.Sessions, s.Audit))

	s.router.Get("/register", s.coordinate(register.GetRegisterScreenHandler(s.API)))
	s.router.With(limiter).Post("/register", s.coordinate(register.CreateRegistrationHandler(s.API)))
}

// RegisterDashboardRoutes registers routes open to every logged-in user.
func (s *Server) RegisterDashboardRoutes(r chi.Router) chi.Router {
	r.Get("/dashboard", s.coordinate(dashboard.PageQueryHandler(s.API, s.Rbac, s.Audit)))
	r.Post("/dashboard/profile", s.coordinate(dashboard.UpdateProfileCommandHandler(s.API, s.Sessions, s.Rbac, s.Audit)))
	r.Post("/dashboard/password", s.coordinate(dashboard.ChangePasswordCommandHandler(s.API, s.Rbac, s.Audit)))
	return r
}

// RegisterAdminRoutes registers admin-only routes and their grants.
func (s *Server) RegisterAdminRoutes(r chi.Router) chi.Router {
	s.Rbac.Add(models.RoleAdmin, rbac.AdminConsoleView, http.MethodGet, "/admin")
	r.Get("/admin", s.coordinate(admin.PageQueryHandler(s.API, s.Rbac, s.Deleter)))

	s.Rbac.Add(models.RoleAdmin, rbac.AdminUserDelete, http.MethodPost, "/admin/users/*/delete")
	r.Post("/admin/users/{id}/delete", s.coordinate(admin.DeleteUserCommandHandler(s.API, s.Rbac, s.Deleter, s.Audit)))

	s.Rbac.Add(models.RoleAdmin, rbac.AdminRoleCreate, http.MethodPost, "/admin/roles")
	r.Post("/admin/roles", s.coordinate(admin.CreateRoleCommandHandler(s.API, s.Rbac, s.Deleter, s.Audit)))
	s.Rbac.Add(models.RoleAdmin, rbac.AdminRoleEdit, http.MethodPost, "/admin/roles/*")
	r.Post("/admin/roles/{id}", s.coordinate(admin.UpdateRoleCommandHandler(s.API, s.Rbac, s.Deleter, s.Audit)))
	s.Rbac.Add(models.RoleAdmin, rbac.AdminRoleDelete, http.MethodPost, "/admin/roles/*/delete")
	r.Post("/admin/roles/{id}/delete", s.coordinate(admin.DeleteRoleCommandHandler(s.API, s.Rbac, s.Deleter, s.Audit)))
	return r
}
