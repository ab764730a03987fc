package http

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unrolled/secure"

	"userhub/frontend/admin"
	"userhub/frontend/home"
	sessioncontext "userhub/frontend/shared/context"
	"userhub/frontend/shared/handler"
	"userhub/infrastructure/apiclient"
	"userhub/infrastructure/audit"
	"userhub/infrastructure/config"
	"userhub/infrastructure/metrics"
	"userhub/infrastructure/rbac"
	"userhub/infrastructure/session"
)

//go:embed assets/*
var assets embed.FS

var ShutdownTimeout = 2 * time.Second

// Server bundles dependencies and route wiring.
type Server struct {
	Addr   string
	ln     net.Listener
	server *http.Server
	router *chi.Mux

	Config   *config.Config
	API      *apiclient.Client
	Sessions *session.Manager
	Rbac     *rbac.Rbac
	Audit    *audit.Service
	Deleter  *admin.Deleter
}

// NewServer creates a new http server.
func NewServer(cfg *config.Config, api *apiclient.Client, sessions *session.Manager, r *rbac.Rbac, auditSvc *audit.Service) *Server {
	s := &Server{
		Addr:     cfg.AppAddr,
		router:   chi.NewRouter(),
		Config:   cfg,
		API:      api,
		Sessions: sessions,
		Rbac:     r,
		Audit:    auditSvc,
		Deleter:  admin.NewDeleter(),
		server: &http.Server{
			MaxHeaderBytes:    1 << 20,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'",
		SSLRedirect:           cfg.IsProduction(),
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !cfg.IsProduction(),
	})

	s.router.Use(secureMiddleware.Handler)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(s.CSRFMiddleware)
	s.router.Use(s.SessionMiddleware)

	s.router.Get("/", s.coordinate(home.PageQueryHandler))

	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.router.Handle("/metrics", promhttp.Handler())

	// Serve assets from embedded FS.
	var assetsFS fs.FS = assets
	if sub, err := fs.Sub(assets, "assets"); err == nil {
		assetsFS = sub
	} else {
		slog.Error("assets subfs init failed; serving fallback fs", slog.Any("err", err))
	}
	s.router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(assetsFS))))

	s.RegisterLoginRoutes()

	s.router.Group(func(r chi.Router) {
		r.Use(s.AuthenticateMiddleware)
		s.RegisterDashboardRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(s.RbacMiddleware)
			s.RegisterAdminRoutes(r)
		})
	})

	s.server.Handler = s.router
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SessionMiddleware hydrates the session, when there is one, into the request context.
// A cookie that no longer resolves is cleared.
func (s *Server) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.Sessions.Hydrate(r.Context(), r)
		if !ok {
			if c, err := r.Cookie(session.CookieName); err == nil && c.Value != "" {
				http.SetCookie(w, session.ClearedCookie(s.Config.SecureCookies))
			}
			next.ServeHTTP(w, r)
			return
		}
		ctx := sessioncontext.NewContextWithSession(r.Context(), sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthenticateMiddleware sends visitors without a session to /login.
func (s *Server) AuthenticateMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !sessioncontext.IsLoggedIn(r.Context()) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RbacMiddleware checks the route table registered next to each route. Denied requests go to the dashboard.
func (s *Server) RbacMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := sessioncontext.CurrentUser(r.Context())
		if !s.Rbac.Allowed(user.Roles, r.URL.Path, r.Method) {
			slog.Warn("rbac denied", slog.String("user_id", user.UserID), slog.String("method", r.Method), slog.String("path", r.URL.Path))
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// coordinate adapts a page handler. It is the only place that ends a session because the backend
// rejected the token: the session is cleared and the browser sent to /login.
func (s *Server) coordinate(h handler.Func) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		if errors.Is(err, apiclient.ErrUnauthenticated) {
			s.endSession(w, r)
			return
		}
		slog.Error("request failed", slog.String("method", r.Method), slog.String("path", r.URL.Path), slog.Any("err", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	if sess, ok := sessioncontext.GetSessionFromContext(r.Context()); ok {
		s.Audit.Record(r.Context(), audit.Entry{
			UserID:     sess.UserID,
			Action:     audit.ActionSessionExpired,
			EntityType: "session",
			EntityID:   sess.UserID,
		})
	}
	s.Sessions.Logout(r.Context(), w, r)
	metrics.SessionsExpiredTotal.Inc()
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	var err error
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go s.server.Serve(s.ln)
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.ln == nil {
		return fmt.Errorf("HTTP server has not been started or is already stopped")
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %v", err)
	}
	s.ln = nil
	return nil
}
