package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups every route handler the router mounts.
type Handlers struct {
	Registration RegistrationHandler
	Attendance   AttendanceHandler
	Payroll      PayrollHandler
	Violation    ViolationHandler
	Notification NotificationHandler
	SalaryGoal   SalaryGoalHandler
}

type RouterConfig struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
}

// NewLogger builds the JSON ECS logger shared by the access log and the
// application.
func NewLogger(w io.Writer, level slog.Level, app, version, env string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "production")
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app),
		slog.String("version", version),
		slog.String("env", env),
	)
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  cfg.LogLevel,
			Schema: httplog.SchemaECS,
			// Long-lived SSE connections would only log on disconnect.
			Skip: func(req *http.Request, respStatus int) bool {
				return req.URL.Path == "/api/v1/notifications/stream"
			},
		}))
	}

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		// EventSource cannot send an Authorization header; the handler checks
		// the short-lived SSE token itself.
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/shift-registrations", func(r chi.Router) {
				r.Get("/", h.Registration.List)
				r.With(middleware.RequirePermission(user.PermissionRegistrationCreate)).Post("/", h.Registration.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Delete("/", h.Registration.Delete)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionRegistrationReview))
						r.Put("/approve", h.Registration.Approve)
						r.Put("/reject", h.Registration.Reject)
					})
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", h.Attendance.List)
				r.Get("/report/monthly", h.Attendance.MonthlyReport)
				r.Get("/{id}", h.Attendance.GetByID)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceCheckIn))
					r.Post("/check-in", h.Attendance.CheckIn)
					r.Post("/check-out", h.Attendance.CheckOut)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/", h.Payroll.List)
				r.With(middleware.RequirePermission(user.PermissionPayrollManage)).Post("/calculate", h.Payroll.Calculate)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Payroll.GetByID)
					r.With(middleware.RequirePermission(user.PermissionPayrollDelete)).Delete("/", h.Payroll.Delete)
					r.With(middleware.RequirePermission(user.PermissionPayrollPay)).Post("/pay", h.Payroll.ProcessPayment)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionPayrollManage))
						r.Patch("/status", h.Payroll.UpdateStatus)
						r.Post("/recalculate", h.Payroll.Recalculate)
					})
				})
			})

			r.Route("/violations", func(r chi.Router) {
				r.Get("/", h.Violation.List)
				r.With(middleware.RequirePermission(user.PermissionViolationManage)).Post("/", h.Violation.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Violation.GetByID)
					r.Post("/acknowledge", h.Violation.Acknowledge)
					r.With(middleware.RequirePermission(user.PermissionViolationManage)).Patch("/", h.Violation.Update)
					r.With(middleware.RequirePermission(user.PermissionViolationDelete)).Delete("/", h.Violation.Delete)
				})
			})

			r.Route("/salary-goals", func(r chi.Router) {
				r.Post("/", h.SalaryGoal.CreateOrUpdate)
				r.Get("/current", h.SalaryGoal.Current)
				r.Get("/history", h.SalaryGoal.History)
				r.Put("/{id}", h.SalaryGoal.Update)
				r.Delete("/{id}", h.SalaryGoal.Delete)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Post("/read", h.Notification.MarkAsRead)
				r.Post("/read-all", h.Notification.MarkAllAsRead)
				r.Post("/stream-token", h.Notification.GetSSEToken)
				r.Delete("/{id}", h.Notification.Delete)
			})
		})
	})
	return r
}
