package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	jwtService jwt.Service,
	attendanceHandler AttendanceHandler,
	shiftHandler ShiftHandler,
	scheduleRequestHandler ScheduleRequestHandler,
	timeOffBankHandler TimeOffBankHandler,
	calendarHandler CalendarHandler,
	geofenceHandler GeofenceHandler,
	env string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-engine"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Everything requires authentication; identity comes from the
		// upstream auth service's tokens.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendances", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Get("/my", attendanceHandler.GetMyAttendance)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", attendanceHandler.List)
					r.Post("/mark", attendanceHandler.ManualMark)
					r.Post("/process-batch", attendanceHandler.ProcessBatch)
				})
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/resolve", shiftHandler.ResolveSchedule)
				r.Get("/templates", shiftHandler.ListTemplates)
				r.Get("/assignments", shiftHandler.ListAssignments)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/templates", shiftHandler.CreateTemplate)
					r.Delete("/templates/{id}", shiftHandler.DeactivateTemplate)
					r.Post("/assignments", shiftHandler.AssignShift)
					r.Delete("/exceptions/{id}", shiftHandler.RevokeException)
				})
			})

			r.Route("/schedule-requests", func(r chi.Router) {
				r.Post("/", scheduleRequestHandler.Submit)
				r.Get("/", scheduleRequestHandler.List)
				r.Get("/{id}", scheduleRequestHandler.Get)
				r.Post("/{id}/cancel", scheduleRequestHandler.Cancel)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/{id}/approve", scheduleRequestHandler.Approve)
					r.Post("/{id}/reject", scheduleRequestHandler.Reject)
				})
			})

			r.Route("/time-off-banks", func(r chi.Router) {
				r.Get("/my", timeOffBankHandler.GetMyBalance)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", timeOffBankHandler.Create)
					r.Post("/bulk", timeOffBankHandler.BulkCreate)
					r.Get("/{userID}", timeOffBankHandler.GetBalance)
				})
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", calendarHandler.ListHolidays)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", calendarHandler.CreateHoliday)
					r.Delete("/{id}", calendarHandler.DeleteHoliday)
				})
			})

			r.Route("/attendance-locations", func(r chi.Router) {
				r.Get("/", geofenceHandler.ListLocations)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", geofenceHandler.CreateLocation)
					r.Delete("/{id}", geofenceHandler.DeactivateLocation)
				})
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	return r
}
