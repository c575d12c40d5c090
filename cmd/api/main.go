package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/config"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/staff"
	appHTTP "github.com/cmlabs-hris/attendance-engine-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-engine-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-engine-go/internal/service/attendance"
	calendarService "github.com/cmlabs-hris/attendance-engine-go/internal/service/calendar"
	geofenceService "github.com/cmlabs-hris/attendance-engine-go/internal/service/geofence"
	scheduleRequestService "github.com/cmlabs-hris/attendance-engine-go/internal/service/schedulerequest"
	shiftService "github.com/cmlabs-hris/attendance-engine-go/internal/service/shift"
	timeOffBankService "github.com/cmlabs-hris/attendance-engine-go/internal/service/timeoffbank"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Pool.Close()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	staffRepo := postgresql.NewStaffRepository(db)
	branchRepo := postgresql.NewBranchRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	leaveRecordRepo := postgresql.NewLeaveRecordRepository(db)
	locationRepo := postgresql.NewAttendanceLocationRepository(db)
	templateRepo := postgresql.NewShiftTemplateRepository(db)
	assignmentRepo := postgresql.NewShiftAssignmentRepository(db)
	exceptionRepo := postgresql.NewShiftExceptionRepository(db)
	requestRepo := postgresql.NewScheduleRequestRepository(db)
	bankRepo := postgresql.NewTimeOffBankRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	defaults := staff.BranchAttendanceConfig{
		Mode:         staff.AttendanceMode(cfg.Attendance.DefaultMode),
		RadiusMeters: cfg.Attendance.DefaultRadiusMeters,
		GraceMinutes: cfg.Attendance.DefaultGraceMinutes,
	}

	calendarSvc := calendarService.NewCalendarService(holidayRepo, leaveRecordRepo)
	geofenceSvc := geofenceService.NewGeofenceService(locationRepo, cfg.Attendance.DefaultRadiusMeters)
	shiftSvc := shiftService.NewShiftService(db, templateRepo, assignmentRepo, exceptionRepo)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		staffRepo,
		branchRepo,
		calendarSvc,
		shiftSvc,
		geofenceSvc,
		defaults,
		cfg.Attendance.BatchWorkers,
	)
	requestSvc := scheduleRequestService.NewRequestService(postgresql.NewTxRunner(db), requestRepo, bankRepo, exceptionRepo, attendanceSvc)
	bankSvc := timeOffBankService.NewBankService(bankRepo)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	shiftHandler := appHTTP.NewShiftHandler(shiftSvc)
	scheduleRequestHandler := appHTTP.NewScheduleRequestHandler(requestSvc)
	timeOffBankHandler := appHTTP.NewTimeOffBankHandler(bankSvc)
	calendarHandler := appHTTP.NewCalendarHandler(calendarSvc)
	geofenceHandler := appHTTP.NewGeofenceHandler(geofenceSvc)

	router := appHTTP.NewRouter(
		jwtService,
		attendanceHandler,
		shiftHandler,
		scheduleRequestHandler,
		timeOffBankHandler,
		calendarHandler,
		geofenceHandler,
		cfg.App.Env,
	)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceSvc, staffRepo).RegisterJobs(scheduler)
	scheduler.Start()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down...")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}

	slog.Info("Server stopped")
}
