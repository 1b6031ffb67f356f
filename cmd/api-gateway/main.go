package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/ridvansevik/campus-management-system-backend-part3/api/swagger"
	"github.com/ridvansevik/campus-management-system-backend-part3/internal/handler"
	"github.com/ridvansevik/campus-management-system-backend-part3/internal/repository"
	"github.com/ridvansevik/campus-management-system-backend-part3/internal/service"
	"github.com/ridvansevik/campus-management-system-backend-part3/pkg/cache"
	"github.com/ridvansevik/campus-management-system-backend-part3/pkg/config"
	"github.com/ridvansevik/campus-management-system-backend-part3/pkg/database"
	"github.com/ridvansevik/campus-management-system-backend-part3/pkg/logger"
	corsmiddleware "github.com/ridvansevik/campus-management-system-backend-part3/pkg/middleware/cors"
	reqidmiddleware "github.com/ridvansevik/campus-management-system-backend-part3/pkg/middleware/requestid"
)

// @title Campus Management API
// @version 1.0.0
// @description Timetable generation, attendance and grade services for the campus backend.
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	cacheRepo := repository.NewCacheRepository(nil, cfg.Cache.Prefix, logr)
	if cfg.Cache.Enabled {
		redisClient, redisErr := cache.NewRedis(cfg.Redis)
		if redisErr != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(redisErr))
			cfg.Cache.Enabled = false
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, cfg.Cache.Prefix, logr)
		}
	}

	validate := validator.New()

	sectionRepo := repository.NewSectionRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	preferenceRepo := repository.NewInstructorPreferenceRepository(db)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	timetableSvc := service.NewTimetableService(
		sectionRepo,
		classroomRepo,
		enrollmentRepo,
		preferenceRepo,
		scheduleRepo,
		sectionRepo,
		db,
		cacheSvc,
		metricsSvc,
		validate,
		logr,
		service.TimetableConfig{
			Deadline:    cfg.Scheduler.Deadline,
			ProposalTTL: cfg.Scheduler.ProposalTTL,
			CacheTTL:    cfg.Cache.TTL,
		},
	)

	attendanceSvc := service.NewAttendanceService(attendanceRepo, scheduleRepo, metricsSvc, validate, logr, service.AttendanceConfig{
		CampusCIDRs:           cfg.Attendance.CampusCIDRs,
		GPSToleranceMeters:    cfg.Attendance.GPSToleranceMeters,
		RejectDistanceM:       cfg.Attendance.RejectDistanceM,
		MaxTravelSpeedKmh:     cfg.Attendance.MaxTravelSpeedKmh,
		VelocityWindow:        cfg.Attendance.VelocityWindow,
		DefaultRadiusM:        cfg.Attendance.DefaultRadiusM,
		DefaultSessionMinutes: cfg.Attendance.DefaultSessionMinutes,
	})

	catalogSvc := service.NewCatalogService(sectionRepo, classroomRepo, studentRepo, scheduleRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, validate, logr)

	gradeSvc := service.NewGradeService(enrollmentRepo, studentRepo, metricsSvc, validate, logr, service.GradeConfig{
		WorkerConcurrency: cfg.Grades.WorkerConcurrency,
		WorkerRetries:     cfg.Grades.WorkerRetries,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gradeSvc.StartWorkers(ctx)
	defer gradeSvc.Stop()

	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metricsSvc.ObserveHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		if cfg.Scheduler.Enabled {
			api.POST("/timetable/generate", timetableHandler.Generate)
			api.POST("/timetable/save", timetableHandler.Save)
		}
		api.GET("/timetable", timetableHandler.List)
		api.GET("/timetable/export", timetableHandler.Export)
		api.PUT("/instructors/:id/preferences", timetableHandler.SavePreferences)

		api.GET("/sections", catalogHandler.ListSections)
		api.GET("/sections/:id", catalogHandler.GetSection)
		api.GET("/sections/:id/schedule", catalogHandler.SectionSchedule)
		api.GET("/classrooms", catalogHandler.ListClassrooms)
		api.GET("/classrooms/:id", catalogHandler.GetClassroom)

		api.POST("/attendance/sessions", attendanceHandler.OpenSession)
		api.POST("/attendance/check-in", attendanceHandler.CheckIn)
		api.GET("/attendance/sessions/:id/records", attendanceHandler.Records)

		api.POST("/enrollments/:id/drop", enrollmentHandler.Drop)

		api.GET("/students", catalogHandler.ListStudents)
		api.GET("/students/:id", catalogHandler.GetStudent)
		api.GET("/students/:id/sections", enrollmentHandler.StudentSections)

		api.POST("/grades", gradeHandler.Record)
		api.POST("/students/:id/gpa/recompute", gradeHandler.RecomputeGPA)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
