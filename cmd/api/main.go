package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/cujae-dev/horarios-api/internal/handler"
	"github.com/cujae-dev/horarios-api/internal/middleware"
	"github.com/cujae-dev/horarios-api/internal/repository"
	"github.com/cujae-dev/horarios-api/internal/service"
	"github.com/cujae-dev/horarios-api/pkg/cache"
	"github.com/cujae-dev/horarios-api/pkg/config"
	"github.com/cujae-dev/horarios-api/pkg/database"
	"github.com/cujae-dev/horarios-api/pkg/logger"
	corsmiddleware "github.com/cujae-dev/horarios-api/pkg/middleware/cors"
	reqidmiddleware "github.com/cujae-dev/horarios-api/pkg/middleware/requestid"
)

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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Export.CacheEnabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, export cache disabled", "error", err)
		} else {
			defer redisClient.Close()
		}
	}
	store := cache.NewStore(redisClient)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	subjectRepo := repository.NewSubjectRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	classTypeRepo := repository.NewClassTypeRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	subjectTeacherRepo := repository.NewSubjectTeacherRepository(db)

	subjectSvc := service.NewSubjectService(subjectRepo, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, validate, logr)
	classTypeSvc := service.NewClassTypeService(classTypeRepo, validate, logr)
	classroomSvc := service.NewClassroomService(classroomRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, subjectRepo, classTypeRepo, classroomRepo, teacherRepo, store, metricsSvc, validate, logr)
	subjectTeacherSvc := service.NewSubjectTeacherService(subjectTeacherRepo, subjectRepo, teacherRepo, validate, logr)
	timetableSvc := service.NewTimetableService(
		scheduleRepo, subjectRepo, classTypeRepo, classroomRepo, teacherRepo,
		nil, nil, nil,
		store, metricsSvc,
		service.TimetableConfig{CacheEnabled: cfg.Export.CacheEnabled, CacheTTL: cfg.Export.CacheTTL},
		logr,
	)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Subjects:        handler.NewSubjectHandler(subjectSvc),
		Teachers:        handler.NewTeacherHandler(teacherSvc),
		ClassTypes:      handler.NewClassTypeHandler(classTypeSvc),
		Classrooms:      handler.NewClassroomHandler(classroomSvc),
		Schedules:       handler.NewScheduleHandler(scheduleSvc, timetableSvc),
		SubjectTeachers: handler.NewSubjectTeacherHandler(subjectTeacherSvc),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
