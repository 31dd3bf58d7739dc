package bootstrap

import (
	"database/sql"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ranwip/pm-backend/config"
	httpapi "github.com/ranwip/pm-backend/internal/api/http"
	"github.com/ranwip/pm-backend/internal/api/http/middleware"
	"github.com/ranwip/pm-backend/internal/auth"
	authhttp "github.com/ranwip/pm-backend/internal/auth/http"
	authmw "github.com/ranwip/pm-backend/internal/auth/middleware"
	authservice "github.com/ranwip/pm-backend/internal/auth/service"
	commenthttp "github.com/ranwip/pm-backend/internal/comments/http"
	commentrepo "github.com/ranwip/pm-backend/internal/comments/repository"
	commentservice "github.com/ranwip/pm-backend/internal/comments/service"
	"github.com/ranwip/pm-backend/internal/metrics"
	notifhttp "github.com/ranwip/pm-backend/internal/notifications/http"
	notifrepo "github.com/ranwip/pm-backend/internal/notifications/repository"
	notifservice "github.com/ranwip/pm-backend/internal/notifications/service"
	projecthttp "github.com/ranwip/pm-backend/internal/projects/http"
	projectrepo "github.com/ranwip/pm-backend/internal/projects/repository"
	projectservice "github.com/ranwip/pm-backend/internal/projects/service"
	"github.com/ranwip/pm-backend/internal/storage/postgres"
	taskhttp "github.com/ranwip/pm-backend/internal/tasks/http"
	taskrepo "github.com/ranwip/pm-backend/internal/tasks/repository"
	taskservice "github.com/ranwip/pm-backend/internal/tasks/service"
	entryhttp "github.com/ranwip/pm-backend/internal/timeentries/http"
	entryrepo "github.com/ranwip/pm-backend/internal/timeentries/repository"
	entryservice "github.com/ranwip/pm-backend/internal/timeentries/service"
	userhttp "github.com/ranwip/pm-backend/internal/users/http"
	userrepo "github.com/ranwip/pm-backend/internal/users/repository"
	userservice "github.com/ranwip/pm-backend/internal/users/service"
)

type RouterDeps struct {
	ServiceName string
	Config      *config.Config
	Pool        *pgxpool.Pool // users, projects
	SQL         *sql.DB       // tasks, time entries, comments
	Redis       *redis.Client
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	if err := httpapi.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.Metrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.Config.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.NewRateLimiter(dep.Config.Server.RateLimitRPS, dep.Config.Server.RateLimitBurst).Middleware())

	notifStore := notifrepo.NewRepo(dep.Redis)

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Config.App.Version,
		dep.Pool, httpapi.SQLPinger{DB: dep.SQL}, notifStore)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// repositories
	users := userrepo.NewRepo(dep.Pool)
	projects := projectrepo.NewRepo(dep.Pool)
	tasks := taskrepo.NewTaskRepository(dep.SQL)
	entries := entryrepo.NewEntryRepository(dep.SQL)
	comments := commentrepo.NewCommentRepository(dep.SQL)
	tx := postgres.NewTransactor(dep.SQL)

	// services
	tokens := auth.NewTokenIssuer(dep.Config.Auth.JWTSecret, dep.Config.Auth.TokenTTL)
	notifier := notifservice.NewNotificationService(notifStore)
	userSvc := userservice.NewUserService(users)
	authSvc := authservice.NewAuthService(users, tokens)
	projectSvc := projectservice.NewProjectService(projects)
	taskSvc := taskservice.NewTaskService(tasks, userSvc, projectSvc)
	reconciler := entryservice.NewReconciler(entries, tasks, userSvc, tx, notifier)
	reports := entryservice.NewReports(entries, userSvc, projectSvc)
	commentSvc := commentservice.NewCommentService(comments, userSvc, taskSvc, tx, notifier)

	api := r.Group("/api/v1")

	authHandler := authhttp.New(authSvc)
	authHandler.RegisterPublic(api.Group("/auth"))

	protected := api.Group("")
	protected.Use(authmw.JWTAuthMiddleware(tokens))

	authHandler.Register(protected.Group("/auth"))
	userhttp.New(userSvc).Register(protected.Group("/users"))
	projecthttp.New(projectSvc).Register(protected.Group("/projects"))
	taskhttp.New(taskSvc).Register(protected.Group("/tasks"))
	entryhttp.New(reconciler, reports).Register(protected.Group("/time-entries"))
	commenthttp.New(commentSvc).Register(protected.Group("/comments"))
	notifhttp.New(notifier).Register(protected.Group("/notifications"))

	return r, nil
}
