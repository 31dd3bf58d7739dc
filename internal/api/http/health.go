package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	DB        string    `json:"db"`
	SQLDB     string    `json:"sql_db"`
	Redis     string    `json:"redis"`
}

// Pinger is satisfied by *pgxpool.Pool and the notifications repository.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SQLPinger adapts a database/sql handle to Pinger.
type SQLPinger struct {
	DB *sql.DB
}

func (p SQLPinger) Ping(ctx context.Context) error {
	return p.DB.PingContext(ctx)
}

type HealthHandler struct {
	serviceName string
	version     string
	db          Pinger
	sqlDB       Pinger
	redis       Pinger
}

// NewHealthHandler takes the pgx pool, the database/sql handle and redis.
// A nil Pinger is reported as disabled.
func NewHealthHandler(serviceName, version string, db, sqlDB, redis Pinger) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		db:          db,
		sqlDB:       sqlDB,
		redis:       redis,
	}
}

func ping(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	pingCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	if err := p.Ping(pingCtx); err != nil {
		return "down"
	}
	return "up"
}

// HealthCheck reports 503 when a configured dependency is down.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		DB:        ping(c.Request.Context(), h.db),
		SQLDB:     ping(c.Request.Context(), h.sqlDB),
		Redis:     ping(c.Request.Context(), h.redis),
	}

	status := http.StatusOK
	if resp.DB == "down" || resp.SQLDB == "down" || resp.Redis == "down" {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
