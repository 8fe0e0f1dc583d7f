package handler

import (
	"context"
	"net/http"
	"time"

	"l2lsales/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity; never exposes credentials or internals.
// Redis is optional: when it is not configured the service is still healthy.
func Health(db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "disabled"
		var dlq int64
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
			} else {
				dlq, _ = worker.DLQLength(ctx, rdb, worker.QueueAudit)
			}
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":             status == http.StatusOK,
			"db":             dbStatus,
			"redis":          redisStatus,
			"events_breaker": dispatcher.BreakerState(),
			"audit_dlq":      dlq,
		})
	}
}
