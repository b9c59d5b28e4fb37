package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/alceillini1999/Zaad.POS/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Health returns a JSON health check response. Redis is pinged live; the
// Sheets backend is reported through its circuit breaker state so that
// health probes never burn Sheets API quota.
func Health(rdb *redis.Client, sheetsCB *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		redisStatus := "connected"
		if rdb == nil || rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		sheetsStatus := sheetsCB.State().String()

		status := http.StatusOK
		if redisStatus != "connected" || sheetsStatus == "open" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":     status == http.StatusOK,
			"redis":  redisStatus,
			"sheets": sheetsStatus,
		})
	}
}
