package middleware

import (
	"fmt"
	"time"

	"earnings-service/src/pkg/log"

	"github.com/gofiber/fiber/v2"
)

// NewLogger logs one line per request with status and latency.
func NewLogger() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()
		latency := time.Since(start)

		logger := log.GetLogger()
		meta := fmt.Sprintf("status=%d latency=%s", ctx.Response().StatusCode(), latency)
		logger.Info("http", fmt.Sprintf("%s %s", ctx.Method(), ctx.Path()), "request", meta)
		if latency > 2*time.Second {
			logger.Slow("http", fmt.Sprintf("%s %s", ctx.Method(), ctx.Path()), "request", meta)
		}

		return err
	}
}
