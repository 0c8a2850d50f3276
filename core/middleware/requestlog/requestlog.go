package requestlog

import (
	"time"

	"category-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// New logs every request with its ray id, status and duration.
func New(l *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		rl := logger.WithRayID(l, c)
		rl.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)

		err := c.Next()
		if err != nil {
			rl.Error("Request error", zap.Error(err))
			return err
		}
		rl.Info("Request finished",
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
		)
		return nil
	}
}
