package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// NewLogger returns middleware that logs every request once the handler
// chain has finished, at a level matching the response status.
func NewLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		started := time.Now()
		err := c.Next()

		message := "HTTP Request"
		if err != nil {
			message = err.Error()
		}

		status := c.Response().StatusCode()

		// Behind Cloudflare c.IP() is the edge, not the caller
		clientIP := c.IP()
		if forwarded := c.Get("CF-Connecting-IP", ""); forwarded != "" {
			clientIP = forwarded
		}

		requestLogger := log.With().
			Int("status", status).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", clientIP).
			Str("latency", time.Since(started).String()).
			Str("user-agent", c.Get(fiber.HeaderUserAgent)).
			Logger()

		switch {
		case status >= fiber.StatusInternalServerError:
			requestLogger.Error().Msg(message)
		case status >= fiber.StatusBadRequest:
			requestLogger.Warn().Msg(message)
		default:
			requestLogger.Info().Msg(message)
		}

		return nil
	}
}
