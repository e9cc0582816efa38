package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/dto"
)

// HeaderUserID cabecera con el usuario que actúa. La autenticación la resuelve el gateway.
const HeaderUserID = "X-User-ID"

// LocalUserID key de c.Locals para el usuario.
const LocalUserID = "user_id"

// ActorMiddleware copia X-User-ID a c.Locals. No rechaza requests sin cabecera.
func ActorMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID := strings.TrimSpace(c.Get(HeaderUserID)); userID != "" {
			c.Locals(LocalUserID, userID)
		}
		return c.Next()
	}
}

// RequireActor responde 401 si la request no trae usuario. Usar después de ActorMiddleware.
func RequireActor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUserID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_USER", Message: HeaderUserID + " requerido"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el usuario del contexto o "".
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// RequestLogger registra método, ruta, status y duración de cada request.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		ev := log.Info()
		if status := c.Response().StatusCode(); status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("duration", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("request")
		return err
	}
}
