package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"clearvide/internal/usecase"
	"clearvide/pkg/identity"
)

const (
	sessionCookie = "cv_session"
	localSession  = "session"
	localUser     = "user"
)

// RequestLogger logs one line per request after the handler has run.
func RequestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.IP()),
		}
		if s, ok := c.Locals(localSession).(*usecase.Session); ok {
			fields = append(fields, zap.String("session_id", s.ID))
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		log.Info("HTTP Request", fields...)
		return err
	}
}

func bearer(c *fiber.Ctx) string {
	token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// withSession resolves the cv_session cookie, issuing a new id when it is
// missing or malformed, and opens the session. The id outlives the request,
// so it is copied out of fasthttp's reusable buffer.
func (h *Handler) withSession(c *fiber.Ctx) error {
	id := utils.CopyString(c.Cookies(sessionCookie))
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			MaxAge:   int((365 * 24 * time.Hour).Seconds()),
			HTTPOnly: true,
			Secure:   h.cookieSecure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	c.Locals(localSession, h.registry.Open(c.UserContext(), id, bearer(c)))
	return c.Next()
}

// requireUser authenticates the bearer credential.
func (h *Handler) requireUser(c *fiber.Ctx) error {
	token := bearer(c)
	if token == "" || h.auth == nil {
		return respondError(c, identity.ErrUnauthenticated)
	}
	user, err := h.auth.Authenticate(c.UserContext(), token)
	if err != nil {
		return respondError(c, err)
	}
	c.Locals(localUser, user)
	return c.Next()
}

func session(c *fiber.Ctx) *usecase.Session {
	return c.Locals(localSession).(*usecase.Session)
}

func currentUser(c *fiber.Ctx) identity.User {
	u, _ := c.Locals(localUser).(identity.User)
	return u
}
