package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	sessionCookie = "sid"
	sessionLocal  = "sessionID"
)

// sessionMiddleware makes sure every request carries a session id cookie.
func sessionMiddleware(c *fiber.Ctx) error {
	id := c.Cookies(sessionCookie)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	c.Locals(sessionLocal, id)
	return c.Next()
}

func sessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(sessionLocal).(string)
	return id
}
