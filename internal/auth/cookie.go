package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieSettings controls how the session cookie is written.
type CookieSettings struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// SetSessionCookie stores token in an http-only cookie scoped to the whole site.
func SetSessionCookie(c *fiber.Ctx, settings CookieSettings, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     settings.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(settings.TTL.Seconds()),
		Expires:  time.Now().Add(settings.TTL),
		Secure:   settings.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *fiber.Ctx, settings CookieSettings) {
	c.Cookie(&fiber.Cookie{
		Name:     settings.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   settings.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
