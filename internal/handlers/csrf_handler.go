package handlers

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CSRFToken issues the double-submit token: the value lands in a cookie the
// middleware compares against the X-NX-CSRF header, and in the body so the
// web client can set that header.
func CSRFToken(c *fiber.Ctx) error {
	token := uuid.NewString()

	c.Cookie(&fiber.Cookie{
		Name:     "nx_csrf",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		Secure:   os.Getenv("COOKIE_SECURE") != "false",
		SameSite: "Lax",
		Path:     "/",
	})

	return c.JSON(fiber.Map{"csrf_token": token})
}
