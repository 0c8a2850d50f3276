package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
)

// HeaderAPIKey carries the API key when no Bearer token is sent.
const HeaderAPIKey = "X-API-Key"

// Config configures the API key check.
type Config struct {
	// ApiKey is the expected key. Empty disables the check.
	ApiKey string
	// Skip lists path prefixes that stay public.
	Skip []string
}

// New returns a middleware that requires the X-API-Key header (or a Bearer
// token) to match the configured key.
func New(cfg Config) fiber.Handler {
	if cfg.ApiKey == "" {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	skip := func(c *fiber.Ctx) bool {
		for _, prefix := range cfg.Skip {
			if strings.HasPrefix(c.Path(), prefix) {
				return true
			}
		}
		return false
	}
	validate := func(_ *fiber.Ctx, key string) (bool, error) {
		if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.ApiKey)) == 1 {
			return true, nil
		}
		return false, keyauth.ErrMissingOrMalformedAPIKey
	}
	unauthorized := func(c *fiber.Ctx, _ error) error {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	byHeader := keyauth.New(keyauth.Config{
		Next:         skip,
		KeyLookup:    "header:" + HeaderAPIKey,
		Validator:    validate,
		ErrorHandler: unauthorized,
	})
	byBearer := keyauth.New(keyauth.Config{
		Next:         skip,
		KeyLookup:    "header:" + fiber.HeaderAuthorization,
		AuthScheme:   "Bearer",
		Validator:    validate,
		ErrorHandler: unauthorized,
	})

	return func(c *fiber.Ctx) error {
		if c.Get(HeaderAPIKey) == "" && c.Get(fiber.HeaderAuthorization) != "" {
			return byBearer(c)
		}
		return byHeader(c)
	}
}
