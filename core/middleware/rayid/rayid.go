package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// Header carries the ray id on requests and responses.
const Header = "X-Ray-ID"

// LocalKey is the fiber local the ray id is stored under.
const LocalKey = "ray_id"

// New returns a middleware that assigns every request a ray id. An incoming
// X-Ray-ID header is kept.
func New() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     Header,
		ContextKey: LocalKey,
		Generator:  uuid.NewString,
	})
}
