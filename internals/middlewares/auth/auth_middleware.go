// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const expirySkew = 30 * time.Second

// AdminAuth verifies an HS256 bearer token for the HR routes. With an empty
// secret the routes are left open and a warning is logged once.
func AdminAuth(secret string) fiber.Handler {
	if secret == "" {
		log.Println("⚠️ [AUTH] no admin secret configured, HR routes are unauthenticated")
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	key := []byte(secret)

	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true, ValidMethods: []string{"HS256", "HS384", "HS512"}}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return key, nil
		}); err != nil {
			log.Println("[ERROR] admin token parse:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		if err := validateTokenExpiry(claims, expirySkew); err != nil {
			log.Println("[ERROR] admin token exp:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		subject, err := extractSubject(claims)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or missing subject")
		}
		c.Locals("user_id", subject.String())
		storeBasicClaimsToLocals(c, claims)
		return c.Next()
	}
}
