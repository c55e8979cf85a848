package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// BasicAuth is a Fiber middleware that admits a single user whose password
// matches the bcrypt hash passwordHash.
func BasicAuth(username, passwordHash string, logger *zap.Logger) fiber.Handler {
	return basicauth.New(basicauth.Config{
		Realm: "katalog",
		Authorizer: func(user, pass string) bool {
			userOK := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
			passOK := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(pass)) == nil
			if !userOK || !passOK {
				logger.Warn("basic auth rejected", zap.String("username", user))
				return false
			}
			return true
		},
	})
}

// HashPassword returns the bcrypt hash to configure BasicAuth with.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
