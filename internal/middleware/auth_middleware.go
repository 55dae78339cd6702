package middleware

import (
	"errors"
	"strings"

	"github.com/fadilmartias/career-coach/internal/apperror"
	"github.com/fadilmartias/career-coach/internal/config"
	"github.com/fadilmartias/career-coach/internal/logger"
	"github.com/fadilmartias/career-coach/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const identityKey = "identity"

// Auth verifies the identity provider's HS256 bearer token and stores its
// subject as the caller identity.
func Auth(cfg *config.AuthConfig, log *logger.Logger) fiber.Handler {
	log = log.With("middleware", "Auth")
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(opts...)
	secret := []byte(cfg.JWTSecret)

	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c.Get(fiber.HeaderAuthorization))
		if tokenString == "" {
			return util.AppErrorResponse(c, apperror.Unauthorized("Unauthorized"))
		}

		var claims jwt.RegisteredClaims
		token, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			if err == nil {
				err = errors.New("token has no subject")
			}
			log.Debug("rejected token", "error", err)
			return util.AppErrorResponse(c, apperror.Wrap(apperror.ErrUnauthorized, "Unauthorized", err))
		}

		c.Locals(identityKey, claims.Subject)
		return c.Next()
	}
}

func bearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// IdentityFrom returns the identity stored by Auth, or "" when the request
// is unauthenticated.
func IdentityFrom(c *fiber.Ctx) string {
	identity, _ := c.Locals(identityKey).(string)
	return identity
}
