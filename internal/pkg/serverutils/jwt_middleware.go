package serverutils

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrMissingUser = errors.New("token missing user_id")

// ParseUserID validates an HMAC-signed token and returns its user_id claim.
func ParseUserID(tokenStr string, secret []byte) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, ErrMissingUser
	}
	return uuid.Parse(raw)
}

// NewJwtMiddleware stores the caller's user id (uuid.UUID) in
// ctx.Locals("user_id").
func NewJwtMiddleware(secret string) fiber.Handler {
	key := []byte(secret)
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("Missing token", nil))
		}

		userID, err := ParseUserID(authHeader[7:], key)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("Invalid token", nil))
		}

		ctx.Locals("user_id", userID)
		return ctx.Next()
	}
}

// UserID reads the id set by the JWT middleware.
func UserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	if id, ok := ctx.Locals("user_id").(uuid.UUID); ok {
		return id, nil
	}
	return uuid.Nil, fiber.ErrUnauthorized
}
