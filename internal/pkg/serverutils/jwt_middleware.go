package serverutils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RequesterIDKey    = "requester_id"
	RequesterIDHeader = "X-Requester-Id"
)

// RequesterMiddleware resolves the session partition key of the request:
// the user_id claim of a valid HMAC bearer token, else the X-Requester-Id
// header, else a fresh UUID. The websocket upgrade cannot carry headers from
// browsers, so "token" and "requester_id" query parameters are accepted too.
// The chosen id is echoed in the X-Requester-Id response header.
func RequesterMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id := userIDFromToken(bearerToken(ctx), secret)
		if id == "" {
			id = strings.TrimSpace(ctx.Get(RequesterIDHeader))
		}
		if id == "" {
			id = strings.TrimSpace(ctx.Query("requester_id"))
		}
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		ctx.Locals(RequesterIDKey, id)
		ctx.Set(RequesterIDHeader, id)
		return ctx.Next()
	}
}

// RequesterID reads the id stored by RequesterMiddleware.
func RequesterID(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals(RequesterIDKey).(string)
	return id
}

func bearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ctx.Query("token")
}

func userIDFromToken(tokenStr, secret string) string {
	if tokenStr == "" || secret == "" {
		return ""
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	userID, _ := claims["user_id"].(string)
	return userID
}
