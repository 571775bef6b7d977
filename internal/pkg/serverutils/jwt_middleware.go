package serverutils

import (
	"strings"

	"expense-log-be/internal/constant"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const LoginPath = "/auth/login"

// JwtMiddleware accepts a Bearer token or the access_token cookie. On
// failure HTMX requests are redirected to the login page, everything else
// gets a 401.
func JwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := bearerToken(ctx)
		if tokenStr == "" {
			tokenStr = ctx.Cookies(constant.AccessTokenCookie)
		}
		if tokenStr == "" {
			return reject(ctx, constant.MsgUnauthorized)
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return reject(ctx, constant.MsgSessionExpired)
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return reject(ctx, constant.MsgUnauthorized)
		}

		ctx.Locals("username", claims["sub"])
		return ctx.Next()
	}
}

func bearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get(fiber.HeaderAuthorization)
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func reject(ctx *fiber.Ctx, message string) error {
	if IsHTMX(ctx) {
		ctx.Set(constant.HXRedirect, LoginPath)
		return ctx.SendStatus(fiber.StatusUnauthorized)
	}
	if strings.Contains(ctx.Get(fiber.HeaderAccept), fiber.MIMETextHTML) {
		return ctx.Redirect(LoginPath, fiber.StatusSeeOther)
	}
	return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, message))
}
