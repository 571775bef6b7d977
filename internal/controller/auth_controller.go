package controller

import (
	"expense-log-be/internal/constant"
	"expense-log-be/internal/dto"
	"expense-log-be/internal/pkg/serverutils"
	"expense-log-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	LoginPage(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
	flash   *Flasher
	secure  bool
}

func NewAuthController(service service.IAuthService, flash *Flasher, secureCookie bool) IAuthController {
	return &authController{service: service, flash: flash, secure: secureCookie}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Get("/login", c.LoginPage)
	h.Post("/login", c.Login)
	h.Post("/logout", c.Logout)
}

func (c *authController) LoginPage(ctx *fiber.Ctx) error {
	return renderPage(ctx, c.flash, "login.html", "Sign in", "", nil)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.ErrInvalidFormat.Wrap(err)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		if serverutils.WantsJSON(ctx) {
			return err
		}
		_, message := serverutils.Classify(err)
		c.flash.Push(ctx, failure(message))
		return ctx.Redirect(serverutils.LoginPath, fiber.StatusSeeOther)
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     constant.AccessTokenCookie,
		Value:    res.AccessToken,
		Path:     "/",
		Expires:  res.ExpiresAt,
		HTTPOnly: true,
		Secure:   c.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	if serverutils.WantsJSON(ctx) {
		return ctx.JSON(serverutils.SuccessResponse(constant.MsgLoginSuccess, res))
	}

	c.flash.Push(ctx, success(constant.MsgLoginSuccess))
	if serverutils.IsHTMX(ctx) {
		ctx.Set(constant.HXRedirect, "/bank-log/")
		return ctx.SendStatus(fiber.StatusOK)
	}
	return ctx.Redirect("/bank-log/", fiber.StatusSeeOther)
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	ctx.ClearCookie(constant.AccessTokenCookie)

	if serverutils.WantsJSON(ctx) {
		return ctx.JSON(serverutils.SuccessResponse[any](constant.MsgLogoutSuccess, nil))
	}
	if serverutils.IsHTMX(ctx) {
		ctx.Set(constant.HXRedirect, serverutils.LoginPath)
		return ctx.SendStatus(fiber.StatusOK)
	}
	return ctx.Redirect(serverutils.LoginPath, fiber.StatusSeeOther)
}
