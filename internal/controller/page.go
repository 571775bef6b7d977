package controller

import (
	"time"

	"expense-log-be/internal/constant"
	"expense-log-be/internal/pkg/serverutils"
	"expense-log-be/internal/repository/memory"
	"expense-log-be/internal/view"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Flasher queues messages that survive one redirect, keyed by the
// flash_session cookie.
type Flasher struct {
	repo   *memory.FlashRepository[serverutils.Message]
	secure bool
}

func NewFlasher(repo *memory.FlashRepository[serverutils.Message], secureCookie bool) *Flasher {
	return &Flasher{repo: repo, secure: secureCookie}
}

func (f *Flasher) Push(ctx *fiber.Ctx, msg serverutils.Message) {
	sessionID := ctx.Cookies(constant.FlashCookie)
	if sessionID == "" {
		sessionID = uuid.NewString()
		ctx.Cookie(&fiber.Cookie{
			Name:     constant.FlashCookie,
			Value:    sessionID,
			Path:     "/",
			HTTPOnly: true,
			Secure:   f.secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	f.repo.Push(sessionID, msg)
}

func (f *Flasher) Pop(ctx *fiber.Ctx) []serverutils.Message {
	sessionID := ctx.Cookies(constant.FlashCookie)
	if sessionID == "" {
		return nil
	}
	return f.repo.Pop(sessionID)
}

func renderPage(ctx *fiber.Ctx, flash *Flasher, name, title, active string, data any) error {
	page := view.Page{
		Title:  title,
		Active: active,
		Data:   data,
	}
	if username, ok := ctx.Locals("username").(string); ok {
		page.Username = username
	}
	if flash != nil {
		page.Messages = flash.Pop(ctx)
	}
	return ctx.Render(name, page)
}

// renderPartial renders an HTMX fragment with the given status.
func renderPartial(ctx *fiber.Ctx, status int, name string, data any) error {
	return ctx.Status(status).Render(name, data)
}

type formClock struct {
	Now string
}

func newFormClock(loc *time.Location) formClock {
	return formClock{Now: time.Now().In(loc).Format("2006-01-02T15:04")}
}

func success(text string) serverutils.Message {
	return serverutils.Message{Level: serverutils.LevelSuccess, Text: text}
}

func warning(text string) serverutils.Message {
	return serverutils.Message{Level: serverutils.LevelWarning, Text: text}
}

func failure(text string) serverutils.Message {
	return serverutils.Message{Level: serverutils.LevelError, Text: text}
}
