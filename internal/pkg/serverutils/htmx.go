package serverutils

import (
	"strings"

	"expense-log-be/internal/constant"

	"github.com/gofiber/fiber/v2"
)

type MessageLevel string

const (
	LevelSuccess MessageLevel = "success"
	LevelWarning MessageLevel = "warning"
	LevelError   MessageLevel = "error"
	LevelInfo    MessageLevel = "info"
)

// Message is a one-shot notice for the user. It travels in the
// showMessage HX-Trigger payload or through the flash store.
type Message struct {
	Level MessageLevel `json:"level"`
	Text  string       `json:"text"`
}

func IsHTMX(ctx *fiber.Ctx) bool {
	return ctx.Get(constant.HXRequest) == "true"
}

// WantsJSON is true for API clients. HTMX requests always get HTML.
func WantsJSON(ctx *fiber.Ctx) bool {
	if IsHTMX(ctx) {
		return false
	}
	return strings.Contains(ctx.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}

// SetTrigger writes the HX-Trigger header. Event names map to their detail
// payload, a nil payload is sent as an empty object.
func SetTrigger(ctx *fiber.Ctx, events map[string]interface{}) {
	for name, detail := range events {
		if detail == nil {
			events[name] = struct{}{}
		}
	}
	if header := marshalTrigger(events); header != "" {
		ctx.Set(constant.HXTrigger, header)
	}
}

// Notify sends ledgerChanged plus a showMessage event.
func Notify(ctx *fiber.Ctx, msg Message) {
	SetTrigger(ctx, map[string]interface{}{
		constant.EventLedger:  nil,
		constant.EventMessage: msg,
	})
}

// Redirect sends the client elsewhere, through HX-Redirect for HTMX.
func Redirect(ctx *fiber.Ctx, location string) error {
	if IsHTMX(ctx) {
		ctx.Set(constant.HXRedirect, location)
		return ctx.SendStatus(fiber.StatusOK)
	}
	return ctx.Redirect(location, fiber.StatusSeeOther)
}
