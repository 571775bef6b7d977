package serverutils

import (
	"context"
	"encoding/json"
	"errors"

	"expense-log-be/internal/constant"
	"expense-log-be/internal/pkg/logger"
	"expense-log-be/pkg/listing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// AppError is an error with a status code and a message safe to show users.
type AppError struct {
	Code    int
	Message string
	Errors  []FieldError
	Err     error
}

func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap returns a copy of e that also carries cause.
func (e *AppError) Wrap(cause error) *AppError {
	cp := *e
	cp.Err = cause
	return &cp
}

// Is matches other AppErrors by code and message so that wrapped copies of a
// sentinel still satisfy errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

var (
	ErrNotFound     = NewAppError(fiber.StatusNotFound, constant.MsgNotFound)
	ErrUnauthorized = NewAppError(fiber.StatusUnauthorized, constant.MsgUnauthorized)
	ErrBadRequest   = NewAppError(fiber.StatusBadRequest, constant.MsgInvalidRequest)
)

// ErrInvalidFormat is a body that could not be decoded at all.
var ErrInvalidFormat = NewAppError(fiber.StatusBadRequest, constant.MsgInvalidFormat)

const pgUniqueViolation = "23505"

// Classify maps any error to an HTTP status and a user-facing message.
func Classify(err error) (int, string) {
	var appErr *AppError
	var fiberErr *fiber.Error
	var pgErr *pgconn.PgError

	switch {
	case errors.As(err, &appErr):
		return appErr.Code, appErr.Message
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	case errors.Is(err, listing.ErrUnknownEntity), errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound, constant.MsgNotFound
	case errors.Is(err, listing.ErrInvalidFilter), errors.Is(err, listing.ErrInvalidSort):
		return fiber.StatusBadRequest, constant.MsgInvalidRequest
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation:
		return fiber.StatusConflict, constant.MsgDataConflict
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, constant.MsgTimeout
	default:
		return fiber.StatusInternalServerError, constant.MsgDatabaseError
	}
}

// NewErrorHandler is installed as fiber's ErrorHandler. HTMX callers also get
// a showMessage trigger so the page can surface the failure.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code, message := Classify(err)

		details := map[string]interface{}{
			"path":   ctx.Path(),
			"method": ctx.Method(),
			"status": code,
			"error":  err.Error(),
		}
		if code >= fiber.StatusInternalServerError {
			log.Error(logger.ModuleHTTP, "Request failed", details)
		} else {
			log.Debug(logger.ModuleHTTP, "Request rejected", details)
		}

		var fieldErrors []FieldError
		var appErr *AppError
		if errors.As(err, &appErr) {
			fieldErrors = appErr.Errors
		}

		if IsHTMX(ctx) {
			SetTrigger(ctx, map[string]interface{}{
				constant.EventMessage: Message{Level: LevelError, Text: message},
			})
		}

		return ctx.Status(code).JSON(ValidationErrorResponse(code, message, fieldErrors))
	}
}

func marshalTrigger(events map[string]interface{}) string {
	raw, err := json.Marshal(events)
	if err != nil {
		return ""
	}
	return string(raw)
}
