package serverutils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"expense-log-be/internal/constant"
	"expense-log-be/internal/pkg/logger"
	"expense-log-be/pkg/listing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type balanceRequest struct {
	InitialBalance decimal.Decimal `json:"initial_balance" validate:"gte=0"`
	Description    string          `form:"description" validate:"required,max=5"`
}

func TestValidateRequest_CollectsFieldErrors(t *testing.T) {
	err := ValidateRequest(balanceRequest{InitialBalance: decimal.NewFromInt(-1)})

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, fiber.StatusBadRequest, appErr.Code)
	assert.Equal(t, constant.MsgValidationError, appErr.Message)
	require.Len(t, appErr.Errors, 2)
	assert.Equal(t, "initial_balance", appErr.Errors[0].Field)
	assert.Equal(t, "Must be at least 0.", appErr.Errors[0].Message)
	assert.Equal(t, "description", appErr.Errors[1].Field)
}

func TestValidateRequest_Valid(t *testing.T) {
	assert.NoError(t, ValidateRequest(balanceRequest{InitialBalance: decimal.NewFromInt(10), Description: "ok"}))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"app error", fmt.Errorf("wrapped: %w", ErrNotFound), 404, constant.MsgNotFound},
		{"fiber error", fiber.NewError(405, "nope"), 405, "nope"},
		{"record not found", gorm.ErrRecordNotFound, 404, constant.MsgNotFound},
		{"unknown entity", fmt.Errorf("%w: x.y", listing.ErrUnknownEntity), 404, constant.MsgNotFound},
		{"bad sort", listing.ErrInvalidSort, 400, constant.MsgInvalidRequest},
		{"unique violation", &pgconn.PgError{Code: "23505"}, 409, constant.MsgDataConflict},
		{"timeout", context.DeadlineExceeded, 504, constant.MsgTimeout},
		{"anything else", errors.New("boom"), 500, constant.MsgDatabaseError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, message := Classify(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestAppError_IsMatchesWrappedCopies(t *testing.T) {
	err := ErrNotFound.Wrap(errors.New("expense 42"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(logger.NewNopLogger())})
}

func TestErrorHandler_ValidationPayload(t *testing.T) {
	app := newTestApp()
	app.Post("/", func(ctx *fiber.Ctx) error {
		return ValidateRequest(balanceRequest{InitialBalance: decimal.NewFromInt(1)})
	})

	req := httptest.NewRequest("POST", "/", nil)
	req.Header.Set(constant.HXRequest, "true")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(constant.HXTrigger), constant.EventMessage)

	var body BaseResponse[any]
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.False(t, body.Success)
	assert.Equal(t, []FieldError{{Field: "description", Message: "This field is required."}}, body.Errors)
}

func signed(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "admin", "exp": exp.Unix()})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestJwtMiddleware(t *testing.T) {
	app := newTestApp()
	app.Get("/private", JwtMiddleware("secret"), func(ctx *fiber.Ctx) error {
		return ctx.SendString(ctx.Locals("username").(string))
	})

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/private", nil)
		req.Header.Set("Authorization", "Bearer "+signed(t, "secret", time.Now().Add(time.Hour)))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "admin", string(body))
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/private", nil)
		req.Header.Set("Cookie", constant.AccessTokenCookie+"="+signed(t, "secret", time.Now().Add(time.Hour)))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("expired token over htmx redirects", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/private", nil)
		req.Header.Set("Authorization", "Bearer "+signed(t, "secret", time.Now().Add(-time.Hour)))
		req.Header.Set(constant.HXRequest, "true")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
		assert.Equal(t, LoginPath, resp.Header.Get(constant.HXRedirect))
	})

	t.Run("wrong secret", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/private", nil)
		req.Header.Set("Authorization", "Bearer "+signed(t, "other", time.Now().Add(time.Hour)))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
	})
}
