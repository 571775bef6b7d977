package controller

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"expense-log-be/internal/constant"
	"expense-log-be/internal/dto"
	"expense-log-be/internal/pkg/serverutils"
	"expense-log-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IBankLogController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Index(ctx *fiber.Ctx) error
	SetBalance(ctx *fiber.Ctx) error
	AddForm(ctx *fiber.Ctx) error
	SaveNew(ctx *fiber.Ctx) error
	CancelAdd(ctx *fiber.Ctx) error
	Statement(ctx *fiber.Ctx) error
}

type bankLogController struct {
	service   service.IBankLogService
	statement service.IStatementService
	flash     *Flasher
	location  *time.Location
}

func NewBankLogController(
	service service.IBankLogService,
	statement service.IStatementService,
	flash *Flasher,
	location *time.Location,
) IBankLogController {
	return &bankLogController{
		service:   service,
		statement: statement,
		flash:     flash,
		location:  location,
	}
}

func (c *bankLogController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/bank-log", auth)
	h.Get("/", c.Index)
	h.Post("/set-balance/", c.SetBalance)
	h.Get("/transaction/add-form/", c.AddForm)
	h.Post("/transaction/save-new/", c.SaveNew)
	h.Get("/transaction/cancel-add/", c.CancelAdd)
	h.Post("/transaction/cancel-add/", c.CancelAdd)
	h.Get("/statement.pdf", c.Statement)
}

type bankLogView struct {
	*dto.BankLogContext
	PageURL string
}

func (c *bankLogController) Index(ctx *fiber.Ctx) error {
	res, err := c.loadContext(ctx)
	if err != nil {
		return err
	}

	if serverutils.WantsJSON(ctx) {
		return ctx.JSON(serverutils.SuccessResponse("Success get bank log", res))
	}

	data := newBankLogView(res)
	if serverutils.IsHTMX(ctx) {
		if ctx.Query("target_body") == "1" {
			return renderPartial(ctx, fiber.StatusOK, "bank_log_body", data)
		}
		return renderPartial(ctx, fiber.StatusOK, "bank_log_table", data)
	}
	return renderPage(ctx, c.flash, "bank_log.html", "Bank Log", "bank", data)
}

func (c *bankLogController) SetBalance(ctx *fiber.Ctx) error {
	var req dto.SetBalanceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.ErrInvalidFormat.Wrap(err)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	account, err := c.service.SetOrUpdateBalance(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	if serverutils.WantsJSON(ctx) {
		return ctx.JSON(serverutils.SuccessResponse(constant.MsgBalanceUpdated, account))
	}

	res, err := c.loadContext(ctx)
	if err != nil {
		return err
	}
	serverutils.Notify(ctx, success(constant.MsgBalanceUpdated))
	return renderPartial(ctx, fiber.StatusOK, "bank_log_table", newBankLogView(res))
}

func (c *bankLogController) AddForm(ctx *fiber.Ctx) error {
	return renderPartial(ctx, fiber.StatusOK, "bank_transaction_add_form", newFormClock(c.location))
}

func (c *bankLogController) SaveNew(ctx *fiber.Ctx) error {
	var req dto.RecordTransactionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.ErrInvalidFormat.Wrap(err)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	tx, err := c.service.RecordTransaction(ctx.UserContext(), &req)
	if err != nil {
		var appErr *serverutils.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return &serverutils.AppError{
			Code:    fiber.StatusInternalServerError,
			Message: constant.MsgTransactionFailed,
			Err:     err,
		}
	}

	if serverutils.WantsJSON(ctx) {
		return ctx.JSON(serverutils.SuccessResponse(constant.MsgTransactionRecorded, tx))
	}

	serverutils.Notify(ctx, success(constant.MsgTransactionRecorded))
	return renderPartial(ctx, fiber.StatusOK, "bank_transaction_row", tx)
}

func (c *bankLogController) CancelAdd(ctx *fiber.Ctx) error {
	// An empty 200 lets HTMX swap the form away.
	return ctx.SendString("")
}

func (c *bankLogController) Statement(ctx *fiber.Ctx) error {
	month := time.Now().In(c.location)
	if raw := ctx.Query("month"); raw != "" {
		parsed, err := time.ParseInLocation(constant.MonthLayout, raw, c.location)
		if err != nil {
			return serverutils.NewAppError(fiber.StatusBadRequest, constant.MsgStatementMonthInvalid)
		}
		month = parsed
	}

	pdf, filename, err := c.statement.MonthlyStatement(ctx.UserContext(), month)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Send(pdf)
}

// loadContext reads the list filters from the query string. Values that do
// not parse are dropped and the service falls back to its defaults.
func (c *bankLogController) loadContext(ctx *fiber.Ctx) (*dto.BankLogContext, error) {
	var filter dto.TransactionFilterRequest
	_ = ctx.QueryParser(&filter)
	return c.service.GetTransactionsContext(ctx.UserContext(), filter)
}

func newBankLogView(res *dto.BankLogContext) bankLogView {
	q := url.Values{}
	q.Set("filter_date", res.CurrentFilters.FilterDate)
	q.Set("filter_month_year", res.CurrentFilters.FilterMonthYear)
	q.Set("transaction_type", res.CurrentFilters.TransactionType)
	q.Set("sort_by", res.CurrentFilters.SortBy)
	q.Set("page_size", strconv.Itoa(res.CurrentFilters.PageSize))
	return bankLogView{
		BankLogContext: res,
		PageURL:        "/bank-log/?" + q.Encode() + "&",
	}
}
