package controller

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"expense-log-be/internal/constant"
	"expense-log-be/internal/dto"
	"expense-log-be/internal/pkg/serverutils"
	"expense-log-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IMonthLogController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Index(ctx *fiber.Ctx) error
	SetSalary(ctx *fiber.Ctx) error
	AddForm(ctx *fiber.Ctx) error
	SaveNew(ctx *fiber.Ctx) error
	CancelAdd(ctx *fiber.Ctx) error
	EditForm(ctx *fiber.Ctx) error
	SaveEdited(ctx *fiber.Ctx) error
	CancelEdit(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type monthLogController struct {
	service  service.IMonthLogService
	flash    *Flasher
	location *time.Location
}

func NewMonthLogController(service service.IMonthLogService, flash *Flasher, location *time.Location) IMonthLogController {
	return &monthLogController{service: service, flash: flash, location: location}
}

func (c *monthLogController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/monthly-log", auth)
	h.Get("/", c.Index)
	h.Post("/set-salary/", c.SetSalary)

	h.Get("/expense/add-form/", c.AddForm)
	h.Post("/expense/save-new/", c.SaveNew)
	h.Get("/expense/cancel-add/", c.CancelAdd)
	h.Post("/expense/cancel-add/", c.CancelAdd)

	h.Get("/expense/edit-form/:id/", c.EditForm)
	h.Post("/expense/save-edited/:id/", c.SaveEdited)
	h.Get("/expense/cancel-edit/:id/", c.CancelEdit)
	h.Post("/expense/cancel-edit/:id/", c.CancelEdit)

	h.Post("/expense/delete/:id/", c.Delete)
	h.Delete("/expense/delete/:id/", c.Delete)
}

type monthLogView struct {
	*dto.MonthlyLogContext
	PageURL string
}

func (c *monthLogController) Index(ctx *fiber.Ctx) error {
	res, err := c.loadContext(ctx, "")
	if err != nil {
		return err
	}

	if serverutils.WantsJSON(ctx) {
		return ctx.JSON(serverutils.SuccessResponse("Success get monthly log", res))
	}

	data := newMonthLogView(res)
	if serverutils.IsHTMX(ctx) {
		return renderPartial(ctx, fiber.StatusOK, "monthly_log_content", data)
	}
	return renderPage(ctx, c.flash, "monthly_log.html", "Monthly Log", "month", data)
}

func (c *monthLogController) SetSalary(ctx *fiber.Ctx) error {
	var req dto.SetSalaryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.ErrInvalidFormat.Wrap(err)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	salary, err := c.service.SetOrUpdateSalary(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	message := fmt.Sprintf(constant.MsgSalarySetFormat,
		salary.MonthYear.Format(constant.DisplayMonth),
		salary.SalaryAmount.StringFixed(2),
	)

	if serverutils.WantsJSON(ctx) {
		return ctx.JSON(serverutils.SuccessResponse(message, salary))
	}

	res, err := c.loadContext(ctx, salary.MonthYear.Format(constant.MonthLayout))
	if err != nil {
		return err
	}
	serverutils.Notify(ctx, success(message))
	return renderPartial(ctx, fiber.StatusOK, "monthly_summary", newMonthLogView(res))
}

func (c *monthLogController) AddForm(ctx *fiber.Ctx) error {
	return renderPartial(ctx, fiber.StatusOK, "expense_add_form", newFormClock(c.location))
}

func (c *monthLogController) SaveNew(ctx *fiber.Ctx) error {
	var req dto.CreateExpenseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.ErrInvalidFormat.Wrap(err)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	result, err := c.service.AddExpense(ctx.UserContext(), &req)
	if err != nil {
		if serverutils.WantsJSON(ctx) {
			return err
		}
		_, message := serverutils.Classify(err)
		return c.renderContent(ctx, failure(message))
	}

	if serverutils.WantsJSON(ctx) {
		return ctx.JSON(serverutils.SuccessResponse(result.Message, result))
	}
	return c.renderContent(ctx, outcome(result))
}

func (c *monthLogController) CancelAdd(ctx *fiber.Ctx) error {
	// An empty 200 lets HTMX swap the form away.
	return ctx.SendString("")
}

func (c *monthLogController) EditForm(ctx *fiber.Ctx) error {
	id, err := expenseID(ctx)
	if err != nil {
		return err
	}

	expense, err := c.service.GetExpense(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	if serverutils.WantsJSON(ctx) {
		return ctx.JSON(serverutils.SuccessResponse("Success get expense", expense))
	}
	return renderPartial(ctx, fiber.StatusOK, "expense_edit_form", expense)
}

func (c *monthLogController) SaveEdited(ctx *fiber.Ctx) error {
	id, err := expenseID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateExpenseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.ErrInvalidFormat.Wrap(err)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	result, err := c.service.UpdateExpense(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}

	if serverutils.WantsJSON(ctx) {
		return ctx.JSON(serverutils.SuccessResponse(result.Message, result))
	}
	return c.renderContent(ctx, outcome(result))
}

func (c *monthLogController) CancelEdit(ctx *fiber.Ctx) error {
	id, err := expenseID(ctx)
	if err != nil {
		return err
	}

	expense, err := c.service.GetExpense(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return renderPartial(ctx, fiber.StatusOK, "expense_row", expense)
}

func (c *monthLogController) Delete(ctx *fiber.Ctx) error {
	id, err := expenseID(ctx)
	if err != nil {
		return err
	}

	result, err := c.service.DeleteExpense(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	if serverutils.WantsJSON(ctx) {
		return ctx.JSON(serverutils.SuccessResponse(result.Message, result))
	}
	return c.renderContent(ctx, outcome(result))
}

// renderContent answers a write with the refreshed list and summary and
// pushes msg to the page.
func (c *monthLogController) renderContent(ctx *fiber.Ctx, msg serverutils.Message) error {
	res, err := c.loadContext(ctx, "")
	if err != nil {
		return err
	}
	serverutils.Notify(ctx, msg)
	return renderPartial(ctx, fiber.StatusOK, "monthly_log_content", newMonthLogView(res))
}

// loadContext reads the filters from the query string. month, when set,
// replaces the month filter.
func (c *monthLogController) loadContext(ctx *fiber.Ctx, month string) (*dto.MonthlyLogContext, error) {
	var filter dto.ExpenseFilterRequest
	_ = ctx.QueryParser(&filter)
	if month != "" {
		filter.FilterDate = ""
		filter.FilterMonthYear = month
	}
	return c.service.GetMonthlyLogContext(ctx.UserContext(), filter)
}

func expenseID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, serverutils.ErrNotFound.Wrap(err)
	}
	return id, nil
}

func outcome(result *dto.ExpenseChangeResult) serverutils.Message {
	if result.Warning {
		return warning(result.Message)
	}
	return success(result.Message)
}

func newMonthLogView(res *dto.MonthlyLogContext) monthLogView {
	q := url.Values{}
	q.Set("filter_date", res.CurrentFilters.FilterDate)
	q.Set("filter_month_year", res.CurrentFilters.FilterMonthYear)
	q.Set("sort_by", res.CurrentFilters.SortBy)
	q.Set("page_size", strconv.Itoa(res.CurrentFilters.PageSize))
	return monthLogView{
		MonthlyLogContext: res,
		PageURL:           "/monthly-log/?" + q.Encode() + "&",
	}
}
