package controller

import (
	"fmt"
	"strings"

	"expense-log-be/internal/constant"
	"expense-log-be/internal/dto"
	"expense-log-be/internal/pkg/serverutils"
	"expense-log-be/internal/service"
	"expense-log-be/pkg/listing"

	"github.com/gofiber/fiber/v2"
)

type IListController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	List(ctx *fiber.Ctx) error
}

type listController struct {
	service  *listing.Service
	registry *service.ListRegistry
}

func NewListController(listService *listing.Service, registry *service.ListRegistry) IListController {
	return &listController{service: listService, registry: registry}
}

func (c *listController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/list", auth)
	h.Get("/:namespace/:entity", c.List)
}

func (c *listController) List(ctx *fiber.Ctx) error {
	namespace, entity := ctx.Params("namespace"), ctx.Params("entity")
	table, ok := c.registry.Table(namespace, entity)
	if !ok {
		return fmt.Errorf("%w: %s", listing.ErrUnknownEntity, listing.Key(namespace, entity))
	}

	filter, columns, err := parseListQuery(ctx)
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		columns = table.DefaultColumns
	}

	pageLimit := ctx.QueryInt("limit", table.PageLimit)
	cfg := listing.Config{
		Namespace:        namespace,
		Entity:           entity,
		Query:            ctx.Query("search"),
		Filter:           filter,
		SortBy:           ctx.Query("sort"),
		Sorting:          ctx.Query("sorting", table.DefaultSorting),
		Page:             ctx.QueryInt("page", 1),
		PageLimit:        pageLimit,
		RequestedColumns: columns,
		HiddenColumns:    table.HiddenColumns,
		AllowedAccessors: table.AllowedAccessors,
		DefaultColumns:   table.DefaultColumns,
		ForeignKeys:      table.ForeignKeys,
	}

	res, err := c.service.List(ctx.UserContext(), cfg)
	if err != nil {
		return err
	}

	if serverutils.WantsJSON(ctx) {
		return ctx.JSON(serverutils.SuccessResponse("Success get list", res))
	}

	return renderPartial(ctx, fiber.StatusOK, "list_table", dto.ListView{
		Response:  res,
		Namespace: namespace,
		Entity:    entity,
		ListURL:   "/list/" + namespace + "/" + entity,
		Target:    constant.TableTarget,
		Controls:  table.Controls,
		PageLimit: pageLimit,
	})
}

// parseListQuery collects filter[field] and filter[field__ne] parameters,
// turning repeated keys into lists, and the repeatable columns parameter.
func parseListQuery(ctx *fiber.Ctx) (listing.Filter, []string, error) {
	raw := map[string][]string{}
	var order []string
	var columns []string

	ctx.Context().QueryArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		if k == "columns" {
			for _, col := range strings.Split(string(value), ",") {
				if col = strings.TrimSpace(col); col != "" {
					columns = append(columns, col)
				}
			}
			return
		}
		field, ok := strings.CutPrefix(k, "filter[")
		if !ok || !strings.HasSuffix(field, "]") {
			return
		}
		field = strings.TrimSuffix(field, "]")
		if _, seen := raw[field]; !seen {
			order = append(order, field)
		}
		raw[field] = append(raw[field], string(value))
	})

	values := make(map[string]any, len(raw))
	for _, field := range order {
		if v := raw[field]; len(v) == 1 {
			values[field] = v[0]
		} else {
			values[field] = v
		}
	}

	filter, err := listing.ParseFilter(values)
	if err != nil {
		return nil, nil, err
	}
	return filter, columns, nil
}
