package service

import (
	"fmt"
	"strings"
	"time"

	"expense-log-be/internal/constant"
	"expense-log-be/internal/dto"
	"expense-log-be/internal/entity"
	"expense-log-be/internal/pkg/serverutils"
)

var loggedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	constant.DateLayout,
}

// parseLoggedAt reads a user supplied timestamp. Empty input means now;
// values without a zone are taken in loc.
func parseLoggedAt(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now, nil
	}
	for _, layout := range loggedAtLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, serverutils.ErrBadRequest.Wrap(fmt.Errorf("unrecognized date %q", raw))
}

// parseMonth accepts YYYY-MM or a YYYY-MM-DD inside the month and returns
// the first of that month.
func parseMonth(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{constant.MonthLayout, constant.DateLayout} {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return entity.MonthStart(t), nil
		}
	}
	return time.Time{}, serverutils.ErrBadRequest.Wrap(fmt.Errorf("unrecognized month %q", raw))
}

func dateFilterItems(days []time.Time) []dto.DateFilterItem {
	items := make([]dto.DateFilterItem, 0, len(days))
	for i, day := range days {
		items = append(items, dto.DateFilterItem{
			Id:          i + 1,
			DateValue:   day.Format(constant.DateLayout),
			DisplayText: day.Format(constant.DisplayDate),
		})
	}
	return items
}

func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
