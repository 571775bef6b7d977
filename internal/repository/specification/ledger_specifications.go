package specification

import (
	"time"

	"gorm.io/gorm"
)

// LoggedOn keeps rows whose date_logged falls on Day.
type LoggedOn struct {
	Day time.Time
}

func (s LoggedOn) Apply(db *gorm.DB) *gorm.DB {
	start := time.Date(s.Day.Year(), s.Day.Month(), s.Day.Day(), 0, 0, 0, 0, s.Day.Location())
	return LoggedBetween{From: start, To: start.AddDate(0, 0, 1)}.Apply(db)
}

// LoggedInMonth keeps rows whose date_logged falls in Month's calendar month.
type LoggedInMonth struct {
	Month time.Time
}

func (s LoggedInMonth) Apply(db *gorm.DB) *gorm.DB {
	start := time.Date(s.Month.Year(), s.Month.Month(), 1, 0, 0, 0, 0, s.Month.Location())
	return LoggedBetween{From: start, To: start.AddDate(0, 1, 0)}.Apply(db)
}

// LoggedBetween is the half-open range [From, To) on date_logged.
type LoggedBetween struct {
	From time.Time
	To   time.Time
}

func (s LoggedBetween) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("date_logged >= ? AND date_logged < ?", s.From, s.To)
}

type ByTransactionType struct {
	Type string
}

func (s ByTransactionType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("transaction_type = ?", s.Type)
}

type ByMonthYear struct {
	Month time.Time
}

func (s ByMonthYear) Apply(db *gorm.DB) *gorm.DB {
	start := time.Date(s.Month.Year(), s.Month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return db.Where("month_year = ?", start.Format("2006-01-02"))
}
