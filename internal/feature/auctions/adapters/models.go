package adapters

import (
	"fmt"
	"time"
)

const (
	// UndefinedItemName is the stored name of items whose metadata has not been resolved yet.
	UndefinedItemName = "UNDEFINED"
	// NoPrice is the stored value of an hour without an observation.
	NoPrice int64 = -1

	metadataCursorName = "item_metadata"
)

// PriceRecordModel is one row of a weekly price-history table:
// the observed price of one item for each hour of one day.
// The table name is chosen per session, see WeekTableName.
type PriceRecordModel struct {
	ItemID    int64 `gorm:"primaryKey;autoIncrement:false"`
	Year      int   `gorm:"primaryKey;autoIncrement:false"`
	DayOfYear int   `gorm:"primaryKey;autoIncrement:false"`

	PriceAtHour0  int64 `gorm:"column:price_at_hour_0;not null;default:-1"`
	PriceAtHour1  int64 `gorm:"column:price_at_hour_1;not null;default:-1"`
	PriceAtHour2  int64 `gorm:"column:price_at_hour_2;not null;default:-1"`
	PriceAtHour3  int64 `gorm:"column:price_at_hour_3;not null;default:-1"`
	PriceAtHour4  int64 `gorm:"column:price_at_hour_4;not null;default:-1"`
	PriceAtHour5  int64 `gorm:"column:price_at_hour_5;not null;default:-1"`
	PriceAtHour6  int64 `gorm:"column:price_at_hour_6;not null;default:-1"`
	PriceAtHour7  int64 `gorm:"column:price_at_hour_7;not null;default:-1"`
	PriceAtHour8  int64 `gorm:"column:price_at_hour_8;not null;default:-1"`
	PriceAtHour9  int64 `gorm:"column:price_at_hour_9;not null;default:-1"`
	PriceAtHour10 int64 `gorm:"column:price_at_hour_10;not null;default:-1"`
	PriceAtHour11 int64 `gorm:"column:price_at_hour_11;not null;default:-1"`
	PriceAtHour12 int64 `gorm:"column:price_at_hour_12;not null;default:-1"`
	PriceAtHour13 int64 `gorm:"column:price_at_hour_13;not null;default:-1"`
	PriceAtHour14 int64 `gorm:"column:price_at_hour_14;not null;default:-1"`
	PriceAtHour15 int64 `gorm:"column:price_at_hour_15;not null;default:-1"`
	PriceAtHour16 int64 `gorm:"column:price_at_hour_16;not null;default:-1"`
	PriceAtHour17 int64 `gorm:"column:price_at_hour_17;not null;default:-1"`
	PriceAtHour18 int64 `gorm:"column:price_at_hour_18;not null;default:-1"`
	PriceAtHour19 int64 `gorm:"column:price_at_hour_19;not null;default:-1"`
	PriceAtHour20 int64 `gorm:"column:price_at_hour_20;not null;default:-1"`
	PriceAtHour21 int64 `gorm:"column:price_at_hour_21;not null;default:-1"`
	PriceAtHour22 int64 `gorm:"column:price_at_hour_22;not null;default:-1"`
	PriceAtHour23 int64 `gorm:"column:price_at_hour_23;not null;default:-1"`
}

// Hours returns the hourly columns in order.
func (m PriceRecordModel) Hours() [24]int64 {
	return [24]int64{
		m.PriceAtHour0, m.PriceAtHour1, m.PriceAtHour2, m.PriceAtHour3, m.PriceAtHour4, m.PriceAtHour5,
		m.PriceAtHour6, m.PriceAtHour7, m.PriceAtHour8, m.PriceAtHour9, m.PriceAtHour10, m.PriceAtHour11,
		m.PriceAtHour12, m.PriceAtHour13, m.PriceAtHour14, m.PriceAtHour15, m.PriceAtHour16, m.PriceAtHour17,
		m.PriceAtHour18, m.PriceAtHour19, m.PriceAtHour20, m.PriceAtHour21, m.PriceAtHour22, m.PriceAtHour23,
	}
}

// ItemModel holds the display metadata of every item ever observed.
type ItemModel struct {
	ItemID    int64   `gorm:"primaryKey;autoIncrement:false"`
	ItemName  string  `gorm:"size:255;not null;default:UNDEFINED;index"`
	Quality   *string `gorm:"size:32"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ItemModel) TableName() string {
	return "item_names"
}

// BackfillCursorModel remembers where the previous backfill stopped.
type BackfillCursorModel struct {
	Name       string `gorm:"primaryKey;size:64"`
	LastItemID int64  `gorm:"not null;default:0"`
	UpdatedAt  time.Time
}

func (BackfillCursorModel) TableName() string {
	return "backfill_cursors"
}

// WeekTableName returns the price-history table for the week containing t,
// e.g. "price_history_2024_07". Weeks start on Sunday; days before the first
// Sunday of the year belong to week 00.
func WeekTableName(t time.Time) string {
	return fmt.Sprintf("price_history_%d_%02d", t.Year(), SundayWeek(t))
}

// SundayWeek returns the Sunday-first week number of t (00-53).
func SundayWeek(t time.Time) int {
	return (t.YearDay() - 1 + 7 - int(t.Weekday())) / 7
}

// hourColumn returns the column holding the price observed at hour h.
func hourColumn(h int) string {
	return fmt.Sprintf("price_at_hour_%d", h)
}
