package models

import "time"

// Daily assignment slots. Each day carries at most one A and one B focus.
const (
	SlotA = 1
	SlotB = 2
)

// DailyTaskAssignment pins a task to an A/B slot for one calendar day.
type DailyTaskAssignment struct {
	ID     string  `gorm:"primaryKey" json:"id"`
	UserID string  `gorm:"uniqueIndex:idx_assignments_user_date_slot;not null" json:"user_id"`
	Date   string  `gorm:"uniqueIndex:idx_assignments_user_date_slot;type:varchar(10);not null" json:"date"` // YYYY-MM-DD
	Slot   int     `gorm:"uniqueIndex:idx_assignments_user_date_slot;not null" json:"slot"`
	TaskID string  `gorm:"index;not null" json:"task_id"`
	Memo   *string `json:"memo,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Task Task `json:"task" gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}
