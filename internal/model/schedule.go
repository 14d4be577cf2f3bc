package model

import (
	"time"

	"github.com/google/uuid"
)

// WorkDay describes opening hours for one weekday. DayOfWeek follows ISO
// numbering, 1=Monday through 7=Sunday.
type WorkDay struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	Open      bool      `db:"is_open" json:"open"`
	OpenTime  string    `db:"open_time" json:"open_time"`
	CloseTime string    `db:"close_time" json:"close_time"`
}

type Holiday struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Date        time.Time `db:"holiday_date" json:"date"`
	Description string    `db:"description" json:"description,omitempty"`
}

// WorkShift assigns a staff member to a recurring weekly slot.
type WorkShift struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	Active    bool      `db:"is_active" json:"active"`
}

type UpdateWorkDayRequest struct {
	DayOfWeek int    `json:"day_of_week" binding:"required,min=1,max=7"`
	Open      bool   `json:"open"`
	OpenTime  string `json:"open_time" binding:"omitempty,len=5"`
	CloseTime string `json:"close_time" binding:"omitempty,len=5"`
}

type CreateHolidayRequest struct {
	Date        time.Time `json:"date" binding:"required"`
	Description string    `json:"description" binding:"max=200"`
}

type CreateWorkShiftRequest struct {
	UserID    uuid.UUID `json:"user_id" binding:"required"`
	DayOfWeek int       `json:"day_of_week" binding:"required,min=1,max=7"`
	StartTime string    `json:"start_time" binding:"required,len=5"`
	EndTime   string    `json:"end_time" binding:"required,len=5"`
}
